package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses, kept narrow so
// tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type transactionRepository struct {
	storage *Storage
}

type couponRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Transactions() repository.TransactionRepository {
	return &transactionRepository{storage: s}
}

func (s *Storage) Coupons() repository.CouponRepository {
	return &couponRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
            id TEXT PRIMARY KEY,
            status TEXT NOT NULL,
            attempts INTEGER NOT NULL DEFAULT 0,
            last_error TEXT NOT NULL DEFAULT '',
            vendor_job_id TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS coupons (
            id SERIAL PRIMARY KEY,
            code TEXT UNIQUE NOT NULL,
            discount_percent INTEGER NOT NULL DEFAULT 100,
            max_redemptions INTEGER NOT NULL DEFAULT 500,
            times_redeemed INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expires_at TIMESTAMPTZ,
            is_active BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS coupon_redemptions (
            id SERIAL PRIMARY KEY,
            coupon_id BIGINT NOT NULL REFERENCES coupons(id),
            transaction_id TEXT NOT NULL,
            redeemed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_transaction ON coupon_redemptions(transaction_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- TransactionRepository implementation ---

func (r *transactionRepository) Create(ctx context.Context, id string) (*model.Transaction, error) {
	const query = `INSERT INTO transactions (id, status) VALUES ($1, $2)
                   ON CONFLICT (id) DO NOTHING
                   RETURNING created_at, updated_at`
	tx := model.Transaction{ID: id, Status: model.TransactionStatusPending}
	err := r.storage.pool.QueryRow(ctx, query, id, model.TransactionStatusPending).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrDuplicateTransaction
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) CheckStatus(ctx context.Context, id string) (model.TransactionStatus, error) {
	const query = `SELECT status FROM transactions WHERE id=$1`
	var status model.TransactionStatus
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TransactionStatusNone, nil
		}
		return model.TransactionStatusNone, err
	}
	return status, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	const query = `SELECT id, status, attempts, last_error, vendor_job_id, created_at, updated_at, completed_at
                   FROM transactions WHERE id=$1`
	var tx model.Transaction
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.Status, &tx.Attempts, &tx.LastError, &tx.VendorJobID,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) MarkCompleted(ctx context.Context, id, vendorJobID string) error {
	const query = `UPDATE transactions
                   SET status=$1, vendor_job_id=$2, completed_at=NOW(), updated_at=NOW()
                   WHERE id=$3 AND status=$4`
	tag, err := r.storage.pool.Exec(ctx, query, model.TransactionStatusCompleted, vendorJobID, id, model.TransactionStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInvalidState
	}
	return nil
}

func (r *transactionRepository) MarkFailed(ctx context.Context, id, cause string) (*model.Transaction, error) {
	// The attempt counter only advances on a pending -> failed transition;
	// repeating MarkFailed on an already failed row is a no-op apart from
	// refreshing the recorded cause.
	const query = `UPDATE transactions
                   SET attempts = CASE WHEN status=$1 THEN attempts + 1 ELSE attempts END,
                       status=$2, last_error=$3, updated_at=NOW()
                   WHERE id=$4 AND status IN ($1, $2)
                   RETURNING attempts, created_at, updated_at, completed_at`
	tx := model.Transaction{ID: id, Status: model.TransactionStatusFailed, LastError: cause}
	err := r.storage.pool.QueryRow(ctx, query,
		model.TransactionStatusPending, model.TransactionStatusFailed, cause, id,
	).Scan(&tx.Attempts, &tx.CreatedAt, &tx.UpdatedAt, &tx.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrInvalidState
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) MarkRetrying(ctx context.Context, id string) error {
	const query = `UPDATE transactions SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, model.TransactionStatusPending, id, model.TransactionStatusFailed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInvalidState
	}
	return nil
}

func (r *transactionRepository) FailStale(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error) {
	const selectQuery = `SELECT id, attempts, created_at
                         FROM transactions
                         WHERE status=$1 AND updated_at < NOW() - $2::interval
                         ORDER BY updated_at
                         LIMIT $3
                         FOR UPDATE SKIP LOCKED`
	const failQuery = `UPDATE transactions
                       SET status=$1, attempts=attempts+1, last_error=$2, updated_at=NOW()
                       WHERE id=$3`

	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))

	var stale []model.Transaction
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, model.TransactionStatusPending, interval, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t model.Transaction
			if err := rows.Scan(&t.ID, &t.Attempts, &t.CreatedAt); err != nil {
				return err
			}
			t.Status = model.TransactionStatusFailed
			t.Attempts++
			t.LastError = staleCause
			stale = append(stale, t)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, t := range stale {
			if _, err := tx.Exec(ctx, failQuery, model.TransactionStatusFailed, staleCause, t.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stale, nil
}

const staleCause = "flow interrupted before a vendor outcome was recorded"

// --- CouponRepository implementation ---

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.MaxRedemptions,
		&c.TimesRedeemed, &c.CreatedAt, &c.ExpiresAt, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrCouponNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const query = `SELECT id, code, discount_percent, max_redemptions, times_redeemed, created_at, expires_at, is_active
                   FROM coupons WHERE code=$1 AND is_active`
	return scanCoupon(r.storage.pool.QueryRow(ctx, query, code))
}

func (r *couponRepository) Redeem(ctx context.Context, code, transactionID string) (*model.Coupon, error) {
	const lockQuery = `SELECT id, code, discount_percent, max_redemptions, times_redeemed, created_at, expires_at, is_active
                       FROM coupons WHERE code=$1 AND is_active FOR UPDATE`
	const consumeQuery = `UPDATE coupons SET times_redeemed = times_redeemed + 1 WHERE id=$1`
	const recordQuery = `INSERT INTO coupon_redemptions (coupon_id, transaction_id) VALUES ($1, $2)`

	var coupon *model.Coupon
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		c, err := scanCoupon(tx.QueryRow(ctx, lockQuery, code))
		if err != nil {
			return err
		}
		if c.Expired(time.Now()) {
			return domainErrors.ErrCouponExpired
		}
		if c.Exhausted() {
			return domainErrors.ErrCouponExhausted
		}
		if _, err := tx.Exec(ctx, consumeQuery, c.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, recordQuery, c.ID, transactionID); err != nil {
			return err
		}
		c.TimesRedeemed++
		coupon = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
