package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	StannpAPIURL      string
	StannpAPIKey      string
	StannpTestMode    bool
	PaymentAPIURL     string
	AddressCheckURL   string
	RefundIntakeURL   string
	SubmitTimeout     time.Duration
	MaxSubmitRetries  int
	PriceRegularCents int
	PriceXLCents      int
	ReconcileInterval time.Duration
	ReconcileBatch    int
	WorkerPoolSize    int
	StalePendingAge   time.Duration
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultStannpAPIURL      = "https://api-us1.stannp.com"
	defaultSubmitTimeout     = 60 * time.Second
	defaultMaxSubmitRetries  = 1
	defaultPriceRegularCents = 299
	defaultPriceXLCents      = 499
	defaultReconcileInterval = time.Minute
	defaultReconcileBatch    = 32
	defaultWorkerPoolSize    = 4
	defaultStalePendingAge   = 15 * time.Minute
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		StannpAPIURL:      getString(lookup, "STANNP_API_URL", defaultStannpAPIURL),
		StannpAPIKey:      getString(lookup, "STANNP_API_KEY", ""),
		StannpTestMode:    getBool(lookup, "STANNP_TEST_MODE", true),
		PaymentAPIURL:     getString(lookup, "PAYMENT_API_URL", ""),
		AddressCheckURL:   getString(lookup, "ADDRESS_CHECK_URL", ""),
		RefundIntakeURL:   getString(lookup, "REFUND_INTAKE_URL", ""),
		SubmitTimeout:     getDuration(lookup, "SUBMIT_TIMEOUT", defaultSubmitTimeout),
		MaxSubmitRetries:  getInt(lookup, "MAX_SUBMIT_RETRIES", defaultMaxSubmitRetries),
		PriceRegularCents: getInt(lookup, "PRICE_REGULAR_CENTS", defaultPriceRegularCents),
		PriceXLCents:      getInt(lookup, "PRICE_XL_CENTS", defaultPriceXLCents),
		ReconcileInterval: getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ReconcileBatch:    getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		StalePendingAge:   getDuration(lookup, "STALE_PENDING_AGE", defaultStalePendingAge),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("fulfillment", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		submitTimeoutStr   = cfg.SubmitTimeout.String()
		reconcileStr       = cfg.ReconcileInterval.String()
		staleAgeStr        = cfg.StalePendingAge.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StannpAPIURL, "stannp-url", cfg.StannpAPIURL, "Print vendor base URL")
	fs.StringVar(&cfg.StannpAPIKey, "stannp-key", cfg.StannpAPIKey, "Print vendor API key")
	fs.BoolVar(&cfg.StannpTestMode, "stannp-test", cfg.StannpTestMode, "Submit vendor jobs in test mode (not dispatched to print)")
	fs.StringVar(&cfg.PaymentAPIURL, "payment-url", cfg.PaymentAPIURL, "Payment provider base URL")
	fs.StringVar(&cfg.AddressCheckURL, "address-check-url", cfg.AddressCheckURL, "Address verification base URL")
	fs.StringVar(&cfg.RefundIntakeURL, "refund-url", cfg.RefundIntakeURL, "Refund intake endpoint")
	fs.IntVar(&cfg.MaxSubmitRetries, "max-retries", cfg.MaxSubmitRetries, "Vendor submissions retried per transaction before refund")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconciler workers")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum stale transactions per reconcile pass")
	fs.StringVar(&submitTimeoutStr, "submit-timeout", submitTimeoutStr, "Vendor submission timeout")
	fs.StringVar(&reconcileStr, "reconcile-interval", reconcileStr, "Interval between reconcile passes")
	fs.StringVar(&staleAgeStr, "stale-age", staleAgeStr, "Age after which a pending transaction is considered abandoned")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SubmitTimeout, err = time.ParseDuration(submitTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid submit timeout: %w", err)
	}

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.StalePendingAge, err = time.ParseDuration(staleAgeStr); err != nil {
		return nil, fmt.Errorf("invalid stale age: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if keyFile, ok := lookup("STANNP_API_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read stannp api key file: %w", err)
		}
		cfg.StannpAPIKey = string(content)
	}

	if cfg.MaxSubmitRetries < 0 {
		cfg.MaxSubmitRetries = defaultMaxSubmitRetries
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = defaultSubmitTimeout
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	// The reconciler must never fail a transaction a live flow could still
	// complete, so the stale age has to exceed the vendor timeout.
	if cfg.StalePendingAge <= cfg.SubmitTimeout {
		cfg.StalePendingAge = defaultStalePendingAge
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.PriceRegularCents <= 0 {
		cfg.PriceRegularCents = defaultPriceRegularCents
	}

	if cfg.PriceXLCents <= 0 {
		cfg.PriceXLCents = defaultPriceXLCents
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.StannpAPIKey == "" {
		return nil, fmt.Errorf("stannp API key must be provided")
	}

	if cfg.PaymentAPIURL == "" {
		return nil, fmt.Errorf("payment provider address must be provided")
	}

	if cfg.AddressCheckURL == "" {
		return nil, fmt.Errorf("address verification address must be provided")
	}

	if cfg.RefundIntakeURL == "" {
		return nil, fmt.Errorf("refund intake address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
