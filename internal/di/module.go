package di

import (
	"go.uber.org/fx"

	"github.com/xlpostcards/fulfillment/internal/adapter/addresscheck"
	"github.com/xlpostcards/fulfillment/internal/adapter/images"
	"github.com/xlpostcards/fulfillment/internal/adapter/payment"
	"github.com/xlpostcards/fulfillment/internal/adapter/refund"
	"github.com/xlpostcards/fulfillment/internal/adapter/stannp"
	"github.com/xlpostcards/fulfillment/internal/app"
	"github.com/xlpostcards/fulfillment/internal/config"
	"github.com/xlpostcards/fulfillment/internal/logger"
	"github.com/xlpostcards/fulfillment/internal/server/http/handlers"
	"github.com/xlpostcards/fulfillment/internal/server/http/router"
	"github.com/xlpostcards/fulfillment/internal/storage/postgres"
	"github.com/xlpostcards/fulfillment/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		stannp.Module,
		addresscheck.Module,
		payment.Module,
		refund.Module,
		images.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.FulfillmentFacade) handlers.FulfillmentFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
