package refund

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/xlpostcards/fulfillment/internal/config"
)

// Module exposes the refund intake client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.RefundIntakeURL, p.Logger)
}
