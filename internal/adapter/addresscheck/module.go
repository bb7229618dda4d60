package addresscheck

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/xlpostcards/fulfillment/internal/config"
)

// Module exposes the address verification client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.AddressCheckURL, p.Logger)
}
