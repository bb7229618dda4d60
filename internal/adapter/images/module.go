package images

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module exposes the artwork fetcher to fx graph.
var Module = fx.Provide(func(logger *slog.Logger) Fetcher {
	return NewHTTPFetcher(logger)
})
