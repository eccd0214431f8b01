// internal/app/bootstrap/deps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

// Deps holds backend dependencies for the app. BookCrew owns no database;
// its one backend is the external REST API.
type Deps struct {
	API *bookcrew.Client
}

// ConnectDB fills WAFFLE's backend-connection slot. Building the API client
// involves no handshake, so this cannot fail on an unreachable backend; the
// first real call surfaces that per request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	client := bookcrew.New(appCfg.APIBaseURL, logger)
	logger.Info("bookcrew API client configured", zap.String("base_url", appCfg.APIBaseURL))
	return Deps{API: client}, nil
}

// EnsureSchema is a no-op: all data lives behind the backend API.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	return nil
}
