// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/resources"
)

// Startup runs one-time application initialization after backend clients
// are built but before the HTTP handler is assembled.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	return nil
}
