// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	dashboardfeature "github.com/bookcrew/bookcrew/internal/app/features/dashboard"
	errorsfeature "github.com/bookcrew/bookcrew/internal/app/features/errors"
	healthfeature "github.com/bookcrew/bookcrew/internal/app/features/health"
	loginfeature "github.com/bookcrew/bookcrew/internal/app/features/login"
	logoutfeature "github.com/bookcrew/bookcrew/internal/app/features/logout"
	meetingsfeature "github.com/bookcrew/bookcrew/internal/app/features/meetings"
	membersfeature "github.com/bookcrew/bookcrew/internal/app/features/members"
	proxyfeature "github.com/bookcrew/bookcrew/internal/app/features/proxy"
	settingsfeature "github.com/bookcrew/bookcrew/internal/app/features/settings"
	signupfeature "github.com/bookcrew/bookcrew/internal/app/features/signup"
	workspacesfeature "github.com/bookcrew/bookcrew/internal/app/features/workspaces"
	"github.com/bookcrew/bookcrew/internal/app/system/auth"
	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/app/system/membership"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, the API client, and Startup have
// completed. It boots the template engine, builds the session/flash layer,
// and mounts the feature routers: auth pages outside the signed-in guard,
// the workspace list behind it, and the workspace-scoped subtree behind
// the membership gate as well.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionKey := appCfg.SessionKey
	if sessionKey == "" && !secure {
		// Dev convenience only; ValidateConfig default covers normal runs.
		sessionKey = string(securecookie.GenerateRandomKey(32))
		logger.Warn("session_key empty, generated a volatile dev key")
	}

	store, err := auth.NewCookieStore(sessionKey, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("cookie store init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr := auth.NewSessionManager(store, appCfg.SessionName, appCfg.AutoLoginDays, deps.API, logger)
	toasts := flash.New(store, appCfg.SessionName, logger)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()

	// Global auth middleware: verifies the session token against the
	// backend and loads the user into context.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.API, logger)))

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Reverse proxy for browser-side calls to the backend.
	proxyHandler, err := proxyfeature.NewHandler(appCfg.APIBaseURL, logger)
	if err != nil {
		logger.Error("proxy init failed", zap.Error(err))
		return nil, err
	}
	r.Handle("/api/proxy/*", proxyHandler)

	// Authentication pages live outside the guard.
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(deps.API, sessionMgr, toasts, logger)))
	r.Mount("/signup", signupfeature.Routes(signupfeature.NewHandler(deps.API, toasts, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(deps.API, sessionMgr, logger)))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Everything below requires a signed-in user.
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/workspaces", http.StatusSeeOther)
		})

		r.Mount("/workspaces", workspacesfeature.Routes(workspacesfeature.NewHandler(deps.API, toasts, logger)))

		// Workspace-scoped pages sit behind the membership gate.
		r.Route("/workspace/{workspaceID}", func(r chi.Router) {
			r.Use(membership.Middleware(deps.API, logger))
			r.Use(membership.Require(toasts))

			r.Mount("/", dashboardfeature.Routes(dashboardfeature.NewHandler(deps.API, toasts, logger)))
			r.Mount("/meetings", meetingsfeature.Routes(meetingsfeature.NewHandler(deps.API, toasts, logger)))
			r.Mount("/members", membersfeature.Routes(membersfeature.NewHandler(deps.API, toasts, logger)))
			r.Mount("/settings", settingsfeature.Routes(settingsfeature.NewHandler(deps.API, toasts, logger)))
		})
	})

	return r, nil
}
