// internal/app/features/proxy/handler.go

// Package proxy forwards /api/proxy/* to the backend origin so any
// browser-side fetches stay same-origin. The session's bearer token is
// attached server-side; the token itself never reaches the browser.
package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/auth"
)

const prefix = "/api/proxy"

// Handler reverse-proxies to the backend origin.
type Handler struct {
	proxy *httputil.ReverseProxy
	log   *zap.Logger
}

// NewHandler builds the proxy for the given backend base URL.
func NewHandler(backendURL string, logger *zap.Logger) (*Handler, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, err
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, prefix)
			if pr.Out.URL.Path == "" {
				pr.Out.URL.Path = "/"
			}
			pr.Out.Header.Del("Cookie")
			if u, ok := auth.CurrentUser(pr.In); ok {
				pr.Out.Header.Set("Authorization", "Bearer "+u.Token)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("proxy request failed", zap.String("path", r.URL.Path), zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success":false,"message":"backend unreachable"}`))
		},
	}

	return &Handler{proxy: rp, log: logger}, nil
}

// ServeHTTP forwards the request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}
