// Package gateway fronts the API: /api/* is forwarded upstream with the /api prefix removed,
// everything else is a 404.
package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/geocoder89/salescrm/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const prefix = "/api"

// StripPrefix maps /api -> / and /api/x -> /x. ok is false for paths outside /api.
func StripPrefix(path string) (stripped string, ok bool) {
	if path == prefix {
		return "/", true
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix):], true
	}
	return "", false
}

func NewProxy(upstream *url.URL, log *slog.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			// only the peer address is known to be true; a client supplied chain is dropped
			pr.Out.Header.Del("X-Forwarded-For")
			pr.SetXForwarded()
			// continue the caller's trace upstream; a no-op until a tracer provider is installed
			otel.GetTextMapPropagator().Inject(pr.In.Context(), propagation.HeaderCarrier(pr.Out.Header))
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.ErrorContext(r.Context(), "upstream request failed", "path", r.URL.Path, "err", err)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"code":"bad_gateway","message":"Upstream unavailable"}}`))
		},
	}
}

// NewRouter builds the gateway engine. extra runs after request id assignment, e.g. otelgin.
func NewRouter(upstream *url.URL, env string, log *slog.Logger, extra ...gin.HandlerFunc) *gin.Engine {
	if env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = slog.Default()
	}

	proxy := NewProxy(upstream, log)

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(extra...)
	r.Use(middlewares.RequestLogger(log))

	// no routes of its own: everything goes through NoRoute
	r.NoRoute(func(ctx *gin.Context) {
		path, ok := StripPrefix(ctx.Request.URL.Path)
		if !ok {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"code": "not_found", "message": "Unknown route"},
			})
			return
		}

		req := ctx.Request.Clone(ctx.Request.Context())
		req.URL.Path = path
		if raw := ctx.Request.URL.RawPath; raw != "" {
			if rawPath, ok := StripPrefix(raw); ok {
				req.URL.RawPath = rawPath
			} else {
				req.URL.RawPath = ""
			}
		}

		proxy.ServeHTTP(ctx.Writer, req)
	})

	return r
}
