package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kandttextiles/ktportal/internal/core"
	"github.com/kandttextiles/ktportal/internal/server/endpoints"
	eptracking "github.com/kandttextiles/ktportal/internal/server/endpoints/tracking"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// shutdownTimeout bounds the graceful shutdown
const shutdownTimeout = 10 * time.Second

// Router returns the portal http routes
func Router(c *core.Core) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(MiddlewareLogger(c.Logger().Named("[server]")))
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/healthz", endpoints.NewEndpoint(c, endpoints.Health, "health"))

	//---------------------------------------------------------------------------
	// API ROUTING
	//---------------------------------------------------------------------------
	r.Route("/api", func(r chi.Router) {
		r.Route("/tracking", func(r chi.Router) {
			r.Method(http.MethodPost, "/data", endpoints.NewEndpoint(c, eptracking.PostData, "post_tracking_data"))
		})
	})

	return r
}

// Run serves the portal until the context is cancelled
func Run(ctx context.Context, c *core.Core, addr string) (err error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errch := make(chan error, 1)

	go func() {
		c.Logger().Info("listening", zap.String("addr", addr))
		errch <- srv.ListenAndServe()
	}()

	select {
	case err = <-errch:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	c.Logger().Info("shutting down the server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(sctx)
}
