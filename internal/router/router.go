package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"petkeep/internal/domain/pets"
	"petkeep/internal/domain/users"
	"petkeep/internal/middleware"
	"petkeep/internal/session"
)

type Options struct {
	Logger   *slog.Logger
	Sessions *session.Authority

	Users users.Repository
	Pets  pets.Repository

	// SecureCookies should be true behind TLS.
	SecureCookies bool
}

// New wires the HTTP surface. Middleware order matters: the session context
// must be resolved before the route gate runs, and the gate must run before
// any protected handler produces content.
func New(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	r.Use(middleware.Metrics())
	r.Use(middleware.SessionContext(opts.Sessions, opts.SecureCookies))
	r.Use(middleware.RouteGate())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	usersSvc := users.NewService(opts.Users)
	petsSvc := pets.NewService(opts.Pets)

	users.RegisterPublicRoutes(r, usersSvc, opts.Sessions, opts.SecureCookies)

	r.Route(session.ProtectedPrefix, func(pr chi.Router) {
		users.RegisterProtectedRoutes(pr, usersSvc)
		pets.RegisterRoutes(pr, petsSvc)
	})

	return r
}
