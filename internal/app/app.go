package app

import (
	"net/http"
	"net/url"
	"time"

	"github.com/finvoice/finvoice/internal/config"
	"github.com/finvoice/finvoice/internal/localdb"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, the local cache, router, and server
// lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	// Local cache + migrations
	db, err := localdb.Open(cfg.LocalCache)
	if err != nil {
		return nil, err
	}
	// db will be closed when server shuts down; defer not possible here, leave to process exit.
	if err := localdb.Migrate(db); err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		return nil, err
	}

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         listenAddr(cfg.Host),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks. Cached remote profile attributes
// are refreshed first when the cold-start window has elapsed.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

// listenAddr extracts the port from the configured host URL; the default
// keeps the upstream port 5000.
func listenAddr(host string) string {
	if u, err := url.Parse(host); err == nil && u.Port() != "" {
		return ":" + u.Port()
	}
	return ":5000"
}
