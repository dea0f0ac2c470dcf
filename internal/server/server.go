package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/internal/calculation"
	"github.com/LuizHUlmi/profiles-sub000/internal/compare"
	"github.com/LuizHUlmi/profiles-sub000/internal/config"
	"github.com/LuizHUlmi/profiles-sub000/internal/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds projection request bodies
const maxBodyBytes = 1 << 20

// Server exposes the projection engine over HTTP
type Server struct {
	source  store.Source
	engine  *calculation.CalculationEngine
	compare *compare.CompareEngine
	parser  *config.InputParser
	logger  *logrus.Logger
	router  *mux.Router
}

// New wires the routes for src and engine
func New(src store.Source, engine *calculation.CalculationEngine, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		source:  src,
		engine:  engine,
		compare: compare.NewCompareEngine(engine),
		parser:  config.NewInputParser(),
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestLogger(s.logger), s.recoverer)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/projections/cashflow", s.calculation(s.cashFlow)).Methods(http.MethodPost)
	api.HandleFunc("/projections/networth", s.calculation(s.netWorth)).Methods(http.MethodPost)
	api.HandleFunc("/plans", s.handleListPlans).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}/projection", s.calculation(s.planProjection)).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}/compare", s.calculation(s.planCompare)).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}/chart.svg", s.handleChart).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}/report", s.handleReport).Methods(http.MethodGet)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	// subrouters do not inherit these from the root
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = notFound
		router.MethodNotAllowedHandler = notAllowed
	}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting server on %s (source %s)", addr, s.source.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
