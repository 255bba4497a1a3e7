package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rentfleet/apiserver/config"
	"github.com/rentfleet/apiserver/internal/db"
	"github.com/rentfleet/apiserver/internal/handlers"
	"github.com/rentfleet/apiserver/internal/logger"
	"github.com/rentfleet/apiserver/internal/mq"
	"github.com/rentfleet/apiserver/internal/services"
	"github.com/rentfleet/apiserver/internal/store"
	"github.com/rs/zerolog"
)

const defaultPort = 3000

// requestTimeout bounds each request's context. writeTimeout stays above it so
// the timeout response can still be written.
const (
	requestTimeout = 15 * time.Second
	writeTimeout   = requestTimeout + 5*time.Second
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	mq         *mq.MQ
	events     *services.Events
	log        zerolog.Logger
}

// New opens the process-wide resources and constructs a Server around them.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	events, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open mq: %w", err)
	}

	return newServer(cfg, log, dbConn, events), nil
}

func newServer(cfg config.Config, log zerolog.Logger, dbConn *sql.DB, events *mq.MQ) *Server {
	gateway := db.NewGateway(dbConn)

	userRepo := store.NewUserRepository(gateway)
	vehicleRepo := store.NewVehicleRepository(gateway)

	dispatcher := services.NewEvents(events)
	userService := services.NewUserService(userRepo, dispatcher)
	vehicleService := services.NewVehicleService(vehicleRepo, dispatcher)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logger.Middleware(log),
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		}),
	)
	router.Get("/healthz", handlers.Healthz(gateway))
	handlers.AuthRouter(router, userService)
	handlers.VehicleRouter(router, vehicleService)

	port := cfg.ServerPort
	if port == 0 {
		port = defaultPort
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mq:         events,
		events:     dispatcher,
		log:        log,
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("server started")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and pending events, then releases the
// broker and the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.events.Wait()
	if s.mq != nil {
		if mqErr := s.mq.Close(); mqErr != nil {
			s.log.Warn().Err(mqErr).Msg("closing mq")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
