package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/config"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/metrics"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/logging"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	cfg     config.Config
	r       *gin.Engine
	gate    *usecase.AuthorizationGate
	catalog *usecase.CatalogService
	metrics *metrics.Metrics
	storage Pinger

	rateLimiter       domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
}

type ServerDeps struct {
	Gate        *usecase.AuthorizationGate
	Catalog     *usecase.CatalogService
	Metrics     *metrics.Metrics
	Storage     Pinger
	RateLimiter domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	s := &Server{
		cfg:               cfg,
		r:                 r,
		gate:              deps.Gate,
		catalog:           deps.Catalog,
		metrics:           deps.Metrics,
		storage:           deps.Storage,
		rateLimiter:       deps.RateLimiter,
		rateLimitRequests: cfg.RateLimitRequests,
		rateLimitWindow:   cfg.RateLimitWindow(),
	}
	r.Use(gin.CustomRecovery(recoverPanic), s.requestContext(), s.accessLog())
	if mw := corsMiddleware(cfg.AllowedOrigins()); mw != nil {
		r.Use(mw)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.r
}

// Run serves until ctx is cancelled and then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("casting api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logging.Info().Msg("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() {
	s.r.NoRoute(func(c *gin.Context) {
		writeStatus(c, http.StatusNotFound, msgNotFound)
	})
	s.r.NoMethod(func(c *gin.Context) {
		writeStatus(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	s.r.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.r.Group("/", s.rateLimit())
	{
		api.GET("/headers", s.requirePermission(), s.handleHeaders)

		api.GET("/movies", s.requirePermission(domain.PermGetMovies), s.handleListMovies)
		api.GET("/movies/:id", s.requirePermission(domain.PermGetMovies), s.handleGetMovie)
		api.POST("/movies", s.requirePermission(domain.PermPostMovies), s.handleCreateMovie)
		api.PATCH("/movies/:id", s.requirePermission(domain.PermPatchMovies), s.handleUpdateMovie)
		api.DELETE("/movies/:id", s.requirePermission(domain.PermDeleteMovies), s.handleDeleteMovie)

		api.GET("/actors", s.requirePermission(domain.PermGetActors), s.handleListActors)
		api.GET("/actors/:id", s.requirePermission(domain.PermGetActors), s.handleGetActor)
		api.POST("/actors", s.requirePermission(domain.PermPostActors), s.handleCreateActor)
		api.PATCH("/actors/:id", s.requirePermission(domain.PermPatchActors), s.handleUpdateActor)
		api.DELETE("/actors/:id", s.requirePermission(domain.PermDeleteActors), s.handleDeleteActor)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.storage == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": "memory"})
		return
	}
	if err := s.storage.Ping(c.Request.Context()); err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("storage ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mode": "db"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": "db"})
}

func recoverPanic(c *gin.Context, recovered any) {
	logging.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Msg("handler panic")
	writeStatus(c, http.StatusInternalServerError, msgInternal)
}
