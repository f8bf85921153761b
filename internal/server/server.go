package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(Register),
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	http     *http.Server
	listener net.Listener
	log      *zap.SugaredLogger
}

// NewRouter builds the gin engine with the middleware stack and every route.
func NewRouter(cfg *config.Config, log *zap.SugaredLogger, deps api.Deps) *gin.Engine {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
		middleware.CORS(),
	)
	api.RegisterRoutes(router, deps)
	return router
}

// New creates a new server instance
func New(cfg *config.Config, log *zap.SugaredLogger, deps api.Deps) *Server {
	router := NewRouter(cfg, log, deps)
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the bound address once the server has started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.listener = ln
	s.log.Infow("http server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorw("http server stopped", "error", err)
		}
	}()
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping http server")
	return s.http.Shutdown(ctx)
}

// Register ties the server to the application lifecycle.
func Register(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}
