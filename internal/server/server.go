package server

import (
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/atomic"

	"github.com/Tomlord1122/todo-app/internal/auth"
	"github.com/Tomlord1122/todo-app/internal/database"
	"github.com/Tomlord1122/todo-app/internal/service"
	"github.com/Tomlord1122/todo-app/internal/view"
)

type Config struct {
	ListenAddr     string
	AllowedOrigins []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type Server struct {
	cfg         Config
	todoService service.TodoService
	db          database.Service
	auth        *auth.Authenticator
	views       *view.Renderer
	log         *slog.Logger
	isReady     atomic.Bool
}

// NewServer wires the router into an http.Server. dbService may be nil when
// running on the in-memory store.
func NewServer(cfg Config, todoService service.TodoService, dbService database.Service, authenticator *auth.Authenticator, views *view.Renderer, log *slog.Logger) *http.Server {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = time.Minute
	}

	appServer := &Server{
		cfg:         cfg,
		todoService: todoService,
		db:          dbService,
		auth:        authenticator,
		views:       views,
		log:         log,
	}
	appServer.isReady.Store(true)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	server.RegisterOnShutdown(func() {
		appServer.isReady.Store(false)
		log.Info("Server marked as not ready")
	})

	return server
}
