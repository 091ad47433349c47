package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Tomlord1122/todo-app/internal/auth"
	"github.com/Tomlord1122/todo-app/internal/database"
	"github.com/Tomlord1122/todo-app/internal/repository"
	"github.com/Tomlord1122/todo-app/internal/server"
	"github.com/Tomlord1122/todo-app/internal/service"
	"github.com/Tomlord1122/todo-app/internal/view"

	_ "github.com/joho/godotenv/autoload"
)

// gracefulShutdown waits for ctx, which is cancelled by an OS signal or by
// run when the listener fails, then drains the server and closes the pool.
func gracefulShutdown(ctx context.Context, stop context.CancelFunc, apiServer *http.Server, dbService database.Service, logger *slog.Logger, done chan bool) {
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
	}

	if dbService != nil {
		if err := dbService.Close(); err != nil {
			logger.Error("Error closing database connection pool", "err", err)
		} else {
			logger.Info("Database connection pool closed")
		}
	}

	logger.Info("Server exiting")
	done <- true
}

func run(cCtx *cli.Context) error {
	logger := setupLogger(cCtx)

	var (
		dbService  database.Service
		transactor repository.Transactor
	)
	if cCtx.Bool("in-memory") {
		logger.Warn("Using in-memory store, todos are lost on exit")
		transactor = repository.NewMemoryStore()
	} else {
		var err error
		dbService, err = database.New(database.Config{
			Host:     cCtx.String("db-host"),
			Port:     cCtx.String("db-port"),
			Username: cCtx.String("db-username"),
			Password: cCtx.String("db-password"),
			Database: cCtx.String("db-database"),
			Schema:   cCtx.String("db-schema"),
			LogLevel: cCtx.String("db-log-level"),
		}, logger)
		if err != nil {
			logger.Error("Failed to connect to database", "err", err)
			return err
		}
		transactor = repository.NewGormTransactor(dbService.GetDB())
	}

	authenticator, err := auth.NewAuthenticator(auth.Config{
		SecretKey:  []byte(cCtx.String("secret-key")),
		CookieName: cCtx.String("session-cookie"),
		LoginPath:  cCtx.String("login-path"),
	}, logger)
	if err != nil {
		return err
	}

	views, err := view.New()
	if err != nil {
		logger.Error("Failed to load templates", "err", err)
		return err
	}

	todoService := service.NewTodoService(transactor, service.Options{
		OwnerScopedEdits: cCtx.Bool("owner-scoped-edits"),
	}, logger)

	listenAddr := cCtx.String("listen-addr")
	if port := cCtx.String("port"); port != "" {
		host, _, err := net.SplitHostPort(listenAddr)
		if err != nil {
			host = ""
		}
		listenAddr = net.JoinHostPort(host, port)
	}

	apiServer := server.NewServer(server.Config{
		ListenAddr:     listenAddr,
		AllowedOrigins: cCtx.StringSlice("cors-origin"),
	}, todoService, dbService, authenticator, views, logger)

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan bool, 1)
	go gracefulShutdown(ctx, stop, apiServer, dbService, logger, done)

	logger.Info("Starting server", "listenAddress", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server failed", "err", err)
		stop()
		<-done
		return err
	}

	<-done
	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	app := &cli.App{
		Name:   "todo-app",
		Usage:  "Serve the todo list web application",
		Flags:  flags,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
