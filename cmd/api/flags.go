package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "listen-addr",
		Value:   ":8080",
		Usage:   "address to listen on",
		EnvVars: []string{"LISTEN_ADDR"},
	},
	&cli.StringFlag{
		Name:    "port",
		Usage:   "port to listen on, overrides the port of listen-addr",
		EnvVars: []string{"PORT"},
	},
	&cli.StringSliceFlag{
		Name:    "cors-origin",
		Usage:   "allowed CORS origin, may be repeated",
		EnvVars: []string{"CORS_ALLOWED_ORIGINS"},
	},
	&cli.StringFlag{
		Name:     "secret-key",
		Usage:    "HMAC key the login service signs session tokens with",
		EnvVars:  []string{"SECRET_KEY"},
		Required: true,
	},
	&cli.StringFlag{
		Name:    "session-cookie",
		Value:   "access_token",
		Usage:   "name of the session cookie",
		EnvVars: []string{"SESSION_COOKIE"},
	},
	&cli.StringFlag{
		Name:    "login-path",
		Value:   "/auth",
		Usage:   "where unauthenticated requests are redirected",
		EnvVars: []string{"LOGIN_PATH"},
	},
	&cli.BoolFlag{
		Name:    "owner-scoped-edits",
		Value:   false,
		Usage:   "restrict edit and complete to the todo's owner",
		EnvVars: []string{"TODO_OWNER_SCOPED_EDITS"},
	},
	&cli.BoolFlag{
		Name:  "in-memory",
		Value: false,
		Usage: "keep todos in process memory instead of Postgres (development only)",
	},
	&cli.StringFlag{
		Name:    "db-host",
		Value:   "localhost",
		EnvVars: []string{"BLUEPRINT_DB_HOST"},
	},
	&cli.StringFlag{
		Name:    "db-port",
		Value:   "5432",
		EnvVars: []string{"BLUEPRINT_DB_PORT"},
	},
	&cli.StringFlag{
		Name:    "db-username",
		EnvVars: []string{"BLUEPRINT_DB_USERNAME"},
	},
	&cli.StringFlag{
		Name:    "db-password",
		EnvVars: []string{"BLUEPRINT_DB_PASSWORD"},
	},
	&cli.StringFlag{
		Name:    "db-database",
		EnvVars: []string{"BLUEPRINT_DB_DATABASE"},
	},
	&cli.StringFlag{
		Name:    "db-schema",
		EnvVars: []string{"BLUEPRINT_DB_SCHEMA"},
	},
	&cli.StringFlag{
		Name:    "db-log-level",
		Value:   "warn",
		Usage:   "SQL log level: silent, error, warn or info",
		EnvVars: []string{"DB_LOG_LEVEL"},
	},
	&cli.BoolFlag{
		Name:    "log-json",
		Value:   false,
		Usage:   "log in JSON format",
		EnvVars: []string{"LOG_JSON"},
	},
	&cli.BoolFlag{
		Name:    "log-debug",
		Value:   false,
		Usage:   "log debug messages",
		EnvVars: []string{"LOG_DEBUG"},
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: "todo-app",
		Usage: "add 'service' tag to logs",
	},
}

func setupLogger(cCtx *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if cCtx.Bool("log-debug") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cCtx.Bool("log-json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	if service := cCtx.String("log-service"); service != "" {
		logger = logger.With("service", service)
	}
	if cCtx.Bool("log-uid") {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}
