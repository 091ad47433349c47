package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Service exposes the shared connection pool. Request-scoped work goes
// through repository.Transactor, never through the pool directly.
type Service interface {
	Health() map[string]string
	Close() error
	GetDB() *gorm.DB
}

// Config holds connection settings. Zero pool values fall back to defaults.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Schema   string
	SSLMode  string

	// DSN, when set, takes precedence over the individual fields.
	DSN string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	// LogLevel is one of silent, error, warn, info.
	LogLevel string
}

func (c Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.Username, c.Password, c.Database, c.Port, sslMode)
	if c.Schema != "" {
		dsn += " search_path=" + c.Schema
	}
	return dsn
}

type service struct {
	db   *gorm.DB
	name string
	log  *slog.Logger
}

// New opens the pool through the pgx stdlib driver and hands it to gorm.
func New(cfg Config, log *slog.Logger) (Service, error) {
	sqlDB, err := sql.Open("pgx", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 10
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 100
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(lifetime)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: newGormLogger(cfg.LogLevel),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Connected to database", "host", cfg.Host, "database", cfg.Database)
	return &service{db: db, name: cfg.Database, log: log}, nil
}

func newGormLogger(level string) logger.Interface {
	var lvl logger.LogLevel
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	default:
		lvl = logger.Warn
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health pings the database and, when it answers, reports the pool counters.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.log.Warn("Database health check failed", "err", err)
		return map[string]string{"status": "down", "error": fmt.Sprintf("db down: %v", err)}
	}

	pool := sqlDB.Stats()
	return map[string]string{
		"status":           "up",
		"message":          "It's healthy",
		"max_open":         strconv.Itoa(pool.MaxOpenConnections),
		"open_connections": strconv.Itoa(pool.OpenConnections),
		"in_use":           strconv.Itoa(pool.InUse),
		"idle":             strconv.Itoa(pool.Idle),
		"wait_count":       strconv.FormatInt(pool.WaitCount, 10),
	}
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.log.Info("Closing connection pool", "database", s.name)
	return sqlDB.Close()
}
