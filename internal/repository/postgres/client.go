package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Artotz/lead-middleware-sub001/internal/config"
)

// Client wraps the PostgreSQL connection pool. It is constructed once by
// the composition root and injected everywhere a store handle is needed;
// nothing reaches it through a global.
type Client struct {
	db  *sql.DB
	log *zap.Logger
}

// NewClient creates a new PostgreSQL client with the given configuration
func NewClient(ctx context.Context, cfg *config.Postgres, log *zap.Logger) (*Client, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode)

	log.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Database))

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Error("Failed to open PostgreSQL connection", zap.Error(err))
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Error("Failed to ping PostgreSQL", zap.Error(err))
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Info("PostgreSQL connection established successfully")

	return &Client{db: db, log: log}, nil
}

// NewClientFromDB wraps an existing database handle. Used by tests to
// inject a sqlmock-backed connection.
func NewClientFromDB(db *sql.DB, log *zap.Logger) *Client {
	return &Client{db: db, log: log}
}

// DB returns the underlying connection pool
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the PostgreSQL connection pool
func (c *Client) Close() error {
	c.log.Info("Closing PostgreSQL connection")
	if err := c.db.Close(); err != nil {
		c.log.Error("Error closing PostgreSQL connection", zap.Error(err))
		return err
	}
	return nil
}
