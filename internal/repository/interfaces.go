package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
)

// StoreError marks a persistence or query failure. The wrapped driver
// error is logged internally and never leaked to external callers.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// EventRepository defines the interface for event storage operations.
// Events are append-only: there is no update or delete.
type EventRepository interface {
	// InsertEvent appends a single event and returns the persisted row,
	// including the store-assigned id and occurred_at timestamp. The
	// append is all-or-nothing and never retried here.
	InsertEvent(ctx context.Context, event *domain.Event) (*domain.Event, error)

	// ListEventsBetween returns raw event rows for the kind whose
	// occurred_at falls in [from, to). No ordering is guaranteed.
	ListEventsBetween(ctx context.Context, kind domain.EntityKind, from, to time.Time) ([]domain.Event, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
