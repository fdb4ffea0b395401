package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
	"github.com/Artotz/lead-middleware-sub001/internal/repository"
)

// Repository implements EventRepository for PostgreSQL
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// eventTable maps an entity kind to its append-only event table.
func eventTable(kind domain.EntityKind) string {
	if kind == domain.EntityKindLead {
		return "lead_events"
	}
	return "ticket_events"
}

// InitSchema creates the append-only event tables. There are no UPDATE
// or DELETE paths against these tables anywhere in the codebase.
func (r *Repository) InitSchema(ctx context.Context) error {
	for _, table := range []string{"lead_events", "ticket_events"} {
		query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		entity_id TEXT NOT NULL,
		actor_user_id TEXT NOT NULL,
		actor_email TEXT NOT NULL,
		actor_name TEXT NOT NULL,
		action TEXT NOT NULL,
		source TEXT NOT NULL,
		payload JSONB,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table)

		if _, err := r.client.DB().ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table, err)
		}

		index := fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_occurred_at ON %s (occurred_at)",
			table, table)
		if _, err := r.client.DB().ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create %s index: %w", table, err)
		}
	}

	r.log.Info("PostgreSQL schema initialized successfully")
	return nil
}

// InsertEvent appends one event row and returns the persisted row with
// the store-assigned id and timestamp. Single statement, so the append
// is all-or-nothing; failures surface as StoreError and are not retried.
func (r *Repository) InsertEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, &repository.StoreError{Op: "insert", Err: fmt.Errorf("failed to encode payload: %w", err)}
	}
	if event.Payload == nil {
		payload = nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (entity_id, actor_user_id, actor_email, actor_name, action, source, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, occurred_at
	`, eventTable(event.EntityKind))

	persisted := *event
	row := r.client.DB().QueryRowContext(ctx, query,
		event.EntityID,
		event.ActorUserID,
		event.ActorEmail,
		event.ActorName,
		string(event.Action),
		event.Source,
		payload,
	)

	if err := row.Scan(&persisted.ID, &persisted.OccurredAt); err != nil {
		return nil, &repository.StoreError{Op: "insert", Err: err}
	}

	return &persisted, nil
}

// ListEventsBetween returns raw event rows for the kind with occurred_at
// in [from, to). Rows come back in whatever order the store yields them;
// consumers must not assume ordering.
func (r *Repository) ListEventsBetween(ctx context.Context, kind domain.EntityKind, from, to time.Time) ([]domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT id, entity_id, actor_user_id, actor_email, actor_name, action, source, payload, occurred_at
		FROM %s
		WHERE occurred_at >= $1 AND occurred_at < $2
	`, eventTable(kind))

	rows, err := r.client.DB().QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, &repository.StoreError{Op: "list", Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close event rows", zap.Error(err))
		}
	}()

	var events []domain.Event
	for rows.Next() {
		var (
			event   domain.Event
			payload []byte
		)
		if err := rows.Scan(
			&event.ID,
			&event.EntityID,
			&event.ActorUserID,
			&event.ActorEmail,
			&event.ActorName,
			&event.Action,
			&event.Source,
			&payload,
			&event.OccurredAt,
		); err != nil {
			return nil, &repository.StoreError{Op: "list", Err: err}
		}

		event.EntityKind = kind
		if len(payload) > 0 {
			var decoded map[string]any
			if err := json.Unmarshal(payload, &decoded); err != nil {
				return nil, &repository.StoreError{Op: "list", Err: fmt.Errorf("failed to decode payload: %w", err)}
			}
			event.Payload = decoded
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, &repository.StoreError{Op: "list", Err: err}
	}

	return events, nil
}

// Ping checks if the PostgreSQL connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.DB().PingContext(ctx)
}

// Close closes the PostgreSQL connection
func (r *Repository) Close() error {
	return r.client.Close()
}
