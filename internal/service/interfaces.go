package service

import (
	"context"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
	"github.com/Artotz/lead-middleware-sub001/internal/dto"
	"github.com/Artotz/lead-middleware-sub001/internal/identity"
	"github.com/Artotz/lead-middleware-sub001/internal/metrics"
)

// ActivityServicer defines the interface for activity log operations
type ActivityServicer interface {
	RecordAction(ctx context.Context, actor *identity.Identity, kind domain.EntityKind, req *dto.RecordActionRequest) (*domain.Event, error)
	GetUserActionMetrics(ctx context.Context, kind domain.EntityKind, rng metrics.Range) (*dto.GetUserMetricsResponse, error)
	GetDailyMetrics(ctx context.Context, kind domain.EntityKind, rng metrics.Range) (*dto.GetDailyMetricsResponse, error)
}
