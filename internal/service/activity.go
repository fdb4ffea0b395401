package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
	"github.com/Artotz/lead-middleware-sub001/internal/dto"
	"github.com/Artotz/lead-middleware-sub001/internal/identity"
	"github.com/Artotz/lead-middleware-sub001/internal/metrics"
	"github.com/Artotz/lead-middleware-sub001/internal/repository"
	"github.com/Artotz/lead-middleware-sub001/internal/validator"
)

// ActivityService records user actions as immutable events and computes
// windowed activity metrics from the event log.
type ActivityService struct {
	repository repository.EventRepository
	log        *zap.Logger
	now        func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(repo repository.EventRepository, log *zap.Logger) *ActivityService {
	return &ActivityService{
		repository: repo,
		log:        log,
		now:        time.Now,
	}
}

// RecordAction validates the request and appends it as an event stamped
// with the resolved actor identity. Validation runs before any store
// call, so a rejected request never produces a partial write. The actor
// snapshot comes exclusively from the resolver output; client-supplied
// actor fields do not exist in the request shape.
func (s *ActivityService) RecordAction(ctx context.Context, actor *identity.Identity, kind domain.EntityKind, req *dto.RecordActionRequest) (*domain.Event, error) {
	if actor == nil {
		return nil, identity.ErrUnauthenticated
	}

	validated, err := validator.Validate(kind, req)
	if err != nil {
		s.log.Warn("Action validation failed",
			zap.String("entity_kind", string(kind)),
			zap.String("actor_user_id", actor.ID),
			zap.Error(err))
		return nil, err
	}

	event := &domain.Event{
		EntityKind:  kind,
		EntityID:    validated.Entity.Key(),
		ActorUserID: actor.ID,
		ActorEmail:  actor.Email,
		ActorName:   actor.Name,
		Action:      validated.Action,
		Source:      domain.SourceMiddleware,
		Payload:     validated.Payload,
	}

	persisted, err := s.repository.InsertEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	s.log.Info("Action recorded",
		zap.String("event_id", persisted.ID),
		zap.String("entity_kind", string(kind)),
		zap.String("entity_id", persisted.EntityID),
		zap.String("action", string(persisted.Action)),
		zap.String("actor_user_id", persisted.ActorUserID))

	return persisted, nil
}

// GetUserActionMetrics computes per-actor aggregates over the named range.
// Recomputed in full on every call; there is no caching layer.
func (s *ActivityService) GetUserActionMetrics(ctx context.Context, kind domain.EntityKind, rng metrics.Range) (*dto.GetUserMetricsResponse, error) {
	now := s.now().UTC()

	events, err := s.fetchWindow(ctx, kind, rng, now)
	if err != nil {
		return nil, err
	}

	aggregates := metrics.ComputeUserActionMetrics(rng, now, events)

	start, end := metrics.RangeWindow(rng, now)
	response := &dto.GetUserMetricsResponse{
		Range: string(rng),
		From:  start.Format(metrics.DayFormat),
		To:    end.Format(metrics.DayFormat),
		Users: make([]dto.UserActionMetricsData, 0, len(aggregates)),
	}

	for _, agg := range aggregates {
		response.Users = append(response.Users, dto.UserActionMetricsData{
			ActorUserID:      agg.ActorUserID,
			TotalActions:     agg.TotalActions,
			UniqueItems:      agg.UniqueItems,
			ActionsBreakdown: agg.ActionsBreakdown,
		})
	}

	s.log.Info("User metrics computed",
		zap.String("entity_kind", string(kind)),
		zap.String("range", string(rng)),
		zap.Int("event_count", len(events)),
		zap.Int("actor_count", len(aggregates)))

	return response, nil
}

// GetDailyMetrics computes the per-actor daily series over the named range.
func (s *ActivityService) GetDailyMetrics(ctx context.Context, kind domain.EntityKind, rng metrics.Range) (*dto.GetDailyMetricsResponse, error) {
	now := s.now().UTC()

	events, err := s.fetchWindow(ctx, kind, rng, now)
	if err != nil {
		return nil, err
	}

	series := metrics.ComputeDailyMetrics(rng, now, events)

	start, end := metrics.RangeWindow(rng, now)
	response := &dto.GetDailyMetricsResponse{
		Range:  string(rng),
		From:   start.Format(metrics.DayFormat),
		To:     end.Format(metrics.DayFormat),
		Days:   metrics.ListRangeDays(rng, now),
		Series: make([]dto.DailyActionMetricsData, 0, len(series)),
	}

	for _, point := range series {
		response.Series = append(response.Series, dto.DailyActionMetricsData{
			ActorUserID:  point.ActorUserID,
			Date:         point.Date,
			TotalActions: point.TotalActions,
		})
	}

	return response, nil
}

// fetchWindow pulls the raw event rows covering the range's day window.
// The upper bound is exclusive of the day after the window's last day so
// events later on the end day are included.
func (s *ActivityService) fetchWindow(ctx context.Context, kind domain.EntityKind, rng metrics.Range, now time.Time) ([]domain.Event, error) {
	start, end := metrics.RangeWindow(rng, now)

	events, err := s.repository.ListEventsBetween(ctx, kind, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}
