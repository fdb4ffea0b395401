package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
	"github.com/Artotz/lead-middleware-sub001/internal/dto"
	"github.com/Artotz/lead-middleware-sub001/internal/identity"
	"github.com/Artotz/lead-middleware-sub001/internal/metrics"
	"github.com/Artotz/lead-middleware-sub001/internal/repository"
	"github.com/Artotz/lead-middleware-sub001/internal/validator"
)

var testActor = &identity.Identity{
	ID:    "u_8842",
	Email: "carol@example.com",
	Name:  "Carol",
}

// MockActivityService is a mock implementation of service.ActivityServicer
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) RecordAction(ctx context.Context, actor *identity.Identity, kind domain.EntityKind, req *dto.RecordActionRequest) (*domain.Event, error) {
	args := m.Called(ctx, actor, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockActivityService) GetUserActionMetrics(ctx context.Context, kind domain.EntityKind, rng metrics.Range) (*dto.GetUserMetricsResponse, error) {
	args := m.Called(ctx, kind, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GetUserMetricsResponse), args.Error(1)
}

func (m *MockActivityService) GetDailyMetrics(ctx context.Context, kind domain.EntityKind, rng metrics.Range) (*dto.GetDailyMetricsResponse, error) {
	args := m.Called(ctx, kind, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GetDailyMetricsResponse), args.Error(1)
}

// stubResolver resolves a fixed identity, or fails when actor is nil.
type stubResolver struct {
	actor *identity.Identity
}

func (s *stubResolver) Resolve(r *http.Request) (*identity.Identity, error) {
	if s.actor == nil {
		return nil, identity.ErrUnauthenticated
	}
	return s.actor, nil
}

func newTestHandler(svc *MockActivityService, actor *identity.Identity) *Handler {
	return NewHandler(svc, &stubResolver{actor: actor}, zap.NewNop())
}

func TestHandler_HealthCheck(t *testing.T) {
	handler := newTestHandler(new(MockActivityService), testActor)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHandler_RecordAction_Success(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	persisted := &domain.Event{
		ID:          "evt-1",
		EntityKind:  domain.EntityKindTicket,
		EntityID:    "TCK-1042",
		ActorUserID: "u_8842",
		Action:      domain.ActionAssign,
		Source:      domain.SourceMiddleware,
		OccurredAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	mockService.On("RecordAction", mock.Anything, testActor, domain.EntityKindTicket, mock.Anything).
		Return(persisted, nil)

	body, _ := json.Marshal(dto.RecordActionRequest{
		EntityID: "TCK-1042",
		Action:   "assign",
		Payload:  map[string]any{"assignee": "dave"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/ticket/actions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.RecordActionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "evt-1", response.ID)
	assert.Equal(t, "middleware", response.Source)
	mockService.AssertExpectations(t)
}

func TestHandler_RecordAction_Unauthenticated(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, nil)

	body, _ := json.Marshal(dto.RecordActionRequest{EntityID: "TCK-1", Action: "note"})
	req := httptest.NewRequest(http.MethodPost, "/api/ticket/actions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "unauthenticated", response.Error)
	// The request must never reach the service, let alone the validator.
	mockService.AssertNotCalled(t, "RecordAction")
}

func TestHandler_RecordAction_ValidationError(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	validationErr := &validator.ValidationError{
		Message: "invalid ticket action",
		Details: []string{"entity_id is required and must be a non-empty string for tickets"},
	}
	mockService.On("RecordAction", mock.Anything, testActor, domain.EntityKindTicket, mock.Anything).
		Return(nil, validationErr)

	body, _ := json.Marshal(dto.RecordActionRequest{Action: "note"})
	req := httptest.NewRequest(http.MethodPost, "/api/ticket/actions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "validation_error", response.Error)
	assert.Equal(t, validationErr.Details, response.Details)
}

func TestHandler_RecordAction_StoreError(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	storeErr := &repository.StoreError{Op: "insert", Err: errors.New("connection refused")}
	mockService.On("RecordAction", mock.Anything, testActor, domain.EntityKindTicket, mock.Anything).
		Return(nil, storeErr)

	body, _ := json.Marshal(dto.RecordActionRequest{EntityID: "TCK-1", Action: "note", Payload: map[string]any{"body": "x"}})
	req := httptest.NewRequest(http.MethodPost, "/api/ticket/actions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "store_error", response.Error)
	// Driver details stay in the logs.
	assert.NotContains(t, response.Message, "connection refused")
}

func TestHandler_RecordAction_UnknownKind(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	body, _ := json.Marshal(dto.RecordActionRequest{EntityID: "X-1", Action: "note"})
	req := httptest.NewRequest(http.MethodPost, "/api/deal/actions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "RecordAction")
}

func TestHandler_RecordAction_InvalidJSON(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	req := httptest.NewRequest(http.MethodPost, "/api/ticket/actions", bytes.NewReader([]byte(`{"action": invalid}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "RecordAction")
}

func TestHandler_GetUserMetrics_Success(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	mockService.On("GetUserActionMetrics", mock.Anything, domain.EntityKindLead, metrics.RangeWeek).
		Return(&dto.GetUserMetricsResponse{
			Range: "week",
			From:  "2024-02-24",
			To:    "2024-03-01",
			Users: []dto.UserActionMetricsData{
				{ActorUserID: "U1", TotalActions: 3, UniqueItems: 2, ActionsBreakdown: map[string]int{"note": 3}},
			},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/lead/metrics/users?range=week", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.GetUserMetricsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "week", response.Range)
	assert.Len(t, response.Users, 1)
	assert.Equal(t, 3, response.Users[0].TotalActions)
	mockService.AssertExpectations(t)
}

func TestHandler_GetUserMetrics_Unauthenticated(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/lead/metrics/users?range=week", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetUserActionMetrics")
}

func TestHandler_GetUserMetrics_InvalidRange(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	req := httptest.NewRequest(http.MethodGet, "/api/lead/metrics/users?range=quarter", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "validation_error", response.Error)
	mockService.AssertNotCalled(t, "GetUserActionMetrics")
}

func TestHandler_GetUserMetrics_MissingRange(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	req := httptest.NewRequest(http.MethodGet, "/api/lead/metrics/users", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetUserActionMetrics")
}

func TestHandler_GetDailyMetrics_Success(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	mockService.On("GetDailyMetrics", mock.Anything, domain.EntityKindTicket, metrics.RangeToday).
		Return(&dto.GetDailyMetricsResponse{
			Range: "today",
			From:  "2024-03-01",
			To:    "2024-03-01",
			Days:  []string{"2024-03-01"},
			Series: []dto.DailyActionMetricsData{
				{ActorUserID: "U1", Date: "2024-03-01", TotalActions: 2},
			},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ticket/metrics/daily?range=today", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.GetDailyMetricsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01"}, response.Days)
	assert.Len(t, response.Series, 1)
	mockService.AssertExpectations(t)
}

func TestHandler_GetDailyMetrics_StoreError(t *testing.T) {
	mockService := new(MockActivityService)
	handler := newTestHandler(mockService, testActor)

	storeErr := &repository.StoreError{Op: "list", Err: errors.New("timeout")}
	mockService.On("GetDailyMetrics", mock.Anything, domain.EntityKindTicket, metrics.RangeWeek).
		Return(nil, storeErr)

	req := httptest.NewRequest(http.MethodGet, "/api/ticket/metrics/daily?range=week", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "store_error", response.Error)
}
