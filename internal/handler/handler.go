package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
	"github.com/Artotz/lead-middleware-sub001/internal/dto"
	"github.com/Artotz/lead-middleware-sub001/internal/identity"
	"github.com/Artotz/lead-middleware-sub001/internal/metrics"
	"github.com/Artotz/lead-middleware-sub001/internal/middleware"
	"github.com/Artotz/lead-middleware-sub001/internal/repository"
	"github.com/Artotz/lead-middleware-sub001/internal/service"
	"github.com/Artotz/lead-middleware-sub001/internal/validator"
)

type Handler struct {
	activityService service.ActivityServicer
	resolver        identity.Resolver
	router          *gin.Engine
	log             *zap.Logger
}

func NewHandler(activityService service.ActivityServicer, resolver identity.Resolver, log *zap.Logger) *Handler {
	h := &Handler{
		activityService: activityService,
		resolver:        resolver,
		router:          gin.Default(),
		log:             log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.Use(middleware.CorrelationID())
	h.router.Use(middleware.CollectMetrics())

	h.router.GET("/health", h.healthCheck)
	h.router.GET("/internal/metrics", gin.WrapH(promhttp.Handler()))

	api := h.router.Group("/api", middleware.RequireIdentity(h.resolver, h.log))
	api.POST("/:kind/actions", h.recordAction)
	api.GET("/:kind/metrics/users", h.getUserMetrics)
	api.GET("/:kind/metrics/daily", h.getDailyMetrics)
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// recordAction handles POST /api/:kind/actions
// @Summary Record a user action
// @Description Append an immutable action event for a lead or ticket, stamped with the session actor
// @Tags actions
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind" Enums(lead, ticket)
// @Param action body dto.RecordActionRequest true "Action data"
// @Success 201 {object} dto.RecordActionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/{kind}/actions [post]
func (h *Handler) recordAction(c *gin.Context) {
	kind, ok := h.entityKind(c)
	if !ok {
		return
	}

	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "unauthenticated",
			Message: "a valid session is required",
		})
		return
	}

	var req dto.RecordActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid action request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	event, err := h.activityService.RecordAction(c.Request.Context(), actor, kind, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRecordActionResponse(event))
}

// getUserMetrics handles GET /api/:kind/metrics/users
// @Summary Get per-actor activity metrics
// @Description Aggregate totals, unique items and action breakdowns per actor over a named range
// @Tags metrics
// @Produce json
// @Param kind path string true "Entity kind" Enums(lead, ticket)
// @Param range query string true "Time range" Enums(today, week, month, year)
// @Success 200 {object} dto.GetUserMetricsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/{kind}/metrics/users [get]
func (h *Handler) getUserMetrics(c *gin.Context) {
	kind, ok := h.entityKind(c)
	if !ok {
		return
	}
	rng, ok := h.metricsRange(c)
	if !ok {
		return
	}

	response, err := h.activityService.GetUserActionMetrics(c.Request.Context(), kind, rng)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// getDailyMetrics handles GET /api/:kind/metrics/daily
// @Summary Get daily activity series
// @Description Per-actor daily action counts over a named range, zero-filled across the window
// @Tags metrics
// @Produce json
// @Param kind path string true "Entity kind" Enums(lead, ticket)
// @Param range query string true "Time range" Enums(today, week, month, year)
// @Success 200 {object} dto.GetDailyMetricsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/{kind}/metrics/daily [get]
func (h *Handler) getDailyMetrics(c *gin.Context) {
	kind, ok := h.entityKind(c)
	if !ok {
		return
	}
	rng, ok := h.metricsRange(c)
	if !ok {
		return
	}

	response, err := h.activityService.GetDailyMetrics(c.Request.Context(), kind, rng)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) entityKind(c *gin.Context) (domain.EntityKind, bool) {
	kind, ok := domain.ParseEntityKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "unknown entity kind: " + c.Param("kind"),
		})
		return "", false
	}
	return kind, true
}

func (h *Handler) metricsRange(c *gin.Context) (metrics.Range, bool) {
	var req dto.GetMetricsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return "", false
	}

	rng, ok := metrics.ParseRange(req.Range)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "invalid range: " + req.Range + " (supported: today, week, month, year)",
		})
		return "", false
	}
	return rng, true
}

// writeError maps the error taxonomy onto HTTP statuses. Store and
// unexpected failures keep their internals in the logs, not the body.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Details: validationErr.Details,
		})
		return
	}

	if errors.Is(err, identity.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "unauthenticated",
			Message: "a valid session is required",
		})
		return
	}

	var storeErr *repository.StoreError
	if errors.As(err, &storeErr) {
		h.log.Error("Event store failure",
			zap.String("path", c.Request.URL.Path),
			zap.String("correlation_id", middleware.GetCorrelationID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "store_error",
			Message: "event store unavailable",
		})
		return
	}

	h.log.Error("Unexpected failure",
		zap.String("path", c.Request.URL.Path),
		zap.String("correlation_id", middleware.GetCorrelationID(c)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: "unexpected error",
	})
}
