package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opacedigital/ai-core/internal/analytics"
	"github.com/opacedigital/ai-core/internal/store/model"
	"github.com/opacedigital/ai-core/pkg/api"
)

type AnalyticsHandler struct {
	service analytics.Service
	now     func() time.Time
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		now:     time.Now,
	}
}

// GetUsage aggregates usage by provider, model and use case.
//
// GET /v1/usage?since=24h&provider=openai&use_case=summary
func (h *AnalyticsHandler) GetUsage(c *gin.Context) {
	filter := model.UsageFilter{
		Provider: c.Query("provider"),
		UseCase:  c.Query("use_case"),
	}

	if since := c.Query("since"); since != "" {
		d, err := time.ParseDuration(since)
		if err != nil || d <= 0 {
			_ = c.Error(api.NewError(http.StatusBadRequest, "Bad Request", "Invalid 'since' parameter"))
			return
		}
		filter.Since = h.now().Add(-d)
	}

	totals, err := h.service.Totals(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(api.NewError(http.StatusInternalServerError, "Internal Server Error", "Failed to fetch usage", api.WithLog(err)))
		return
	}

	c.JSON(http.StatusOK, api.List(totals))
}

// GetDaily returns per-day totals.
//
// GET /v1/usage/daily?days=7
func (h *AnalyticsHandler) GetDaily(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		_ = c.Error(api.NewError(http.StatusBadRequest, "Bad Request", "Invalid 'days' parameter"))
		return
	}

	stats, err := h.service.UsageOverview(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(api.NewError(http.StatusInternalServerError, "Internal Server Error", "Failed to fetch analytics", api.WithLog(err)))
		return
	}

	c.JSON(http.StatusOK, api.List(stats))
}

// GetRecent returns the latest recorded calls.
//
// GET /v1/usage/recent?limit=50
func (h *AnalyticsHandler) GetRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		_ = c.Error(api.NewError(http.StatusBadRequest, "Bad Request", "Invalid 'limit' parameter"))
		return
	}

	events, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(api.NewError(http.StatusInternalServerError, "Internal Server Error", "Failed to fetch usage", api.WithLog(err)))
		return
	}

	c.JSON(http.StatusOK, api.List(events))
}
