package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vehs/internal/model"
	"vehs/internal/service/dashboard"
)

// HazardsPerMonth GET /api/hazards/per-month?location=
func (h *Handler) HazardsPerMonth(c *gin.Context) {
	location := c.Query("location")
	chartHandler(h, func() (model.Chart, error) { return h.svc.HazardsPerMonth(location) })(c)
}

// HazardsByRisk GET /api/hazards/by-risk
func (h *Handler) HazardsByRisk(c *gin.Context) {
	chartHandler(h, h.svc.HazardsByRisk)(c)
}

// HazardsByArea GET /api/hazards/by-area
func (h *Handler) HazardsByArea(c *gin.Context) {
	chartHandler(h, h.svc.HazardsByArea)(c)
}

// HazardsTop 按字段排名
// GET /api/hazards/top?by=hazard type&n=10
func (h *Handler) HazardsTop(c *gin.Context) {
	n, ok := queryInt(c, "n", dashboard.DefaultTopHazards)
	if !ok || n < 1 || n > dashboard.MaxTopHazards {
		badRequest(c, fmt.Sprintf("n must be between 1 and %d", dashboard.MaxTopHazards))
		return
	}
	by := c.DefaultQuery("by", "title")
	chart, err := h.svc.HazardsTop(by, n)
	if errors.Is(err, dashboard.ErrUnknownRanking) {
		badRequest(c, "unsupported ranking field: "+by)
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// HazardsHeatmap GET /api/hazards/heatmap?top_locs=15&top_types=10
func (h *Handler) HazardsHeatmap(c *gin.Context) {
	locs, ok := queryInt(c, "top_locs", dashboard.DefaultHeatmapLocs)
	if !ok || locs < 1 {
		badRequest(c, "top_locs must be a positive integer")
		return
	}
	types, ok := queryInt(c, "top_types", dashboard.DefaultHeatmapTypes)
	if !ok || types < 1 {
		badRequest(c, "top_types must be a positive integer")
		return
	}
	chartHandler(h, func() (model.Heatmap, error) { return h.svc.HazardsHeatmap(locs, types) })(c)
}

// HazardsStatusTrend GET /api/hazards/status-trend
func (h *Handler) HazardsStatusTrend(c *gin.Context) {
	chartHandler(h, h.svc.HazardsStatusTrend)(c)
}

// HazardsInsights GET /api/hazards/insights
func (h *Handler) HazardsInsights(c *gin.Context) {
	chartHandler(h, h.svc.HazardsInsights)(c)
}

// CompareByDepartment GET /api/hazards/compare-by-department?top_n=30
func (h *Handler) CompareByDepartment(c *gin.Context) {
	topN, ok := queryInt(c, "top_n", dashboard.DefaultCompareTopN)
	if !ok || topN < 1 {
		badRequest(c, "top_n must be a positive integer")
		return
	}
	chartHandler(h, func() (model.Chart, error) { return h.svc.CompareByDepartment(topN) })(c)
}
