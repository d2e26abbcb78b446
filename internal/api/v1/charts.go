package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vehs/internal/model"
	"vehs/internal/service/dashboard"
)

// chartHandler 把无参数的图表方法包装成 gin handler
func chartHandler[T any](h *Handler, fn func() (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := fn()
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// EntriesByCategory GET /api/charts/entries-by-category
func (h *Handler) EntriesByCategory(c *gin.Context) {
	chartHandler(h, h.svc.EntriesByCategory)(c)
}

// IncidentHazardTypes GET /api/charts/incident-hazard-types
func (h *Handler) IncidentHazardTypes(c *gin.Context) {
	chartHandler(h, h.svc.IncidentHazardTypes)(c)
}

// MonthlyTrends GET /api/charts/monthly-trends
func (h *Handler) MonthlyTrends(c *gin.Context) {
	chartHandler(h, h.svc.MonthlyTrends)(c)
}

// EntriesByLocation GET /api/charts/entries-by-location
func (h *Handler) EntriesByLocation(c *gin.Context) {
	chartHandler(h, h.svc.EntriesByLocation)(c)
}

// StackedEntriesByLocation GET /api/charts/stacked-entries-by-location
func (h *Handler) StackedEntriesByLocation(c *gin.Context) {
	chartHandler(h, h.svc.StackedEntriesByLocation)(c)
}

// ProportionByLocation 饼图使用，数据与 entries-by-location 相同
// GET /api/charts/proportion-by-location
func (h *Handler) ProportionByLocation(c *gin.Context) {
	chartHandler(h, h.svc.EntriesByLocation)(c)
}

// TypesByLocation GET /api/charts/types-by-location
func (h *Handler) TypesByLocation(c *gin.Context) {
	chartHandler(h, h.svc.TypesByLocation)(c)
}

// StatusByLocation GET /api/charts/status-by-location
func (h *Handler) StatusByLocation(c *gin.Context) {
	chartHandler(h, h.svc.StatusByLocation)(c)
}

// Heatmap GET /api/charts/heatmap
func (h *Handler) Heatmap(c *gin.Context) {
	chartHandler(h, h.svc.Heatmap)(c)
}

// recordParam 解析 :record
func recordParam(c *gin.Context) (model.RecordType, bool) {
	t, ok := model.ParseRecordType(c.Param("record"))
	if !ok {
		badRequest(c, "unknown record type: "+c.Param("record"))
	}
	return t, ok
}

// RecordMonthly GET /api/charts/:record/monthly
func (h *Handler) RecordMonthly(c *gin.Context) {
	t, ok := recordParam(c)
	if !ok {
		return
	}
	chartHandler(h, func() (model.Chart, error) { return h.svc.RecordMonthly(t) })(c)
}

// RecordQuarterly GET /api/charts/:record/quarterly
func (h *Handler) RecordQuarterly(c *gin.Context) {
	t, ok := recordParam(c)
	if !ok {
		return
	}
	chartHandler(h, func() (model.Chart, error) { return h.svc.RecordQuarterly(t) })(c)
}

// RecordByField 某类记录按字段计数
// GET /api/charts/:record/by/:field?top=20&others=true
func (h *Handler) RecordByField(c *gin.Context) {
	t, ok := recordParam(c)
	if !ok {
		return
	}
	f, ok := model.ParseField(c.Param("field"))
	if !ok || f == model.FieldDate {
		badRequest(c, "unsupported field: "+c.Param("field"))
		return
	}
	top, ok := queryInt(c, "top", dashboard.DefaultFieldTop)
	if !ok || top < 0 {
		badRequest(c, "top must be a non-negative integer")
		return
	}
	others := queryBool(c, "others", true)
	chartHandler(h, func() (model.Chart, error) { return h.svc.RecordByField(t, f, top, others) })(c)
}
