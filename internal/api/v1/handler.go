package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vehs/internal/insights"
	"vehs/internal/llm"
	"vehs/internal/service/dashboard"
	memstore "vehs/internal/service/store"
	"vehs/internal/store"
)

// Options Handler 可选配置
type Options struct {
	MaxCategories int   // 知识库分类上限的默认值，历史库里有保存值时以保存值为准
	MaxUploadMB   int64 // 上传文件大小上限
}

// Handler V1 API 处理器
type Handler struct {
	mem     *memstore.MemoryStore
	svc     *dashboard.Service
	history *store.Store // 可为 nil，此时不记录上传历史
	llm     llm.Answerer
	logger  *zap.Logger
	opts    Options
}

// NewHandler 创建 V1 API 处理器
func NewHandler(mem *memstore.MemoryStore, history *store.Store, answerer llm.Answerer, logger *zap.Logger, opts Options) *Handler {
	if answerer == nil {
		answerer = llm.Unconfigured{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxCategories <= 0 {
		opts.MaxCategories = insights.DefaultMaxCategories
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 50
	}
	return &Handler{
		mem:     mem,
		svc:     dashboard.NewService(mem),
		history: history,
		llm:     answerer,
		logger:  logger,
		opts:    opts,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传与历史
	router.POST("/upload", h.Upload)
	router.GET("/uploads", h.ListUploads)
	router.GET("/uploads/:id/sheets", h.ListUploadSheets)

	// 知识库
	router.GET("/insights", h.GetInsights)
	router.POST("/insights/recompute", h.RecomputeInsights)
	router.GET("/insights/export", h.ExportInsights)

	// 总览图表
	charts := router.Group("/charts")
	{
		charts.GET("/entries-by-category", h.EntriesByCategory)
		charts.GET("/incident-hazard-types", h.IncidentHazardTypes)
		charts.GET("/monthly-trends", h.MonthlyTrends)
		charts.GET("/entries-by-location", h.EntriesByLocation)
		charts.GET("/stacked-entries-by-location", h.StackedEntriesByLocation)
		charts.GET("/proportion-by-location", h.ProportionByLocation)
		charts.GET("/types-by-location", h.TypesByLocation)
		charts.GET("/status-by-location", h.StatusByLocation)
		charts.GET("/heatmap", h.Heatmap)
		charts.GET("/:record/monthly", h.RecordMonthly)
		charts.GET("/:record/quarterly", h.RecordQuarterly)
		charts.GET("/:record/by/:field", h.RecordByField)
		charts.POST("/insights/stream", h.ChartInsightsStream)
	}

	// 隐患专题
	hazards := router.Group("/hazards")
	{
		hazards.GET("/per-month", h.HazardsPerMonth)
		hazards.GET("/by-risk", h.HazardsByRisk)
		hazards.GET("/by-area", h.HazardsByArea)
		hazards.GET("/top", h.HazardsTop)
		hazards.GET("/heatmap", h.HazardsHeatmap)
		hazards.GET("/status-trend", h.HazardsStatusTrend)
		hazards.GET("/insights", h.HazardsInsights)
		hazards.GET("/compare-by-department", h.CompareByDepartment)
	}

	// 问答
	router.POST("/qa", h.QA)
	router.POST("/qa/stream", h.QAStream)
}

// maxCategories 历史库中保存的上限优先，其次为启动配置
func (h *Handler) maxCategories() int {
	if h.history == nil {
		return h.opts.MaxCategories
	}
	return h.history.MaxCategories(h.opts.MaxCategories)
}
