package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vehs/internal/insights"
	"vehs/internal/llm"
	"vehs/internal/model"
	"vehs/internal/service/dashboard"
)

// MetaMarker 流式回答与图表元数据之间的分隔标记
const MetaMarker = "\n[[META]]"

const prescriptiveSuffix = "\n\nFocus on prescriptive, actionable recommendations."

// QARequest 问答请求
type QARequest struct {
	Question string `json:"question"`
	Verbose  bool   `json:"verbose"`
}

// ChartInsightsRequest 图表解读请求；verbose 缺省为 true
type ChartInsightsRequest struct {
	ChartKey string `json:"chart_key" binding:"required"`
	Question string `json:"question"`
	Verbose  *bool  `json:"verbose"`
}

// QA 规则问答
// POST /api/qa
func (h *Handler) QA(c *gin.Context) {
	var req QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ans, err := h.svc.Answer(req.Question)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ans)
}

// QAStream 模型流式回答，末尾附带图表元数据
// POST /api/qa/stream
func (h *Handler) QAStream(c *gin.Context) {
	var req QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	kb, err := h.svc.KnowledgeBase()
	if err != nil {
		h.respondError(c, err)
		return
	}
	rel := relevantInsights(kb, req.Question, req.Verbose)
	meta := insights.BuildChartPayload(req.Question, rel, req.Verbose)
	h.stream(c, llm.Request{Question: req.Question, Insights: rel, Verbose: req.Verbose}, meta)
}

// ChartInsightsStream 针对某个图表的解读
// POST /api/charts/insights/stream
func (h *Handler) ChartInsightsStream(c *gin.Context) {
	var req ChartInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "chart_key is required")
		return
	}
	kb, err := h.svc.KnowledgeBase()
	if err != nil {
		h.respondError(c, err)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = dashboard.ChartQuestion(req.ChartKey, req.Question)
	} else {
		question += prescriptiveSuffix
	}
	verbose := req.Verbose == nil || *req.Verbose
	rel := relevantInsights(kb, question, verbose)
	meta := insights.BuildChartInsightsPayload(rel)
	h.stream(c, llm.Request{Question: question, Insights: rel, Verbose: verbose}, meta)
}

// relevantInsights 按问题挑选知识库子集；verbose 时给出完整知识库（仍然只有聚合值）
func relevantInsights(kb *model.KnowledgeBase, question string, verbose bool) map[string]any {
	if verbose && kb.Len() > 0 {
		return kb.All()
	}
	return insights.Select(kb, question)
}

// stream 以 text/plain 分块输出模型回答，结束后追加 [[META]] 与 JSON
func (h *Handler) stream(c *gin.Context, req llm.Request, meta model.ChartPayload) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	emit := func(chunk string) error {
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	ctx := c.Request.Context()
	if err := llm.Stream(ctx, h.llm, req, emit); err != nil {
		if ctx.Err() != nil {
			return
		}
		h.logger.Warn("llm stream failed", zap.Error(err))
	}
	if meta.Empty() {
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		h.logger.Error("marshal chart payload failed", zap.Error(err))
		return
	}
	if err := emit(MetaMarker + string(data)); err != nil && ctx.Err() == nil {
		h.logger.Warn("write chart payload failed", zap.Error(err))
	}
}
