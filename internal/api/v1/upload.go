package v1

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vehs/internal/exporter"
	"vehs/internal/insights"
	"vehs/internal/model"
	"vehs/internal/service/dashboard"
	"vehs/internal/service/excel"
	memstore "vehs/internal/service/store"
	"vehs/internal/store"
)

// UploadResponse 上传结果
type UploadResponse struct {
	UploadID   string              `json:"uploadId"`
	Filename   string              `json:"filename"`
	Sheets     []model.SheetInfo   `json:"sheets"`
	Resolution model.ResolveResult `json:"resolution"`
	KBKeys     int                 `json:"kbKeys"`
}

var allowedExts = map[string]bool{".xlsx": true, ".xlsm": true}

// Upload 上传 Excel，解析并替换当前数据
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing upload field \"file\"")
		return
	}
	if !allowedExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		badRequest(c, "only .xlsx files are supported")
		return
	}
	limit := h.opts.MaxUploadMB << 20
	if fh.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d MB", h.opts.MaxUploadMB)})
		return
	}

	f, err := fh.Open()
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return
	}
	sum := sha256.Sum256(data)
	logID := h.beginHistory(fh.Filename, int64(len(data)), hex.EncodeToString(sum[:]))

	p := excel.NewParser()
	defer p.Close()
	if err := p.LoadFile(bytes.NewReader(data)); err != nil {
		h.failHistory(logID, err)
		badRequest(c, "invalid Excel file: "+err.Error())
		return
	}
	wb, err := p.Workbook()
	if err != nil {
		h.failHistory(logID, err)
		badRequest(c, err.Error())
		return
	}
	sheets := excel.SheetInfos(wb)

	snap := h.mem.Load(fh.Filename, wb, insights.Options{MaxCategories: h.maxCategories()})
	h.completeHistory(logID, snap.ID, snap.Resolution, snap.KB.Len())
	h.logger.Info("workbook loaded",
		zap.String("upload_id", snap.ID),
		zap.String("filename", fh.Filename),
		zap.Int("sheets", len(sheets)),
		zap.Int("resolved_rows", snap.Resolution.ResolvedRows),
		zap.Int("kb_keys", snap.KB.Len()),
	)

	c.JSON(http.StatusOK, UploadResponse{
		UploadID:   snap.ID,
		Filename:   fh.Filename,
		Sheets:     sheets,
		Resolution: snap.Resolution,
		KBKeys:     snap.KB.Len(),
	})
}

// 历史记录失败只记日志，不影响上传
func (h *Handler) beginHistory(filename string, size int64, hash string) int64 {
	if h.history == nil {
		return 0
	}
	id, err := h.history.CreateImportLog(filename, size, hash)
	if err != nil {
		h.logger.Warn("create import log failed", zap.Error(err))
		return 0
	}
	return id
}

func (h *Handler) failHistory(id int64, cause error) {
	if h.history == nil || id == 0 {
		return
	}
	if err := h.history.FailImportLog(id, cause.Error()); err != nil {
		h.logger.Warn("fail import log failed", zap.Int64("id", id), zap.Error(err))
	}
}

func (h *Handler) completeHistory(id int64, uploadID string, res model.ResolveResult, kbKeys int) {
	if h.history == nil || id == 0 {
		return
	}
	if err := h.history.CompleteImportLog(id, uploadID, res, kbKeys); err != nil {
		h.logger.Warn("complete import log failed", zap.Int64("id", id), zap.Error(err))
	}
}

// ListUploads 最近的上传历史
// GET /api/uploads?limit=20
func (h *Handler) ListUploads(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"items": []store.ImportLog{}})
		return
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok || limit < 1 {
		badRequest(c, "limit must be a positive integer")
		return
	}
	logs, err := h.history.ListImportLogs(limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if logs == nil {
		logs = []store.ImportLog{}
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

// ListUploadSheets 某次上传各类型命中的 sheet
// GET /api/uploads/:id/sheets
func (h *Handler) ListUploadSheets(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid upload id")
		return
	}
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"items": []store.SheetMeta{}})
		return
	}
	metas, err := h.history.ListSheetMeta(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if metas == nil {
		metas = []store.SheetMeta{}
	}
	c.JSON(http.StatusOK, gin.H{"items": metas})
}

// GetStatus 当前数据概况与最近一次成功上传
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := gin.H{"summary": h.svc.Summary()}
	if h.history != nil {
		last, err := h.history.LastCompleted()
		if err != nil {
			h.logger.Warn("load last upload failed", zap.Error(err))
		} else if last != nil {
			resp["lastUpload"] = last
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetInsights 完整知识库
// GET /api/insights
func (h *Handler) GetInsights(c *gin.Context) {
	kb, err := h.svc.KnowledgeBase()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kb)
}

// ExportInsights 知识库导出为 xlsx
// GET /api/insights/export
func (h *Handler) ExportInsights(c *gin.Context) {
	kb, err := h.svc.KnowledgeBase()
	if err != nil {
		h.respondError(c, err)
		return
	}
	filename := h.svc.Summary().Filename
	file, err := exporter.NewExporter(filename).Export(kb)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", exporter.ContentDisposition(filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		h.logger.Warn("write export failed", zap.Error(err))
	}
}

// RecomputeRequest 重建知识库请求
type RecomputeRequest struct {
	MaxCategories *int `json:"max_categories"`
}

// RecomputeInsights 基于当前工作簿重建知识库，可选修改并保存分类上限
// POST /api/insights/recompute
func (h *Handler) RecomputeInsights(c *gin.Context) {
	var req RecomputeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	limit := h.maxCategories()
	if req.MaxCategories != nil {
		if *req.MaxCategories < 1 {
			badRequest(c, "max_categories must be positive")
			return
		}
		limit = *req.MaxCategories
	}

	snap, err := h.mem.Recompute(insights.Options{MaxCategories: limit})
	if err != nil {
		if errors.Is(err, memstore.ErrEmpty) {
			h.respondError(c, dashboard.ErrNoData)
			return
		}
		h.respondError(c, err)
		return
	}
	if req.MaxCategories != nil && h.history != nil {
		if err := h.history.SetConfigInt(store.ConfigKeyMaxCategories, limit); err != nil {
			h.logger.Warn("save max categories failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"uploadId":      snap.ID,
		"kbKeys":        snap.KB.Len(),
		"maxCategories": limit,
		"kbBuiltAt":     snap.KBBuiltAt.Format("2006-01-02 15:04:05"),
	})
}
