package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vehs/internal/service/dashboard"
)

// NoDataMessage 未上传数据时的提示
const NoDataMessage = "No data processed. Upload Excel first."

// respondError 统一错误响应：未上传数据为 409，其余为 500
func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, dashboard.ErrNoData) {
		c.JSON(http.StatusConflict, gin.H{"error": NoDataMessage, "code": "no_data"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// queryInt 读取整数查询参数；缺省返回 def，非法时 ok=false
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// queryBool 读取布尔查询参数；缺省或非法时返回 def
func queryBool(c *gin.Context, name string, def bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}
