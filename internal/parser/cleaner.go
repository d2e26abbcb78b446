package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// placeholders 表示"无数据"的占位值（小写）
var placeholders = map[string]struct{}{
	"":     {},
	"nan":  {},
	"nat":  {},
	"none": {},
	"null": {},
	"n/a":  {},
	"na":   {},
	"-":    {},
	"—":    {},
	"–":    {},
}

// IsPlaceholder 去空白后是否为空或占位值
func IsPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Clean 去除首尾空白并丢弃占位值；对结果再次调用结果不变
func Clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if IsPlaceholder(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// CellString 单元格转文本：nil 为空串，整数值浮点数不带小数
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		if x.IsZero() {
			return ""
		}
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case []byte:
		return string(x)
	}
	return ""
}

// CellStrings 整列转文本
func CellStrings(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = CellString(v)
	}
	return out
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
