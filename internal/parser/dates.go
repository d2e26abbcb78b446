package parser

import (
	"math"
	"strconv"
	"strings"
	"time"

	"vehs/internal/model"
)

// excelEpochUnix 1899-12-30T00:00:00Z，表格日期序列号的零点
const excelEpochUnix int64 = -2209161600

const secondsPerDay = 86400

// 序列号合法区间：0001-01-01 .. 9999-12-31
const (
	minSerial = -693593
	maxSerial = 2958465
)

// genericLayouts 通用解析：ISO 形式与月在前的写法
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006-01",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2-Jan-06",
	"Jan 2006",
	"January 2006",
}

// dayFirstLayouts 日在前的写法，仅在通用解析全部失败时重试
var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
}

// NormalizeDates 把混合类型的日期列统一为 DateValue
//
// 1. 通用解析（time.Time 原样保留，字符串按 ISO/月在前格式解析）
// 2. 所有数值（含数值字符串）一律按序列号覆盖对应位置
// 3. 若一个都没解析出来，按日在前格式重试字符串，再重新覆盖数值
//
// 解析不了的值标记为无效，不会 panic
func NormalizeDates(values []any) []model.DateValue {
	out := make([]model.DateValue, len(values))
	for i, v := range values {
		if t, ok := parseGeneric(v, genericLayouts); ok {
			out[i] = model.DateValue{Time: t, Valid: true}
		}
	}
	applySerials(values, out)
	if anyValid(out) {
		return out
	}

	for i, v := range values {
		if t, ok := parseGeneric(v, dayFirstLayouts); ok {
			out[i] = model.DateValue{Time: t, Valid: true}
		}
	}
	applySerials(values, out)
	return out
}

// applySerials 数值一律按序列号覆盖，超出区间的数值记为无效
func applySerials(values []any, out []model.DateValue) {
	for i, v := range values {
		f, ok := numericValue(v)
		if !ok {
			continue
		}
		t, valid := SerialToTime(f)
		out[i] = model.DateValue{Time: t, Valid: valid}
	}
}

func anyValid(ds []model.DateValue) bool {
	for _, d := range ds {
		if d.Valid {
			return true
		}
	}
	return false
}

// SerialToTime 序列号转 UTC 时间；小数部分作为当天时间
func SerialToTime(n float64) (time.Time, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < minSerial || n >= maxSerial+1 {
		return time.Time{}, false
	}
	days := math.Floor(n)
	nanos := int64(math.Round((n - days) * secondsPerDay * 1e9))
	sec := excelEpochUnix + int64(days)*secondsPerDay
	return time.Unix(sec, 0).UTC().Add(time.Duration(nanos)), true
}

// TimeToSerial 时间转序列号（按 UTC 日历日期计算）
func TimeToSerial(t time.Time) float64 {
	t = t.UTC()
	sec := t.Unix() - excelEpochUnix
	days := math.Floor(float64(sec) / secondsPerDay)
	rem := float64(sec) - days*secondsPerDay + float64(t.Nanosecond())/1e9
	return days + rem/secondsPerDay
}

func numericValue(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseGeneric(v any, layouts []string) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() || x.Year() < 1 || x.Year() > 9999 {
			return time.Time{}, false
		}
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return parseGeneric(*x, layouts)
	case string:
		s := NormalizeColumnName(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				if t.Year() < 1 || t.Year() > 9999 {
					return time.Time{}, false
				}
				return t, true
			}
		}
	}
	return time.Time{}, false
}
