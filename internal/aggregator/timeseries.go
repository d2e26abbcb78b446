package aggregator

import (
	"fmt"
	"sort"

	"vehs/internal/model"
	"vehs/internal/parser"
)

// period 年 + 月或季度序号
type period struct {
	year int
	n    int
}

func (p period) less(o period) bool {
	if p.year != o.year {
		return p.year < o.year
	}
	return p.n < o.n
}

func monthOf(d model.DateValue) period {
	return period{year: d.Time.Year(), n: int(d.Time.Month())}
}

func quarterOf(d model.DateValue) period {
	return period{year: d.Time.Year(), n: (int(d.Time.Month())-1)/3 + 1}
}

// MonthLabel 月份标签，如 2024-01
func MonthLabel(year int, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// QuarterLabel 季度标签，如 2024Q1
func QuarterLabel(year int, quarter int) string {
	return fmt.Sprintf("%04dQ%d", year, quarter)
}

// Monthly 归一化日期后按自然月计数，时间升序，不补零
func Monthly(values []any) model.TimeSeries {
	return MonthlyDates(parser.NormalizeDates(values))
}

// MonthlyDates 已归一化日期按月计数
func MonthlyDates(dates []model.DateValue) model.TimeSeries {
	return bucket(dates, monthOf, func(p period) string { return MonthLabel(p.year, p.n) })
}

// Quarterly 归一化日期后按季度计数
func Quarterly(values []any) model.TimeSeries {
	return QuarterlyDates(parser.NormalizeDates(values))
}

// QuarterlyDates 已归一化日期按季度计数
func QuarterlyDates(dates []model.DateValue) model.TimeSeries {
	return bucket(dates, quarterOf, func(p period) string { return QuarterLabel(p.year, p.n) })
}

func bucket(dates []model.DateValue, key func(model.DateValue) period, label func(period) string) model.TimeSeries {
	counts := make(map[period]int)
	for _, d := range dates {
		if !d.Valid {
			continue
		}
		counts[key(d)]++
	}
	periods := make([]period, 0, len(counts))
	for p := range counts {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].less(periods[j]) })

	out := make(model.TimeSeries, len(periods))
	for i, p := range periods {
		out[i] = model.Count{Label: label(p), Count: counts[p]}
	}
	return out
}

// MonthlyPivot 月份 × 分类 交叉表：行为时间升序的月份，列按合计降序
// 日期无效或分类为占位值的行被排除
func MonthlyPivot(dates []model.DateValue, cols []string) model.CrossTab {
	n := len(dates)
	if len(cols) < n {
		n = len(cols)
	}
	months := make([]string, 0, n)
	values := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if !dates[i].Valid || parser.IsPlaceholder(cols[i]) {
			continue
		}
		p := monthOf(dates[i])
		months = append(months, MonthLabel(p.year, p.n))
		values = append(values, cols[i])
	}
	ct := Pivot(months, values)
	sortRowsByLabel(&ct)
	return ct
}

// AlignSeries 多条时间序列对齐到标签并集（升序），缺失补 0
func AlignSeries(series ...model.TimeSeries) ([]string, [][]int) {
	seen := make(map[string]bool)
	var labels []string
	for _, s := range series {
		for _, c := range s {
			if !seen[c.Label] {
				seen[c.Label] = true
				labels = append(labels, c.Label)
			}
		}
	}
	sort.Strings(labels)

	data := make([][]int, len(series))
	for i, s := range series {
		m := s.Map()
		row := make([]int, len(labels))
		for j, l := range labels {
			row[j] = m[l]
		}
		data[i] = row
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, data
}
