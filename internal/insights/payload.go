package insights

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vehs/internal/model"
)

const (
	tableRows    = 12
	categoryRows = 15
	minSeriesLen = 3
)

// trendTypes 月度序列优先顺序
var trendTypes = []model.RecordType{
	model.RecordTypeIncident,
	model.RecordTypeHazard,
	model.RecordTypeAudit,
	model.RecordTypeInspection,
}

// categoryDimensions 分类图的维度优先顺序
var categoryDimensions = []string{
	"line", "department", "type", "risk", "severity", "status",
	"area", "location", "root_cause", "violation", "auditor", "inspector",
}

var dimensionHeaders = map[string]string{
	"location":   "Location",
	"area":       "Area",
	"line":       "Line",
	"department": "Department",
	"risk":       "Risk Level",
	"severity":   "Severity",
	"status":     "Status",
	"root_cause": "Root Cause",
	"violation":  "Violation Type",
	"auditor":    "Auditor",
	"inspector":  "Inspector",
}

// BuildChartPayload 问答流末尾附带的图表/表格
// 优先月度序列（点数足够时），否则取第一个非空分类分布；verbose 时按意图给出多个图块
func BuildChartPayload(question string, rel map[string]any, verbose bool) model.ChartPayload {
	in := ParseIntent(question)

	if verbose {
		if blocks := verboseBlocks(in, rel); len(blocks) > 0 {
			return model.ChartPayload{ChartBlocks: blocks}
		}
	}

	for _, t := range trendTypes {
		series, ok := countsOf(rel, PerMonthKey(t))
		if !ok {
			continue
		}
		if in.Totals {
			if p, ok := totalsPayload(t, rel); ok {
				return p
			}
		}
		if len(series) < minSeriesLen {
			break
		}
		chart, table := monthlyBlock(t, series)
		p := model.ChartPayload{ChartData: chart, TableData: table}
		all, okAll := intOf(rel, TotalKey(t))
		dated, okDated := intOf(rel, TotalDatedKey(t))
		if okAll && okDated && all >= dated {
			p.Note = fmt.Sprintf("Showing monthly series for %d dated out of %d total.", dated, all)
		}
		return p
	}

	if key, counts, ok := firstCategory(rel, false); ok {
		chart, table := categoryBlock(key, counts, categoryRows)
		return model.ChartPayload{ChartData: chart, TableData: table}
	}
	return model.ChartPayload{}
}

// BuildChartInsightsPayload 图表解读流附带的数据：有月度序列时取第一个，否则取位置优先的分类分布
func BuildChartInsightsPayload(rel map[string]any) model.ChartPayload {
	for _, t := range trendTypes {
		if series, ok := countsOf(rel, PerMonthKey(t)); ok {
			chart, _ := monthlyBlock(t, series)
			labels := chart.Labels
			rows := make([][]any, len(labels))
			for i, l := range labels {
				rows[i] = []any{l, series[l]}
			}
			return model.ChartPayload{
				ChartData: chart,
				TableData: &model.TableData{Headers: []string{t.Label() + " Month", "Count"}, Rows: rows},
			}
		}
	}
	if key, counts, ok := firstCategory(rel, true); ok {
		chart, table := categoryBlock(key, counts, categoryRows)
		table.Headers = []string{"Category", "Count"}
		return model.ChartPayload{ChartData: chart, TableData: table}
	}
	return model.ChartPayload{}
}

func verboseBlocks(in Intent, rel map[string]any) []model.ChartBlock {
	var blocks []model.ChartBlock
	if in.Location {
		for _, t := range []model.RecordType{model.RecordTypeIncident, model.RecordTypeHazard} {
			for _, d := range locationDimensions {
				if counts, ok := countsOf(rel, ByKey(t, d)); ok {
					chart, table := categoryBlock(ByKey(t, d), counts, tableRows)
					chart.Datasets[0].Label = t.Label() + " by " + dimensionHeader(t, d)
					table.Headers = []string{"Location/Category", "Count"}
					blocks = append(blocks, model.ChartBlock{ChartData: chart, TableData: table})
				}
			}
		}
	}
	if in.Trend || len(blocks) == 0 {
		for _, t := range trendTypes {
			if series, ok := countsOf(rel, PerMonthKey(t)); ok {
				chart, table := monthlyBlock(t, series)
				blocks = append(blocks, model.ChartBlock{ChartData: chart, TableData: table})
			}
		}
	}
	if len(blocks) == 0 {
		for _, k := range []string{ByKey(model.RecordTypeIncident, "type"), ByKey(model.RecordTypeHazard, "status")} {
			if counts, ok := countsOf(rel, k); ok {
				chart, table := categoryBlock(k, counts, tableRows)
				table.Headers = []string{"Category", "Count"}
				blocks = append(blocks, model.ChartBlock{ChartData: chart, TableData: table})
			}
		}
	}
	return blocks
}

func totalsPayload(t model.RecordType, rel map[string]any) (model.ChartPayload, bool) {
	all, okAll := intOf(rel, TotalKey(t))
	dated, okDated := intOf(rel, TotalDatedKey(t))
	if !okAll || !okDated || all < dated {
		return model.ChartPayload{}, false
	}
	return model.ChartPayload{
		ChartData: &model.Chart{
			Labels:   []string{"Total", "Dated with Month"},
			Datasets: []model.Dataset{{Label: t.Label(), Data: []int{all, dated}}},
		},
		TableData: &model.TableData{
			Headers: []string{"Metric", "Count"},
			Rows:    [][]any{{"Total", all}, {"Dated with Month", dated}},
		},
		Note: "Total includes rows without a valid date; dated count is what appears in monthly charts.",
	}, true
}

// monthlyBlock 图按时间升序；表按计数降序取前若干个月
func monthlyBlock(t model.RecordType, series map[string]int) (*model.Chart, *model.TableData) {
	labels := make([]string, 0, len(series))
	for l := range series {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	data := make([]int, len(labels))
	for i, l := range labels {
		data[i] = series[l]
	}

	items := sortedItems(series, tableRows)
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{it.Label, it.Count}
	}
	return &model.Chart{Labels: labels, Datasets: []model.Dataset{{Label: t.Label(), Data: data}}},
		&model.TableData{Headers: []string{t.Label() + " Month", "Count"}, Rows: rows}
}

func categoryBlock(key string, counts map[string]int, limit int) (*model.Chart, *model.TableData) {
	items := sortedItems(counts, limit)
	labels := make([]string, len(items))
	data := make([]int, len(items))
	rows := make([][]any, len(items))
	for i, it := range items {
		labels[i] = it.Label
		data[i] = it.Count
		rows[i] = []any{it.Label, it.Count}
	}
	return &model.Chart{Labels: labels, Datasets: []model.Dataset{{Label: keyTitle(key), Data: data}}},
		&model.TableData{Headers: headersForKey(key), Rows: rows}
}

// firstCategory 按固定顺序找第一个非空分类计数
func firstCategory(rel map[string]any, locationFirst bool) (string, map[string]int, bool) {
	dims := categoryDimensions
	if locationFirst {
		dims = append([]string{"location"}, categoryDimensions...)
	}
	for _, t := range model.AllRecordTypes {
		for _, d := range dims {
			k := ByKey(t, d)
			if counts, ok := countsOf(rel, k); ok {
				return k, counts, true
			}
		}
	}
	return "", nil, false
}

func sortedItems(counts map[string]int, limit int) model.FrequencyTable {
	out := make(model.FrequencyTable, 0, len(counts))
	for l, n := range counts {
		out = append(out, model.Count{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// headersForKey 分类表头，如 hazards_by_risk -> [Risk Level, Hazard Count]
func headersForKey(key string) []string {
	for _, t := range model.AllRecordTypes {
		prefix := t.KeyPrefix() + "_by_"
		if strings.HasPrefix(key, prefix) {
			d := strings.TrimPrefix(key, prefix)
			return []string{dimensionHeader(t, d), strings.TrimSuffix(t.Label(), "s") + " Count"}
		}
	}
	return []string{"Category", "Count"}
}

func dimensionHeader(t model.RecordType, dim string) string {
	if dim == "type" {
		return strings.TrimSuffix(t.Label(), "s") + " Type"
	}
	if h, ok := dimensionHeaders[dim]; ok {
		return h
	}
	return keyTitle(dim)
}

func keyTitle(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func countsOf(rel map[string]any, key string) (map[string]int, bool) {
	m, ok := rel[key].(map[string]int)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return m, true
}

func intOf(rel map[string]any, key string) (int, bool) {
	n, ok := rel[key].(int)
	return n, ok
}
