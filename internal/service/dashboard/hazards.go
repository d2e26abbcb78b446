package dashboard

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vehs/internal/aggregator"
	"vehs/internal/model"
	"vehs/internal/parser"
)

// ErrUnknownRanking hazards/top 不支持的排序字段
var ErrUnknownRanking = errors.New("unknown ranking field")

// 隐患接口默认参数
const (
	DefaultTopHazards    = 10
	MaxTopHazards        = 50
	DefaultHeatmapLocs   = 15
	DefaultHeatmapTypes  = 10
	DefaultCompareTopN   = 30
	hazardInsightsTopN   = 10
	hazardHeatmapTitle   = "Heatmap: Location vs Hazard Type"
	hazardsPerMonthLabel = "Hazards per Month"
	hazardsByRiskLabel   = "Hazards by Risk"
)

// rankingFields hazards/top 的 by 参数（小写）-> 规范字段
var rankingFields = map[string]model.Field{
	"title":            model.FieldTitle,
	"incident type(s)": model.FieldCategory,
	"incident type":    model.FieldCategory,
	"hazard type":      model.FieldCategory,
	"root cause":       model.FieldRootCause,
	"violation type":   model.FieldViolation,
}

// RankingField 解析 by 参数
func RankingField(by string) (model.Field, bool) {
	f, ok := rankingFields[strings.ToLower(strings.TrimSpace(by))]
	return f, ok
}

func (v *view) hazards() *model.CanonicalTable {
	return v.table(model.RecordTypeHazard)
}

// HazardsPerMonth 隐患按月计数，可按位置过滤（忽略大小写）
func (s *Service) HazardsPerMonth(location string) (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	ct := v.hazards()
	if ct == nil {
		return model.EmptyChart(hazardsPerMonthLabel), nil
	}
	dates := v.dates(model.RecordTypeHazard)
	location = strings.TrimSpace(location)
	if location != "" {
		locs := ct.Field(model.FieldLocation)
		filtered := make([]model.DateValue, 0, len(dates))
		for i, d := range dates {
			if i < len(locs) && strings.EqualFold(strings.TrimSpace(locs[i]), location) {
				filtered = append(filtered, d)
			}
		}
		dates = filtered
	}
	return model.NewChart(hazardsPerMonthLabel, aggregator.MonthlyDates(dates)), nil
}

// HazardsByRisk 隐患按风险等级计数
func (s *Service) HazardsByRisk() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	risks := v.field(model.RecordTypeHazard, model.FieldRiskLevel)
	return model.NewChart(hazardsByRiskLabel, aggregator.Frequency(risks, aggregator.Options{})), nil
}

// HazardsByArea 隐患按区域计数
// 位置列本身是 Area 时直接用；否则依次用部门类列、位置列
func (s *Service) HazardsByArea() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	ct := v.hazards()
	if ct == nil {
		return model.EmptyChart("Hazards by Area"), nil
	}
	field, label := model.FieldLocation, "Hazards by Location"
	switch {
	case ct.Matched[model.FieldLocation] == "Area":
		label = "Hazards by Area"
	case ct.HasField(model.FieldDepartment):
		field, label = model.FieldDepartment, "Hazards by "+ct.Sources[model.FieldDepartment]
	}
	return model.NewChart(label, aggregator.Frequency(ct.Field(field), aggregator.Options{})), nil
}

// HazardsTop 按指定字段排名的前 n 项
func (s *Service) HazardsTop(by string, n int) (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	f, ok := RankingField(by)
	if !ok {
		return model.Chart{}, ErrUnknownRanking
	}
	label := "Top " + cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(by)))
	ct := v.hazards()
	if ct == nil || !ct.HasField(f) {
		return model.EmptyChart(label), nil
	}
	opts := aggregator.Options{TopN: n, Split: f == model.FieldCategory}
	return model.NewChart(label, aggregator.Frequency(ct.Field(f), opts)), nil
}

// hazardTypeTable 隐患位置 × 类型完整交叉表（类型多值拆分）
func (v *view) hazardTypeTable() model.CrossTab {
	ct := v.hazards()
	rows, cols := aggregator.ExpandMulti(ct.Field(model.FieldLocation), ct.Field(model.FieldCategory))
	return aggregator.Pivot(rows, cols)
}

// HazardsHeatmap 位置 × 隐患类型热力图，截取合计最多的位置与类型
func (s *Service) HazardsHeatmap(topLocs, topTypes int) (model.Heatmap, error) {
	v, err := s.current()
	if err != nil {
		return model.Heatmap{}, err
	}
	full := v.hazardTypeTable()
	return model.NewHeatmap(hazardHeatmapTitle, aggregator.Restrict(full, topLocs, topTypes)), nil
}

// HazardsStatusTrend 每个状态一条按月序列
func (s *Service) HazardsStatusTrend() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	ct := v.hazards()
	if ct == nil {
		return model.Chart{Labels: []string{}, Datasets: []model.Dataset{}}, nil
	}
	pivot := aggregator.MonthlyPivot(v.dates(model.RecordTypeHazard), ct.Field(model.FieldStatus))
	return crossTabChart(pivot), nil
}

// HazardInsights 隐患专题统计
type HazardInsights struct {
	PerMonth        map[string]int            `json:"hazards_per_month,omitempty"`
	ByRisk          map[string]int            `json:"hazards_by_risk,omitempty"`
	ByLocation      map[string]int            `json:"hazards_by_location,omitempty"`
	StatusCounts    map[string]int            `json:"status_counts,omitempty"`
	TopTitle        map[string]int            `json:"top_title,omitempty"`
	TopIncidentType map[string]int            `json:"top_incident_type,omitempty"`
	TopRootCause    map[string]int            `json:"top_root_cause,omitempty"`
	Heatmap         map[string]map[string]int `json:"heatmap,omitempty"`
}

// HazardsInsights 汇总隐患统计；热力图按 类型 -> 位置 -> 计数 嵌套
// 没有隐患表时返回零值
func (s *Service) HazardsInsights() (HazardInsights, error) {
	v, err := s.current()
	if err != nil {
		return HazardInsights{}, err
	}
	ct := v.hazards()
	if ct == nil || ct.Len() == 0 {
		return HazardInsights{}, nil
	}

	var out HazardInsights
	if ct.DatedCount() > 0 {
		out.PerMonth = aggregator.MonthlyDates(v.dates(model.RecordTypeHazard)).Map()
	}
	if ct.HasField(model.FieldRiskLevel) {
		out.ByRisk = aggregator.Frequency(ct.Field(model.FieldRiskLevel), aggregator.Options{}).Map()
	}
	out.ByLocation = aggregator.Frequency(ct.Field(model.FieldLocation), aggregator.Options{}).Map()
	if ct.HasField(model.FieldStatus) {
		out.StatusCounts = aggregator.Frequency(ct.Field(model.FieldStatus), aggregator.Options{}).Map()
	}
	top := aggregator.Options{TopN: hazardInsightsTopN}
	if ct.HasField(model.FieldTitle) {
		out.TopTitle = aggregator.Frequency(ct.Field(model.FieldTitle), top).Map()
	}
	if ct.HasField(model.FieldCategory) {
		out.TopIncidentType = aggregator.Frequency(ct.Field(model.FieldCategory), top).Map()
	}
	if ct.HasField(model.FieldRootCause) {
		out.TopRootCause = aggregator.Frequency(ct.Field(model.FieldRootCause), top).Map()
	}

	hm := aggregator.Restrict(v.hazardTypeTable(), DefaultHeatmapLocs, DefaultHeatmapTypes)
	if !hm.Empty() {
		out.Heatmap = make(map[string]map[string]int, len(hm.ColLabels))
		for j, typ := range hm.ColLabels {
			col := make(map[string]int, len(hm.RowLabels))
			for i, loc := range hm.RowLabels {
				col[loc] = hm.Values[i][j]
			}
			out.Heatmap[typ] = col
		}
	}
	return out, nil
}

// CompareByDepartment 隐患与事件按部门对比，列取 Department、Section、Area 中第一个存在的
func (s *Service) CompareByDepartment(topN int) (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	haz := departmentValues(v.hazards())
	inc := departmentValues(v.table(model.RecordTypeIncident))
	labels, data := aggregator.Union(topN, haz, inc)
	if len(labels) == 0 {
		return model.Chart{Labels: []string{}, Datasets: []model.Dataset{}}, nil
	}
	return model.Chart{
		Labels: labels,
		Datasets: []model.Dataset{
			{Label: model.RecordTypeHazard.Label(), Data: data[0]},
			{Label: model.RecordTypeIncident.Label(), Data: data[1]},
		},
	}, nil
}

var departmentHeaders = []string{"Department", "Section", "Area"}

// departmentValues 直接从原表取部门列，不受 Line 优先的影响
func departmentValues(ct *model.CanonicalTable) []string {
	if ct == nil || ct.Source == nil {
		return nil
	}
	idx, _, _, ok := parser.NewFieldMapper(ct.Source.Columns).Lookup(departmentHeaders)
	if !ok {
		return nil
	}
	return parser.CellStrings(ct.Source.Column(idx))
}
