package dashboard

import (
	"vehs/internal/aggregator"
	"vehs/internal/model"
	"vehs/internal/parser"
)

const entriesLabel = "Count of Entries"

// DefaultFieldTop 字段频次图默认 Top-N
const DefaultFieldTop = 20

// stackedTypes 按位置堆叠图中的记录类型
var stackedTypes = []model.RecordType{
	model.RecordTypeIncident,
	model.RecordTypeHazard,
	model.RecordTypeAudit,
	model.RecordTypeInspection,
}

// EntriesByCategory 每类记录的行数，未匹配的类型为 0
func (s *Service) EntriesByCategory() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	f := make(model.FrequencyTable, len(model.AllRecordTypes))
	for i, t := range model.AllRecordTypes {
		f[i] = model.Count{Label: t.Label(), Count: v.snap.Rows(t)}
	}
	return model.NewChart(entriesLabel, f), nil
}

// IncidentHazardTypes 事件与隐患的类型（多值拆分）合并计数
func (s *Service) IncidentHazardTypes() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	types := v.fields(model.FieldCategory, model.RecordTypeIncident, model.RecordTypeHazard)
	f := aggregator.Frequency(types, aggregator.Options{Split: true})
	return model.NewChart("Incident & Hazard Types", f), nil
}

// MonthlyTrends 事件与隐患按月对比，月份取两者并集
func (s *Service) MonthlyTrends() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	inc := aggregator.MonthlyDates(v.dates(model.RecordTypeIncident))
	haz := aggregator.MonthlyDates(v.dates(model.RecordTypeHazard))
	labels, data := aggregator.AlignSeries(inc, haz)
	return model.Chart{
		Labels: labels,
		Datasets: []model.Dataset{
			{Label: model.RecordTypeIncident.Label(), Data: data[0]},
			{Label: model.RecordTypeHazard.Label(), Data: data[1]},
		},
	}, nil
}

// EntriesByLocation 全部记录类型的位置计数
func (s *Service) EntriesByLocation() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	locs := v.fields(model.FieldLocation, model.AllRecordTypes...)
	return model.NewChart(entriesLabel, aggregator.Frequency(locs, aggregator.Options{})), nil
}

// StackedEntriesByLocation 每类记录一个序列，位置取并集
func (s *Service) StackedEntriesByLocation() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	series := make([][]string, len(stackedTypes))
	for i, t := range stackedTypes {
		series[i] = v.field(t, model.FieldLocation)
	}
	labels, data := aggregator.Union(0, series...)
	chart := model.Chart{Labels: labels, Datasets: make([]model.Dataset, len(stackedTypes))}
	for i, t := range stackedTypes {
		chart.Datasets[i] = model.Dataset{Label: t.Label(), Data: data[i]}
	}
	return chart, nil
}

// TypesByLocation 位置 × 类型（事件 + 隐患，多值拆分）
func (s *Service) TypesByLocation() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	locs := v.fields(model.FieldLocation, model.RecordTypeIncident, model.RecordTypeHazard)
	types := v.fields(model.FieldCategory, model.RecordTypeIncident, model.RecordTypeHazard)
	rows, cols := aggregator.ExpandMulti(locs, types)
	return crossTabChart(aggregator.Pivot(rows, cols)), nil
}

// StatusByLocation 位置 × 状态（全部记录类型）
func (s *Service) StatusByLocation() (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	locs := v.fields(model.FieldLocation, model.AllRecordTypes...)
	status := v.fields(model.FieldStatus, model.AllRecordTypes...)
	return crossTabChart(aggregator.Pivot(locs, status)), nil
}

// Heatmap 位置 × {事件, 隐患}，位置按合计降序
func (s *Service) Heatmap() (model.Heatmap, error) {
	v, err := s.current()
	if err != nil {
		return model.Heatmap{}, err
	}
	labels, data := aggregator.Union(0,
		v.field(model.RecordTypeIncident, model.FieldLocation),
		v.field(model.RecordTypeHazard, model.FieldLocation),
	)
	ct := model.CrossTab{
		RowLabels: labels,
		ColLabels: []string{model.RecordTypeIncident.Label(), model.RecordTypeHazard.Label()},
		Values:    make([][]int, len(labels)),
	}
	for i := range labels {
		ct.Values[i] = []int{data[0][i], data[1][i]}
	}
	return model.NewHeatmap("Incidents and Hazards by Location", ct), nil
}

// RecordMonthly 某类记录按月计数
func (s *Service) RecordMonthly(t model.RecordType) (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	return model.NewChart(t.Label(), aggregator.MonthlyDates(v.dates(t))), nil
}

// RecordQuarterly 某类记录按季度计数
func (s *Service) RecordQuarterly(t model.RecordType) (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	return model.NewChart(t.Label(), aggregator.QuarterlyDates(v.dates(t))), nil
}

// RecordByField 某类记录某字段的频次图
// top<=0 不截断；others 为 true 时其余合并为 Others
func (s *Service) RecordByField(t model.RecordType, f model.Field, top int, others bool) (model.Chart, error) {
	v, err := s.current()
	if err != nil {
		return model.Chart{}, err
	}
	label := t.Label() + " by " + fieldLabel(t, f, v.table(t))
	ct := v.table(t)
	if ct == nil || !ct.HasField(f) {
		return model.EmptyChart(label), nil
	}
	opts := aggregator.Options{TopN: top, CollapseOthers: others}
	if spec, ok := parser.Spec(t); ok {
		if fs, ok := spec.FieldSpec(f); ok {
			opts.Split = fs.Multi
		}
	}
	return model.NewChart(label, aggregator.Frequency(ct.Field(f), opts)), nil
}

// fieldLabel 图例中的字段名：优先用实际匹配到的表头
func fieldLabel(t model.RecordType, f model.Field, ct *model.CanonicalTable) string {
	if ct != nil {
		if src, ok := ct.Sources[f]; ok {
			return src
		}
	}
	if f == model.FieldOwner && t == model.RecordTypeInspection {
		return "Inspector"
	}
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return string(f)
}

var fieldNames = map[model.Field]string{
	model.FieldDate:       "Date",
	model.FieldRiskLevel:  "Risk Level",
	model.FieldLocation:   "Location",
	model.FieldDepartment: "Department",
	model.FieldCategory:   "Type",
	model.FieldStatus:     "Status",
	model.FieldTitle:      "Title",
	model.FieldRootCause:  "Root Cause",
	model.FieldViolation:  "Violation Type",
	model.FieldOwner:      "Auditor",
}

// crossTabChart 交叉表转堆叠图：行 -> labels，每列一个序列
func crossTabChart(ct model.CrossTab) model.Chart {
	chart := model.Chart{
		Labels:   ct.RowLabels,
		Datasets: make([]model.Dataset, len(ct.ColLabels)),
	}
	if chart.Labels == nil {
		chart.Labels = []string{}
	}
	for j, col := range ct.ColLabels {
		data := make([]int, len(ct.RowLabels))
		for i := range ct.RowLabels {
			data[i] = ct.Values[i][j]
		}
		chart.Datasets[j] = model.Dataset{Label: col, Data: data}
	}
	return chart
}
