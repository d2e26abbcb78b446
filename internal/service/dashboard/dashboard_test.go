package dashboard

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"vehs/internal/insights"
	"vehs/internal/model"
	"vehs/internal/service/store"
)

// newTestService 事件 3 行 + 隐患 3 行，日期为 Excel 序列号
// 45292 = 2024-01-01
func newTestService(t *testing.T) *Service {
	t.Helper()

	wb := model.NewWorkbook()
	wb.AddSheet("Incidents", &model.Table{
		Columns: []string{"Date of Occurrence", "Location (EPCL)", "Incident Type(s)", "Status", "Department"},
		Rows: [][]any{
			{45292.0, "Plant A", "Fire; Spill", "Open", "Ops"},
			{45323.0, "Plant B", "Fire", "Closed", "Ops"},
			{45324.0, "Plant A", "Slip", "Open", "Maint"},
		},
	})
	wb.AddSheet("Hazard ID", &model.Table{
		Columns: []string{"Date Reported", "Location (EPCL)", "Hazard Type", "Risk Level", "Status", "Title", "Root Cause", "Department"},
		Rows: [][]any{
			{45292.0, "Plant A", "Fire", "high", "Open", "Leak", "Wear", "Ops"},
			{45293.0, "plant a", "Noise", "High", "Closed", "Leak", "Wear", "Maint"},
			{45330.0, "Plant C", "Fire", "Low", "Open", "Trip", "Design", "Maint"},
		},
	})

	ms := store.NewMemoryStore()
	ms.Load("safety.xlsx", wb, insights.Options{})
	return NewService(ms)
}

func TestService_NoData(t *testing.T) {
	t.Parallel()

	svc := NewService(store.NewMemoryStore())
	if sum := svc.Summary(); sum.Loaded {
		t.Fatalf("empty store should not be loaded")
	}
	if _, err := svc.EntriesByCategory(); !errors.Is(err, ErrNoData) {
		t.Fatalf("EntriesByCategory err=%v, want ErrNoData", err)
	}
	if _, err := svc.HazardsHeatmap(15, 10); !errors.Is(err, ErrNoData) {
		t.Fatalf("HazardsHeatmap err=%v, want ErrNoData", err)
	}
	if _, err := svc.Answer("total incidents"); !errors.Is(err, ErrNoData) {
		t.Fatalf("Answer err=%v, want ErrNoData", err)
	}
	if _, err := svc.KnowledgeBase(); !errors.Is(err, ErrNoData) {
		t.Fatalf("KnowledgeBase err=%v, want ErrNoData", err)
	}
}

func TestEntriesByCategory(t *testing.T) {
	t.Parallel()

	chart, err := newTestService(t).EntriesByCategory()
	if err != nil {
		t.Fatalf("EntriesByCategory failed: %v", err)
	}
	wantLabels := []string{"Incidents", "Hazards", "Audits", "Audit Findings", "Inspections", "Inspection Findings"}
	if !reflect.DeepEqual(chart.Labels, wantLabels) {
		t.Fatalf("labels=%v, want %v", chart.Labels, wantLabels)
	}
	if !reflect.DeepEqual(chart.Datasets[0].Data, []int{3, 3, 0, 0, 0, 0}) {
		t.Fatalf("data=%v", chart.Datasets[0].Data)
	}
}

func TestIncidentHazardTypes_SplitsMultiValues(t *testing.T) {
	t.Parallel()

	chart, err := newTestService(t).IncidentHazardTypes()
	if err != nil {
		t.Fatalf("IncidentHazardTypes failed: %v", err)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"Fire", "Noise", "Slip", "Spill"}) {
		t.Fatalf("labels=%v", chart.Labels)
	}
	if !reflect.DeepEqual(chart.Datasets[0].Data, []int{4, 1, 1, 1}) {
		t.Fatalf("data=%v", chart.Datasets[0].Data)
	}
}

func TestMonthlyTrends_UnionOfMonths(t *testing.T) {
	t.Parallel()

	chart, err := newTestService(t).MonthlyTrends()
	if err != nil {
		t.Fatalf("MonthlyTrends failed: %v", err)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"2024-01", "2024-02"}) {
		t.Fatalf("labels=%v", chart.Labels)
	}
	if !reflect.DeepEqual(chart.Datasets[0].Data, []int{1, 2}) || !reflect.DeepEqual(chart.Datasets[1].Data, []int{2, 1}) {
		t.Fatalf("datasets=%+v", chart.Datasets)
	}
}

func TestLocationCharts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	entries, err := svc.EntriesByLocation()
	if err != nil {
		t.Fatalf("EntriesByLocation failed: %v", err)
	}
	if !reflect.DeepEqual(entries.Labels, []string{"Plant A", "Plant B", "Plant C"}) {
		t.Fatalf("labels=%v", entries.Labels)
	}
	if !reflect.DeepEqual(entries.Datasets[0].Data, []int{4, 1, 1}) {
		t.Fatalf("data=%v", entries.Datasets[0].Data)
	}

	stacked, err := svc.StackedEntriesByLocation()
	if err != nil {
		t.Fatalf("StackedEntriesByLocation failed: %v", err)
	}
	if len(stacked.Datasets) != 4 || stacked.Datasets[2].Label != "Audits" {
		t.Fatalf("datasets=%+v", stacked.Datasets)
	}
	if !reflect.DeepEqual(stacked.Datasets[2].Data, []int{0, 0, 0}) {
		t.Fatalf("audits should be zero-filled, got %v", stacked.Datasets[2].Data)
	}

	hm, err := svc.Heatmap()
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if !reflect.DeepEqual(hm.XLabels, []string{"Incidents", "Hazards"}) {
		t.Fatalf("x_labels=%v", hm.XLabels)
	}
	want := [][]int{{2, 2}, {1, 0}, {0, 1}}
	if !reflect.DeepEqual(hm.Values, want) || hm.Min != 0 || hm.Max != 2 {
		t.Fatalf("heatmap=%+v", hm)
	}
}

func TestStatusByLocation(t *testing.T) {
	t.Parallel()

	chart, err := newTestService(t).StatusByLocation()
	if err != nil {
		t.Fatalf("StatusByLocation failed: %v", err)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"Plant A", "Plant B", "Plant C"}) {
		t.Fatalf("labels=%v", chart.Labels)
	}
	if chart.Datasets[0].Label != "Open" || !reflect.DeepEqual(chart.Datasets[0].Data, []int{3, 0, 1}) {
		t.Fatalf("open dataset=%+v", chart.Datasets[0])
	}
}

func TestRecordByField(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	chart, err := svc.RecordByField(model.RecordTypeHazard, model.FieldRiskLevel, DefaultFieldTop, true)
	if err != nil {
		t.Fatalf("RecordByField failed: %v", err)
	}
	if chart.Datasets[0].Label != "Hazards by Risk Level" {
		t.Fatalf("label=%q", chart.Datasets[0].Label)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"High", "Low"}) {
		t.Fatalf("labels=%v", chart.Labels)
	}

	top, err := svc.RecordByField(model.RecordTypeIncident, model.FieldCategory, 1, true)
	if err != nil {
		t.Fatalf("RecordByField failed: %v", err)
	}
	if !reflect.DeepEqual(top.Labels, []string{"Fire", "Others"}) || !reflect.DeepEqual(top.Datasets[0].Data, []int{2, 2}) {
		t.Fatalf("top=%+v", top)
	}

	missing, err := svc.RecordByField(model.RecordTypeAudit, model.FieldStatus, DefaultFieldTop, true)
	if err != nil {
		t.Fatalf("RecordByField failed: %v", err)
	}
	if len(missing.Labels) != 0 || missing.Datasets[0].Label != "Audits by Status" {
		t.Fatalf("unresolved type should give an empty chart, got %+v", missing)
	}
}

func TestRecordMonthlyAndQuarterly(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	monthly, err := svc.RecordMonthly(model.RecordTypeIncident)
	if err != nil {
		t.Fatalf("RecordMonthly failed: %v", err)
	}
	if !reflect.DeepEqual(monthly.Labels, []string{"2024-01", "2024-02"}) {
		t.Fatalf("monthly labels=%v", monthly.Labels)
	}
	quarterly, err := svc.RecordQuarterly(model.RecordTypeHazard)
	if err != nil {
		t.Fatalf("RecordQuarterly failed: %v", err)
	}
	if !reflect.DeepEqual(quarterly.Labels, []string{"2024Q1"}) || quarterly.Datasets[0].Data[0] != 3 {
		t.Fatalf("quarterly=%+v", quarterly)
	}
}

func TestHazardsPerMonth_LocationFilter(t *testing.T) {
	t.Parallel()

	chart, err := newTestService(t).HazardsPerMonth("plant a")
	if err != nil {
		t.Fatalf("HazardsPerMonth failed: %v", err)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"2024-01"}) || !reflect.DeepEqual(chart.Datasets[0].Data, []int{2}) {
		t.Fatalf("chart=%+v", chart)
	}
}

func TestHazardsByRiskAndArea(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	risk, err := svc.HazardsByRisk()
	if err != nil {
		t.Fatalf("HazardsByRisk failed: %v", err)
	}
	if !reflect.DeepEqual(risk.Datasets[0].Data, []int{2, 1}) {
		t.Fatalf("risk=%+v", risk)
	}

	area, err := svc.HazardsByArea()
	if err != nil {
		t.Fatalf("HazardsByArea failed: %v", err)
	}
	if area.Datasets[0].Label != "Hazards by Department" {
		t.Fatalf("label=%q", area.Datasets[0].Label)
	}
	if !reflect.DeepEqual(area.Labels, []string{"Maint", "Ops"}) {
		t.Fatalf("labels=%v", area.Labels)
	}
}

func TestHazardsTop(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	chart, err := svc.HazardsTop("Root Cause", 1)
	if err != nil {
		t.Fatalf("HazardsTop failed: %v", err)
	}
	if chart.Datasets[0].Label != "Top Root Cause" {
		t.Fatalf("label=%q", chart.Datasets[0].Label)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"Wear"}) || chart.Datasets[0].Data[0] != 2 {
		t.Fatalf("chart=%+v", chart)
	}
	if _, err := svc.HazardsTop("weather", 5); !errors.Is(err, ErrUnknownRanking) {
		t.Fatalf("err=%v, want ErrUnknownRanking", err)
	}
}

func TestHazardsHeatmap_Restricted(t *testing.T) {
	t.Parallel()

	hm, err := newTestService(t).HazardsHeatmap(1, 1)
	if err != nil {
		t.Fatalf("HazardsHeatmap failed: %v", err)
	}
	if hm.Title != "Heatmap: Location vs Hazard Type" {
		t.Fatalf("title=%q", hm.Title)
	}
	if !reflect.DeepEqual(hm.YLabels, []string{"Plant A"}) || !reflect.DeepEqual(hm.XLabels, []string{"Fire"}) {
		t.Fatalf("labels x=%v y=%v", hm.XLabels, hm.YLabels)
	}
	if !reflect.DeepEqual(hm.Values, [][]int{{1}}) {
		t.Fatalf("values=%v", hm.Values)
	}
}

func TestHazardsStatusTrend(t *testing.T) {
	t.Parallel()

	chart, err := newTestService(t).HazardsStatusTrend()
	if err != nil {
		t.Fatalf("HazardsStatusTrend failed: %v", err)
	}
	if !reflect.DeepEqual(chart.Labels, []string{"2024-01", "2024-02"}) {
		t.Fatalf("labels=%v", chart.Labels)
	}
	if chart.Datasets[0].Label != "Open" || !reflect.DeepEqual(chart.Datasets[0].Data, []int{1, 1}) {
		t.Fatalf("open=%+v", chart.Datasets[0])
	}
	if chart.Datasets[1].Label != "Closed" || !reflect.DeepEqual(chart.Datasets[1].Data, []int{1, 0}) {
		t.Fatalf("closed=%+v", chart.Datasets[1])
	}
}

func TestHazardsInsights(t *testing.T) {
	t.Parallel()

	out, err := newTestService(t).HazardsInsights()
	if err != nil {
		t.Fatalf("HazardsInsights failed: %v", err)
	}
	if out.PerMonth["2024-01"] != 2 || out.PerMonth["2024-02"] != 1 {
		t.Fatalf("per month=%v", out.PerMonth)
	}
	if out.TopTitle["Leak"] != 2 || out.TopRootCause["Wear"] != 2 {
		t.Fatalf("tops title=%v root=%v", out.TopTitle, out.TopRootCause)
	}
	if out.Heatmap["Fire"]["Plant A"] != 1 || out.Heatmap["Fire"]["Plant C"] != 1 || out.Heatmap["Noise"]["Plant C"] != 0 {
		t.Fatalf("heatmap=%v", out.Heatmap)
	}
}

func TestCompareByDepartment(t *testing.T) {
	t.Parallel()

	chart, err := newTestService(t).CompareByDepartment(DefaultCompareTopN)
	if err != nil {
		t.Fatalf("CompareByDepartment failed: %v", err)
	}
	// 合计并列时按标签升序
	if !reflect.DeepEqual(chart.Labels, []string{"Maint", "Ops"}) {
		t.Fatalf("labels=%v", chart.Labels)
	}
	if chart.Datasets[0].Label != "Hazards" || !reflect.DeepEqual(chart.Datasets[0].Data, []int{2, 1}) {
		t.Fatalf("hazards=%+v", chart.Datasets[0])
	}
	if !reflect.DeepEqual(chart.Datasets[1].Data, []int{1, 2}) {
		t.Fatalf("incidents=%+v", chart.Datasets[1])
	}
}

func TestAnswer(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	cases := map[string]string{
		"How many incidents are there?":         "Total Incidents: 3",
		"Total audit findings":                  "Total Audit Findings: 0",
		"total records":                         "Total entries across all categories: 6",
		"What is the top location for hazards?": "Top hazard location: Plant A",
		"Which is the top location?":            "Top location overall: Plant A",
		"Incidents in February 2024?":           "Incidents in the specified period: 2",
		"hazards during 2023":                   "Hazards in the specified period: 0",
	}
	for q, want := range cases {
		got, err := svc.Answer(q)
		if err != nil {
			t.Fatalf("Answer(%q) failed: %v", q, err)
		}
		if got.Answer != want || !got.OK {
			t.Errorf("Answer(%q)=%+v, want %q", q, got, want)
		}
	}

	help, _ := svc.Answer("hello there")
	if help.Answer != HelpText {
		t.Fatalf("fallback should be help text, got %q", help.Answer)
	}
}

func TestParseMonthYear(t *testing.T) {
	t.Parallel()

	if m, y := ParseMonthYear("Hazards in Sept 1999"); m != 9 || y != 1999 {
		t.Fatalf("got %d/%d, want 9/1999", m, y)
	}
	if m, y := ParseMonthYear("give me a summary"); m != 0 || y != 0 {
		t.Fatalf("summary should not match a month, got %d/%d", m, y)
	}
}

func TestChartQuestion(t *testing.T) {
	t.Parallel()

	if q := ChartQuestion("hazards_by_risk", ""); !strings.Contains(q, "risk level") {
		t.Fatalf("question=%q", q)
	}
	if q := ChartQuestion("incident_types", "Incident Types"); !strings.HasSuffix(q, "Incident Types") {
		t.Fatalf("question=%q", q)
	}
	want := "Provide concise, prescriptive insights and recommendations for: Custom Chart."
	if q := ChartQuestion("custom", "Custom Chart"); q != want {
		t.Fatalf("question=%q, want %q", q, want)
	}
}
