package dashboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"vehs/internal/aggregator"
	"vehs/internal/model"
	"vehs/internal/parser"
)

// QAAnswer 规则问答结果
type QAAnswer struct {
	Answer string `json:"answer"`
	OK     bool   `json:"ok"`
}

// HelpText 无法识别问题时的提示
const HelpText = "I can answer questions like: \n" +
	"- Total incidents / hazards / audits / inspections\n" +
	"- Top incident or hazard location\n" +
	"- Incidents or hazards in March 2024 (month/year filters)\n" +
	"If you need something more specific, please rephrase."

var (
	totalsTokens      = []string{"total", "count", "howmany", "numberof", "howmuch"}
	topLocationTokens = []string{
		"toplocation", "tophotspot", "tophot", "mostcommonlocation",
		"toparea", "topline", "tophighestlocation",
	}
)

// totalsOrder 发现项在父记录之前匹配，避免 "audit findings" 被算成 audits
var totalsOrder = []struct {
	t     model.RecordType
	words []string
}{
	{model.RecordTypeAuditFinding, []string{"auditfinding"}},
	{model.RecordTypeInspectionFinding, []string{"inspectionfinding"}},
	{model.RecordTypeIncident, []string{"incident"}},
	{model.RecordTypeHazard, []string{"hazard"}},
	{model.RecordTypeAudit, []string{"audit"}},
	{model.RecordTypeInspection, []string{"inspection"}},
}

var (
	monthRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\b`)
	yearRe  = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseMonthYear 从问题中提取月份与年份；未出现的为 0
func ParseMonthYear(question string) (month, year int) {
	q := strings.ToLower(question)
	if m := monthRe.FindStringSubmatch(q); m != nil {
		month = monthNumbers[m[1]]
	}
	if m := yearRe.FindStringSubmatch(q); m != nil {
		year, _ = strconv.Atoi(m[1])
	}
	return month, year
}

// Answer 基于当前快照的规则问答：总数、最多的位置、按月/年计数，其余返回帮助
func (s *Service) Answer(question string) (QAAnswer, error) {
	v, err := s.current()
	if err != nil {
		return QAAnswer{}, err
	}
	qn := parser.NormalizeKey(question)

	if parser.ContainsAny(qn, totalsTokens) {
		return v.answerTotals(qn), nil
	}
	if parser.ContainsAny(qn, topLocationTokens) {
		return v.answerTopLocation(qn), nil
	}
	if month, year := ParseMonthYear(question); month != 0 || year != 0 {
		if a, ok := v.answerPeriod(qn, month, year); ok {
			return a, nil
		}
	}
	return QAAnswer{Answer: HelpText, OK: true}, nil
}

func (v *view) answerTotals(qn string) QAAnswer {
	for _, c := range totalsOrder {
		if parser.ContainsAny(qn, c.words) {
			return QAAnswer{Answer: fmt.Sprintf("Total %s: %d", c.t.Label(), v.snap.Rows(c.t)), OK: true}
		}
	}
	total := 0
	for _, t := range model.AllRecordTypes {
		total += v.snap.Rows(t)
	}
	return QAAnswer{Answer: fmt.Sprintf("Total entries across all categories: %d", total), OK: true}
}

func (v *view) answerTopLocation(qn string) QAAnswer {
	for _, t := range []model.RecordType{model.RecordTypeIncident, model.RecordTypeHazard} {
		if !strings.Contains(qn, string(t)) {
			continue
		}
		if loc, ok := topLabel(v.field(t, model.FieldLocation)); ok {
			return QAAnswer{Answer: fmt.Sprintf("Top %s location: %s", t, loc), OK: true}
		}
	}
	if loc, ok := topLabel(v.fields(model.FieldLocation, model.AllRecordTypes...)); ok {
		return QAAnswer{Answer: "Top location overall: " + loc, OK: true}
	}
	return QAAnswer{Answer: "Couldn't determine top location.", OK: false}
}

// answerPeriod 按月/年过滤计数；发现项不参与
func (v *view) answerPeriod(qn string, month, year int) (QAAnswer, bool) {
	finding := strings.Contains(qn, "finding")
	for _, t := range []model.RecordType{
		model.RecordTypeIncident, model.RecordTypeHazard,
		model.RecordTypeAudit, model.RecordTypeInspection,
	} {
		if !strings.Contains(qn, string(t)) {
			continue
		}
		if finding && (t == model.RecordTypeAudit || t == model.RecordTypeInspection) {
			continue
		}
		n := countInPeriod(v.dates(t), month, year)
		return QAAnswer{Answer: fmt.Sprintf("%s in the specified period: %d", t.Label(), n), OK: true}, true
	}
	return QAAnswer{}, false
}

func countInPeriod(dates []model.DateValue, month, year int) int {
	n := 0
	for _, d := range dates {
		if !d.Valid {
			continue
		}
		if month != 0 && int(d.Time.Month()) != month {
			continue
		}
		if year != 0 && d.Time.Year() != year {
			continue
		}
		n++
	}
	return n
}

func topLabel(values []string) (string, bool) {
	f := aggregator.Frequency(values, aggregator.Options{TopN: 1})
	if len(f) == 0 {
		return "", false
	}
	return f[0].Label, true
}

// chartQuestions 图表 key -> 意图明确的提问，便于挑选相关知识库条目
var chartQuestions = map[string]string{
	"entries_by_category":         "Overall distribution across incidents, hazards, audits, inspections. Call out imbalances and prescribe actions.",
	"incident_hazard_types":       "Compare incidents and hazards by type; highlight dominant categories and give targeted recommendations.",
	"hazards_monthly":             "Hazard monthly trend: peaks, recent movement, seasonal patterns; give preventive recommendations.",
	"hazards_by_location":         "Hazard hotspots by location; identify top areas and propose mitigations and follow-ups.",
	"hazards_by_risk":             "Hazards by risk level; emphasize high-risk shares and prescribe controls and escalation.",
	"hazards_by_area":             "Hazards by area/department; call out problem areas and recommend targeted interventions.",
	"hazards_heatmap":             "Hazard heatmap (location × type): identify concentrated combinations and suggest focused countermeasures.",
	"hazards_vs_incidents_dept":   "Compare hazards vs incidents by department; note gaps and recommend actions per department.",
	"monthly_trends":              "Incidents and hazards monthly trends together; discuss peaks and trend direction; suggest preventive actions.",
	"entries_by_location":         "All entries by location overall; highlight top sites and propose resource allocation.",
	"stacked_entries_by_location": "Location analysis stacked across categories (incidents, hazards, audits, inspections); recommend location-specific plans.",
	"types_by_location":           "Types by location grouped; identify notable pairings and give localized recommendations.",
	"proportion_by_location":      "Proportion analysis by location; call out high shares and propose balancing actions.",
	"status_by_location":          "Status distribution by location for audits/inspections; identify stuck statuses and recommend next steps.",
	"heatmap":                     "Incidents and hazards by location heatmap; highlight top clusters and advise interventions.",
}

// ChartQuestion 由图表 key 生成提问；hint 为图表标题，未知 key 时用它兜底
func ChartQuestion(chartKey, hint string) string {
	key := strings.ToLower(strings.TrimSpace(chartKey))
	name := hint
	if name == "" {
		name = chartKey
	}
	switch key {
	case "incidents_types", "incident_types":
		return "Provide insights on incident types distribution, top categories, trends, and actionable recommendations. " + name
	case "incidents_top_locations", "entries_by_location_incidents":
		return "Incident hotspots by location: which areas show the highest counts and what actions should be prioritized? " + name
	}
	if q, ok := chartQuestions[key]; ok {
		return q
	}
	return fmt.Sprintf("Provide concise, prescriptive insights and recommendations for: %s.", name)
}
