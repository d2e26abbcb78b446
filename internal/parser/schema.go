package parser

import "vehs/internal/model"

// FieldSpec 一个规范字段的列匹配规则
type FieldSpec struct {
	Field     model.Field
	Headers   []string // 按优先级排列的表头同义词
	Dimension string   // 知识库维度名；空表示不进入知识库
	Multi     bool     // 单元格内以 "; " 分隔多个值
	TitleCase bool

	// Alias 命中特定表头时改用的维度名，如 Line -> line
	Alias map[string]string
}

// DimensionFor 根据命中的表头给出维度名；忽略大小写与空白
func (f FieldSpec) DimensionFor(header string) string {
	key := headerKey(header)
	for h, d := range f.Alias {
		if headerKey(h) == key {
			return d
		}
	}
	return f.Dimension
}

// RecordSpec 一种记录类型的声明式解析规则
type RecordSpec struct {
	Type   model.RecordType
	Sheets []string
	Fields []FieldSpec
}

// FieldSpec 查找字段规则
func (r RecordSpec) FieldSpec(f model.Field) (FieldSpec, bool) {
	for _, fs := range r.Fields {
		if fs.Field == f {
			return fs, true
		}
	}
	return FieldSpec{}, false
}

// MultiValueSeparator 多值单元格分隔符
const MultiValueSeparator = "; "

var locationHeaders = []string{"Location (EPCL)", "Location", "Specific Location of Occurrence", "Area"}

var lineAlias = map[string]string{"Line": "line"}

var rootCauseHeaders = []string{
	"Root Cause", "Immediate Cause", "Basic Cause", "Cause", "Probable Cause",
	"Root Cause Category", "Contributing Factors", "Cause Category",
}

var recordSpecs = []RecordSpec{
	{
		Type:   model.RecordTypeIncident,
		Sheets: []string{"Incident", "Incidents", "Incident Log"},
		Fields: []FieldSpec{
			{Field: model.FieldDate, Headers: []string{
				"Date of Occurrence", "Incident Date", "Date Reported", "Report Date",
				"Occurrence Date", "Date", "Created Date",
			}},
			{Field: model.FieldLocation, Dimension: "location", Headers: locationHeaders},
			{Field: model.FieldDepartment, Dimension: "department", Alias: lineAlias,
				Headers: []string{"Line", "Department", "Section"}},
			{Field: model.FieldCategory, Dimension: "type", Multi: true, Headers: []string{
				"Incident Type(s)", "Type of Incident", "Incident Type", "Classification", "Type",
			}},
			{Field: model.FieldRiskLevel, Dimension: "risk", TitleCase: true, Headers: []string{
				"Risk Level", "Severity", "Injury Potential", "Injury Classification",
				"Actual Consequence (Incident)", "Relevant Consequence (Incident)",
			}},
			{Field: model.FieldStatus, Dimension: "status", TitleCase: true, Headers: []string{
				"Status", "Incident Status", "Case Status", "Current Status",
			}},
			{Field: model.FieldTitle, Headers: []string{
				"Title", "Incident Title", "Short Description", "Summary", "Description",
			}},
			{Field: model.FieldRootCause, Dimension: "root_cause", Headers: rootCauseHeaders},
			{Field: model.FieldViolation, Dimension: "violation", Headers: []string{
				"Violation Type (Incident)", "Violation Type",
			}},
		},
	},
	{
		Type:   model.RecordTypeHazard,
		Sheets: []string{"Hazard ID", "Hazards", "Hazard Log"},
		Fields: []FieldSpec{
			{Field: model.FieldDate, Headers: []string{
				"Date Reported", "Date of Occurrence", "Hazard Date", "Report Date",
				"Date", "Occurrence Date", "Created Date",
			}},
			{Field: model.FieldLocation, Dimension: "location", Headers: locationHeaders},
			{Field: model.FieldDepartment, Dimension: "department", Alias: lineAlias,
				Headers: []string{"Line", "Department", "Section"}},
			{Field: model.FieldCategory, Dimension: "type", Multi: true, Headers: []string{
				"Incident Type(s)", "Hazard Type", "Hazard Category", "Classification",
				"Type", "Type of Incident",
			}},
			{Field: model.FieldRiskLevel, Dimension: "risk", TitleCase: true, Headers: []string{
				"Risk Level", "Worst Case Consequence Potential (Hazard ID)",
				"Relevant Consequence (Hazard ID)", "Injury Classification", "Injury Potential",
				"Risk", "Risk Category", "Risk Ranking", "Risk Rating", "Risk Index",
				"Initial Risk", "Residual Risk", "Severity", "Severity Level",
			}},
			{Field: model.FieldStatus, Dimension: "status", TitleCase: true, Headers: []string{
				"Status", "Hazard Status", "Case Status", "Current Status", "Audit Status",
			}},
			{Field: model.FieldTitle, Headers: []string{
				"Title", "Hazard Title", "Short Description", "Summary", "Description",
			}},
			{Field: model.FieldRootCause, Dimension: "root_cause", Headers: rootCauseHeaders},
			{Field: model.FieldViolation, Dimension: "violation", Headers: []string{
				"Violation Type (Hazard ID)", "Violation Type (Incident)", "Violation Type",
				"HSE Site Rules Category",
			}},
		},
	},
	{
		Type:   model.RecordTypeAudit,
		Sheets: []string{"Audit", "Audits"},
		Fields: []FieldSpec{
			{Field: model.FieldDate, Headers: []string{
				"Start Date", "Audit Date", "Date", "End Date", "Created Date",
			}},
			{Field: model.FieldDepartment, Dimension: "department", Headers: []string{"Department", "Section"}},
			{Field: model.FieldLocation, Dimension: "location", Headers: []string{"Location (EPCL)", "Location", "Area"}},
			{Field: model.FieldStatus, Dimension: "status", TitleCase: true, Headers: []string{"Audit Status", "Status"}},
			{Field: model.FieldTitle, Headers: []string{"Audit Title", "Title"}},
			{Field: model.FieldOwner, Dimension: "auditor", Headers: []string{"Auditor", "Lead Auditor", "Auditor Name"}},
			{Field: model.FieldCategory, Dimension: "type", Headers: []string{"Audit Type", "Audit Category", "Type"}},
		},
	},
	{
		Type:   model.RecordTypeAuditFinding,
		Sheets: []string{"Audit Findings", "Audit Finding", "Findings (Audit)"},
		Fields: []FieldSpec{
			{Field: model.FieldDate, Headers: []string{"Finding Date", "Date", "Created Date"}},
			{Field: model.FieldRiskLevel, Dimension: "severity", TitleCase: true, Headers: []string{
				"Severity", "Severity Level", "Finding Severity", "Risk Level",
			}},
			{Field: model.FieldStatus, Dimension: "status", TitleCase: true, Headers: []string{"Status", "Finding Status"}},
			{Field: model.FieldTitle, Headers: []string{"Audit Title", "Title"}},
			{Field: model.FieldCategory, Dimension: "type", Headers: []string{"Finding Type", "Category", "Type"}},
		},
	},
	{
		Type:   model.RecordTypeInspection,
		Sheets: []string{"Inspection", "Inspections"},
		Fields: []FieldSpec{
			{Field: model.FieldDate, Headers: []string{
				"Start Date", "Inspection Date", "Date", "End Date", "Created Date",
			}},
			{Field: model.FieldLocation, Dimension: "area", Headers: []string{"Area", "Location (EPCL)", "Location"}},
			{Field: model.FieldDepartment, Dimension: "department", Headers: []string{"Department", "Section"}},
			{Field: model.FieldStatus, Dimension: "status", TitleCase: true, Headers: []string{"Inspection Status", "Status"}},
			{Field: model.FieldTitle, Headers: []string{"Inspection Title", "Title"}},
			{Field: model.FieldOwner, Dimension: "inspector", Headers: []string{"Inspector", "Lead Inspector", "Inspector Name"}},
			{Field: model.FieldCategory, Dimension: "type", Headers: []string{"Inspection Type", "Type"}},
		},
	},
	{
		Type:   model.RecordTypeInspectionFinding,
		Sheets: []string{"Inspection Findings", "Inspection Finding", "Findings (Inspection)"},
		Fields: []FieldSpec{
			{Field: model.FieldDate, Headers: []string{"Finding Date", "Date", "Created Date"}},
			{Field: model.FieldRiskLevel, Dimension: "severity", TitleCase: true, Headers: []string{
				"Severity", "Severity Level", "Finding Severity", "Risk Level",
			}},
			{Field: model.FieldStatus, Dimension: "status", TitleCase: true, Headers: []string{"Status", "Finding Status"}},
			{Field: model.FieldTitle, Headers: []string{"Inspection Title", "Title"}},
			{Field: model.FieldCategory, Dimension: "type", Headers: []string{"Finding Type", "Issue", "Category", "Type"}},
		},
	},
}

// Spec 返回记录类型的解析规则
func Spec(t model.RecordType) (RecordSpec, bool) {
	for _, s := range recordSpecs {
		if s.Type == t {
			return s, true
		}
	}
	return RecordSpec{}, false
}
