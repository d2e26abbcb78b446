package model

// RecordType 安全记录类型
type RecordType string

const (
	RecordTypeIncident          RecordType = "incident"
	RecordTypeHazard            RecordType = "hazard"
	RecordTypeAudit             RecordType = "audit"
	RecordTypeAuditFinding      RecordType = "audit_finding"
	RecordTypeInspection        RecordType = "inspection"
	RecordTypeInspectionFinding RecordType = "inspection_finding"
)

// AllRecordTypes 固定顺序的全部记录类型
var AllRecordTypes = []RecordType{
	RecordTypeIncident,
	RecordTypeHazard,
	RecordTypeAudit,
	RecordTypeAuditFinding,
	RecordTypeInspection,
	RecordTypeInspectionFinding,
}

// KeyPrefix 知识库 key 前缀，如 hazards / audit_findings
func (t RecordType) KeyPrefix() string {
	switch t {
	case RecordTypeIncident:
		return "incidents"
	case RecordTypeHazard:
		return "hazards"
	case RecordTypeAudit:
		return "audits"
	case RecordTypeAuditFinding:
		return "audit_findings"
	case RecordTypeInspection:
		return "inspections"
	case RecordTypeInspectionFinding:
		return "inspection_findings"
	}
	return string(t)
}

// Label 图表展示名
func (t RecordType) Label() string {
	switch t {
	case RecordTypeIncident:
		return "Incidents"
	case RecordTypeHazard:
		return "Hazards"
	case RecordTypeAudit:
		return "Audits"
	case RecordTypeAuditFinding:
		return "Audit Findings"
	case RecordTypeInspection:
		return "Inspections"
	case RecordTypeInspectionFinding:
		return "Inspection Findings"
	}
	return string(t)
}

// Parent 发现项对应的父记录类型（审计发现 -> 审计）
func (t RecordType) Parent() (RecordType, bool) {
	switch t {
	case RecordTypeAuditFinding:
		return RecordTypeAudit, true
	case RecordTypeInspectionFinding:
		return RecordTypeInspection, true
	}
	return "", false
}

// ParseRecordType 解析 URL 中的记录类型，兼容复数与连字符写法
func ParseRecordType(s string) (RecordType, bool) {
	switch s {
	case "incident", "incidents":
		return RecordTypeIncident, true
	case "hazard", "hazards":
		return RecordTypeHazard, true
	case "audit", "audits":
		return RecordTypeAudit, true
	case "audit_finding", "audit_findings", "audit-finding", "audit-findings":
		return RecordTypeAuditFinding, true
	case "inspection", "inspections":
		return RecordTypeInspection, true
	case "inspection_finding", "inspection_findings", "inspection-finding", "inspection-findings":
		return RecordTypeInspectionFinding, true
	}
	return "", false
}

// Field 规范语义字段
type Field string

const (
	FieldDate       Field = "date"
	FieldRiskLevel  Field = "risk_level"
	FieldLocation   Field = "location"
	FieldDepartment Field = "department"
	FieldCategory   Field = "category"
	FieldStatus     Field = "status"
	FieldTitle      Field = "title"
	FieldRootCause  Field = "root_cause"
	FieldViolation  Field = "violation"
	FieldOwner      Field = "owner" // 审计员 / 检查员
)

// CategoricalFields 全部分类型字段（不含日期）
var CategoricalFields = []Field{
	FieldRiskLevel,
	FieldLocation,
	FieldDepartment,
	FieldCategory,
	FieldStatus,
	FieldTitle,
	FieldRootCause,
	FieldViolation,
	FieldOwner,
}

// ParseField 解析字段名，同时接受知识库维度别名
func ParseField(s string) (Field, bool) {
	switch s {
	case "date":
		return FieldDate, true
	case "risk_level", "risk", "severity":
		return FieldRiskLevel, true
	case "location", "area":
		return FieldLocation, true
	case "department", "line", "section":
		return FieldDepartment, true
	case "category", "type":
		return FieldCategory, true
	case "status":
		return FieldStatus, true
	case "title":
		return FieldTitle, true
	case "root_cause":
		return FieldRootCause, true
	case "violation":
		return FieldViolation, true
	case "owner", "auditor", "inspector":
		return FieldOwner, true
	}
	return "", false
}
