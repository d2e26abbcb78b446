package parser_test

import (
	"reflect"
	"testing"
	"time"

	"vehs/internal/model"
	"vehs/internal/parser"
)

func TestCanonicalize_HazardLogDates(t *testing.T) {
	t.Parallel()

	wb := model.NewWorkbook()
	wb.AddSheet("Hazard Log", &model.Table{
		Columns: []string{"Hazard Date", "Status"},
		Rows: [][]any{
			{"2024-01-15", "open"},
			{45310.0, "CLOSED"},
			{"not a date", "nan"},
		},
	})

	table, name, ok := parser.ResolveRecord(wb, model.RecordTypeHazard)
	if !ok || name != "Hazard Log" {
		t.Fatalf("resolve=%q %v", name, ok)
	}
	ct := parser.Canonicalize(table, model.RecordTypeHazard)

	if ct.Sources[model.FieldDate] != "Hazard Date" {
		t.Fatalf("date source=%q, want Hazard Date", ct.Sources[model.FieldDate])
	}
	if ct.DatedCount() != 2 {
		t.Fatalf("dated=%d, want 2", ct.DatedCount())
	}
	if !ct.Dates[1].Time.Equal(time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("serial date=%v", ct.Dates[1].Time)
	}
	if got := ct.Field(model.FieldStatus); !reflect.DeepEqual(got, []string{"Open", "Closed", "nan"}) {
		t.Fatalf("status=%v", got)
	}
}

func TestCanonicalize_MissingFieldsBlankFilled(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Columns: []string{"Whatever"},
		Rows:    [][]any{{"x"}, {"y"}},
	}
	ct := parser.Canonicalize(table, model.RecordTypeIncident)
	for _, f := range model.CategoricalFields {
		col := ct.Field(f)
		if len(col) != 2 {
			t.Fatalf("field %s len=%d, want 2", f, len(col))
		}
		if ct.HasField(f) {
			t.Fatalf("field %s should have no source", f)
		}
	}
	if len(ct.Dates) != 2 || ct.DatedCount() != 0 {
		t.Fatalf("dates=%v, want 2 invalid", ct.Dates)
	}
	if len(table.Columns) != 1 {
		t.Fatalf("source table mutated")
	}
}

func TestCanonicalize_SynonymPriorityAndLooseMatch(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Columns: []string{"location", "Location (EPCL)", "risk  level", "Line"},
		Rows:    [][]any{{"Yard", "Plant A", "high", "L1"}},
	}
	ct := parser.Canonicalize(table, model.RecordTypeIncident)

	if ct.Sources[model.FieldLocation] != "Location (EPCL)" {
		t.Fatalf("location source=%q, want exact synonym first", ct.Sources[model.FieldLocation])
	}
	if ct.Sources[model.FieldRiskLevel] != "risk  level" {
		t.Fatalf("risk source=%q", ct.Sources[model.FieldRiskLevel])
	}
	if got := ct.Field(model.FieldRiskLevel)[0]; got != "High" {
		t.Fatalf("risk=%q, want High", got)
	}

	spec, _ := parser.Spec(model.RecordTypeIncident)
	fs, _ := spec.FieldSpec(model.FieldDepartment)
	if d := fs.DimensionFor(ct.Sources[model.FieldDepartment]); d != "line" {
		t.Fatalf("dimension=%q, want line", d)
	}
}

func TestCanonicalize_LooseLineHeaderKeepsDimension(t *testing.T) {
	t.Parallel()

	table := &model.Table{Columns: []string{"LINE"}, Rows: [][]any{{"L1"}}}
	ct := parser.Canonicalize(table, model.RecordTypeIncident)

	if ct.Sources[model.FieldDepartment] != "LINE" {
		t.Fatalf("department source=%q, want LINE", ct.Sources[model.FieldDepartment])
	}
	if ct.Matched[model.FieldDepartment] != "Line" {
		t.Fatalf("matched=%q, want Line", ct.Matched[model.FieldDepartment])
	}
	spec, _ := parser.Spec(model.RecordTypeIncident)
	fs, _ := spec.FieldSpec(model.FieldDepartment)
	if d := fs.DimensionFor(ct.Matched[model.FieldDepartment]); d != "line" {
		t.Fatalf("dimension=%q, want line", d)
	}
	if d := fs.DimensionFor("Department"); d != "department" {
		t.Fatalf("dimension=%q, want department", d)
	}
}

func TestCanonicalize_DateFallbackColumn(t *testing.T) {
	t.Parallel()

	table := &model.Table{
		Columns: []string{"Date", "Closure Date"},
		Rows:    [][]any{{"tbd", "2024-03-01"}, {"", 45383}},
	}
	ct := parser.Canonicalize(table, model.RecordTypeAudit)
	if ct.Sources[model.FieldDate] != "Closure Date" {
		t.Fatalf("date source=%q, want Closure Date", ct.Sources[model.FieldDate])
	}
	if ct.DatedCount() != 2 {
		t.Fatalf("dated=%d, want 2", ct.DatedCount())
	}
}

func TestCanonicalize_UnknownType(t *testing.T) {
	t.Parallel()

	ct := parser.Canonicalize(&model.Table{Columns: []string{"Status"}, Rows: [][]any{{"Open"}}}, "unknown")
	if ct.Len() != 1 || ct.HasField(model.FieldStatus) {
		t.Fatalf("unknown type should derive nothing")
	}
	if ct := parser.Canonicalize(nil, model.RecordTypeHazard); ct.Len() != 0 {
		t.Fatalf("nil table should give empty result")
	}
}

func TestMapParentDates(t *testing.T) {
	t.Parallel()

	audits := parser.Canonicalize(&model.Table{
		Columns: []string{"Audit Title", "Start Date"},
		Rows:    [][]any{{"Fire Safety", "2024-02-10"}, {"PPE", "bad"}},
	}, model.RecordTypeAudit)
	findings := parser.Canonicalize(&model.Table{
		Columns: []string{"Audit Title", "Severity"},
		Rows:    [][]any{{"Fire Safety", "High"}, {"PPE", "Low"}, {"Unknown", "Low"}},
	}, model.RecordTypeAuditFinding)

	dates := parser.MapParentDates(findings, audits)
	if len(dates) != 3 || !dates[0].Valid || dates[1].Valid || dates[2].Valid {
		t.Fatalf("dates=%v", dates)
	}
	if dates[0].Time.Month() != time.February {
		t.Fatalf("month=%v, want February", dates[0].Time.Month())
	}

	eff := parser.EffectiveDates(findings, map[model.RecordType]*model.CanonicalTable{model.RecordTypeAudit: audits})
	if !reflect.DeepEqual(eff, dates) {
		t.Fatalf("EffectiveDates=%v, want parent mapping", eff)
	}
}

func TestCanonicalizeWorkbook_MissingTypes(t *testing.T) {
	t.Parallel()

	wb := model.NewWorkbook()
	wb.AddSheet("Hazard ID", &model.Table{Columns: []string{"Risk Level"}, Rows: [][]any{{"High"}, {"Low"}}})
	wb.AddSheet("Notes", &model.Table{Columns: []string{"x"}})

	tables, res := parser.CanonicalizeWorkbook(wb)
	if _, ok := tables[model.RecordTypeIncident]; ok {
		t.Fatalf("incident should be missing")
	}
	if ct := tables[model.RecordTypeHazard]; ct == nil || ct.Len() != 2 || ct.SheetName != "Hazard ID" {
		t.Fatalf("hazard table=%+v", ct)
	}
	if len(res.Resolved) != 1 || !res.Resolved[0].Exact {
		t.Fatalf("resolved=%+v", res.Resolved)
	}
	if len(res.MissingTypes) != 5 {
		t.Fatalf("missing=%v, want 5 types", res.MissingTypes)
	}
	if !reflect.DeepEqual(res.UnusedSheets, []string{"Notes"}) {
		t.Fatalf("unused=%v", res.UnusedSheets)
	}
}
