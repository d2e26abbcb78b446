package parser_test

import (
	"testing"

	"vehs/internal/model"
	"vehs/internal/parser"
)

func workbook(names ...string) *model.Workbook {
	wb := model.NewWorkbook()
	for _, n := range names {
		wb.AddSheet(n, &model.Table{Columns: []string{"A"}, Rows: [][]any{{n}}})
	}
	return wb
}

func TestResolveSheet_ExactBeatsSubstring(t *testing.T) {
	t.Parallel()

	wb := workbook("Incident Summary", "incidents")
	_, name, ok := parser.ResolveSheet(wb, "Incident", "Incidents")
	if !ok || name != "incidents" {
		t.Fatalf("name=%q ok=%v, want incidents", name, ok)
	}
}

func TestResolveSheet_SubstringInWorkbookOrder(t *testing.T) {
	t.Parallel()

	wb := workbook("Old Hazard Log 2023", "Hazard Log Current")
	table, name, ok := parser.ResolveSheet(wb, "Hazard ID", "Hazards", "Hazard Log")
	if !ok || name != "Old Hazard Log 2023" {
		t.Fatalf("name=%q ok=%v, want first sheet in workbook order", name, ok)
	}
	if table == nil || table.Len() != 1 {
		t.Fatalf("table not returned")
	}
}

func TestResolveSheet_NormalizesWidthAndPunctuation(t *testing.T) {
	t.Parallel()

	wb := workbook("ＨＡＺＡＲＤ－ＩＤ")
	if _, name, ok := parser.ResolveSheet(wb, "Hazard ID"); !ok || name != "ＨＡＺＡＲＤ－ＩＤ" {
		t.Fatalf("full-width sheet not matched: %q %v", name, ok)
	}
}

func TestResolveSheet_Absent(t *testing.T) {
	t.Parallel()

	if _, _, ok := parser.ResolveSheet(nil, "Incident"); ok {
		t.Fatalf("nil workbook should not match")
	}
	wb := workbook("Audit")
	if _, _, ok := parser.ResolveSheet(wb, "", "  ", "--"); ok {
		t.Fatalf("empty candidate keys should never match")
	}
	if _, _, ok := parser.ResolveSheet(wb, "Incident"); ok {
		t.Fatalf("unexpected match")
	}
}

func TestResolveRecord_UsesSheetSynonyms(t *testing.T) {
	t.Parallel()

	wb := workbook("Audit Findings", "Audits")
	if _, name, ok := parser.ResolveRecord(wb, model.RecordTypeAudit); !ok || name != "Audits" {
		t.Fatalf("audit resolved to %q", name)
	}
	if _, name, ok := parser.ResolveRecord(wb, model.RecordTypeAuditFinding); !ok || name != "Audit Findings" {
		t.Fatalf("audit findings resolved to %q", name)
	}
	if _, _, ok := parser.ResolveRecord(wb, model.RecordType("unknown")); ok {
		t.Fatalf("unknown type should not resolve")
	}
}
