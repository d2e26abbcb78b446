package exporter

import (
	"reflect"
	"strings"
	"testing"

	"vehs/internal/model"
)

func TestExport_SummaryAndCountSheets(t *testing.T) {
	t.Parallel()

	kb := model.NewKnowledgeBase()
	kb.SetTotal("incidents_total", 3)
	kb.SetCounts("incidents_per_month", map[string]int{"2024-02": 2, "2024-01": 1})
	kb.SetCounts("incidents_by_location", map[string]int{"Plant B": 1, "Plant A": 2, "Plant C": 1})

	f, err := NewExporter("safety.xlsx").Export(kb)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	defer f.Close()

	want := []string{SummarySheet, "incidents_by_location", "incidents_per_month"}
	got := f.GetSheetList()
	if len(got) != 3 || got[0] != SummarySheet {
		t.Fatalf("sheets=%v, want %v (any order after summary)", got, want)
	}

	rows, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if !reflect.DeepEqual(rows[1], []string{"source_file", "safety.xlsx"}) ||
		!reflect.DeepEqual(rows[2], []string{"incidents_total", "3"}) {
		t.Fatalf("summary rows=%v", rows)
	}

	rows, _ = f.GetRows("incidents_by_location")
	wantRows := [][]string{{"Category", "Count"}, {"Plant A", "2"}, {"Plant B", "1"}, {"Plant C", "1"}}
	if !reflect.DeepEqual(rows, wantRows) {
		t.Fatalf("location rows=%v, want %v", rows, wantRows)
	}

	rows, _ = f.GetRows("incidents_per_month")
	wantRows = [][]string{{"Month", "Count"}, {"2024-01", "1"}, {"2024-02", "2"}}
	if !reflect.DeepEqual(rows, wantRows) {
		t.Fatalf("monthly rows=%v, want %v", rows, wantRows)
	}
}

func TestSheetName_TruncatesAndDedupes(t *testing.T) {
	t.Parallel()

	used := map[string]bool{}
	long := strings.Repeat("x", 40)
	a := sheetName(long, used)
	b := sheetName(long, used)
	if len(a) != maxSheetName || len(b) > maxSheetName || a == b {
		t.Fatalf("names=%q %q", a, b)
	}
	if !strings.HasSuffix(b, "~2") {
		t.Fatalf("dedupe suffix missing: %q", b)
	}
}

func TestContentDisposition(t *testing.T) {
	t.Parallel()

	got := ContentDisposition("安全 记录.xlsx")
	want := "attachment; filename=\"insights.xlsx\"; filename*=UTF-8''%E5%AE%89%E5%85%A8%20%E8%AE%B0%E5%BD%95-insights.xlsx"
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}
