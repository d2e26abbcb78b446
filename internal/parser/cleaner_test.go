package parser

import (
	"reflect"
	"testing"
	"time"
)

func TestClean_DropsPlaceholders(t *testing.T) {
	t.Parallel()

	got := Clean([]string{" North ", "", "NaN", "n/a", "NULL", "—", "-", "None", "NaT", "na", "South"})
	want := []string{"North", "South"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clean=%v, want %v", got, want)
	}
}

func TestClean_Idempotent(t *testing.T) {
	t.Parallel()

	in := []string{"  a", "b  ", "nan", "", " - ", "Open", "open", "N/A "}
	once := Clean(in)
	twice := Clean(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Clean not idempotent: %v vs %v", once, twice)
	}
}

func TestCellString(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"":           nil,
		"12":         12.0,
		"12.5":       12.5,
		"7":          7,
		"True":       true,
		"2024-01-19": time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC),
		"text":       "text",
	}
	for want, in := range cases {
		if got := CellString(in); got != want {
			t.Fatalf("CellString(%v)=%q, want %q", in, got, want)
		}
	}
}

func TestSplitMulti(t *testing.T) {
	t.Parallel()

	got := SplitMulti([]string{"Slip; Fall", "Fire", "", "nan; Spill"})
	want := []string{"Slip", "Fall", "Fire", "Spill"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitMulti=%v, want %v", got, want)
	}
}
