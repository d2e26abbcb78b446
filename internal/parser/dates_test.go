package parser

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDates_MixedSerialAndText(t *testing.T) {
	t.Parallel()

	got := NormalizeDates([]any{"2024-01-15", 45310.0, "not a date"})
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	if !got[0].Valid || !got[0].Time.Equal(day(2024, time.January, 15)) {
		t.Fatalf("got[0]=%v, want 2024-01-15", got[0])
	}
	if !got[1].Valid || !got[1].Time.Equal(day(2024, time.January, 19)) {
		t.Fatalf("got[1]=%v, want 2024-01-19", got[1])
	}
	if got[2].Valid {
		t.Fatalf("got[2]=%v, want invalid", got[2])
	}
}

func TestNormalizeDates_NumericStringIsSerial(t *testing.T) {
	t.Parallel()

	got := NormalizeDates([]any{"45310", 45292, "20240101"})
	if !got[0].Valid || !got[0].Time.Equal(day(2024, time.January, 19)) {
		t.Fatalf("\"45310\"=%v, want 2024-01-19", got[0])
	}
	if !got[1].Valid || !got[1].Time.Equal(day(2024, time.January, 1)) {
		t.Fatalf("45292=%v, want 2024-01-01", got[1])
	}
	// 按序列号解读超出年份范围，不会被当作 2024-01-01
	if got[2].Valid {
		t.Fatalf("\"20240101\"=%v, want invalid", got[2])
	}
}

func TestNormalizeDates_DayFirstRetry(t *testing.T) {
	t.Parallel()

	got := NormalizeDates([]any{"13/01/2024", "25/12/2023", ""})
	if !got[0].Valid || !got[0].Time.Equal(day(2024, time.January, 13)) {
		t.Fatalf("got[0]=%v, want 2024-01-13", got[0])
	}
	if !got[1].Valid || !got[1].Time.Equal(day(2023, time.December, 25)) {
		t.Fatalf("got[1]=%v, want 2023-12-25", got[1])
	}
	if got[2].Valid {
		t.Fatalf("blank should be invalid")
	}
}

func TestNormalizeDates_MonthFirstWhenAnyResolves(t *testing.T) {
	t.Parallel()

	// 第一个值能按月在前解析，不触发日在前重试
	got := NormalizeDates([]any{"01/02/2024", "13/01/2024"})
	if !got[0].Valid || !got[0].Time.Equal(day(2024, time.January, 2)) {
		t.Fatalf("got[0]=%v, want 2024-01-02", got[0])
	}
	if got[1].Valid {
		t.Fatalf("got[1]=%v, want invalid", got[1])
	}
}

func TestNormalizeDates_OddInputs(t *testing.T) {
	t.Parallel()

	ts := day(2023, time.March, 5)
	got := NormalizeDates([]any{nil, true, ts, time.Time{}, []byte("x"), "NaN", 1e12})
	if got[2].Valid != true || !got[2].Time.Equal(ts) {
		t.Fatalf("time.Time should pass through, got %v", got[2])
	}
	for _, i := range []int{0, 1, 3, 4, 5, 6} {
		if got[i].Valid {
			t.Fatalf("got[%d]=%v, want invalid", i, got[i])
		}
	}
	if len(NormalizeDates(nil)) != 0 {
		t.Fatalf("nil input should give empty output")
	}
}

func TestSerialRoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []float64{1, 60, 61, 25569, 36526, 45292, 45310, 2958465, -693593} {
		tm, ok := SerialToTime(n)
		if !ok {
			t.Fatalf("SerialToTime(%v) not ok", n)
		}
		if back := TimeToSerial(tm); back != n {
			t.Fatalf("round trip %v -> %v -> %v", n, tm, back)
		}
	}
}

func TestSerialToTime_FractionAndRange(t *testing.T) {
	t.Parallel()

	tm, ok := SerialToTime(45310.5)
	if !ok || !tm.Equal(time.Date(2024, time.January, 19, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("45310.5=%v, want 2024-01-19 12:00", tm)
	}
	if _, ok := SerialToTime(2958466); ok {
		t.Fatalf("serial past 9999-12-31 should be invalid")
	}
	if _, ok := SerialToTime(-693594); ok {
		t.Fatalf("serial before 0001-01-01 should be invalid")
	}
}
