package query

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"valid date", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not-a-date", time.Time{}, false},
		{"wrong layout", "15/03/2026", time.Time{}, false},
		{"impossible day", "2026-02-30", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, expected %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("date = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		value bool
		ok    bool
	}{
		{"on", true, true},
		{"1", true, true},
		{"true", true, true},
		{"yes", true, true},
		{"TRUE", true, true},
		{"0", false, true},
		{"false", false, true},
		{"no", false, true},
		{"", false, false},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		value, ok := ParseBool(tt.input)
		if value != tt.value || ok != tt.ok {
			t.Errorf("ParseBool(%q) = (%v, %v), expected (%v, %v)", tt.input, value, ok, tt.value, tt.ok)
		}
	}
}

func TestParseUintList(t *testing.T) {
	got := ParseUintList([]string{"1", "x", "3", "", "-2", "42"})
	want := []uint{1, 3, 42}

	if len(got) != len(want) {
		t.Fatalf("got %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, expected %v", got, want)
			break
		}
	}
}

func TestParsePriorities(t *testing.T) {
	got := parsePriorities([]string{"1", "4", "9", "junk", "2"})
	if len(got) != 3 {
		t.Fatalf("got %v, expected 3 valid priorities", got)
	}
}

func TestWorkerFilterParams(t *testing.T) {
	empty := (&WorkerFilterParams{}).Filters()
	if len(empty) != 0 {
		t.Errorf("empty params should yield no filters, got %d", len(empty))
	}

	both := (&WorkerFilterParams{UsernameContains: "ali", Email: "a@b.c"}).Filters()
	if len(both) != 2 {
		t.Errorf("expected 2 filters, got %d", len(both))
	}
}

func TestNameFilterParams(t *testing.T) {
	if got := (&NameFilterParams{}).Filters("teams.name"); got != nil {
		t.Errorf("empty name should yield no filters, got %v", got)
	}
	if got := (&NameFilterParams{Name: "Core"}).Filters("teams.name"); len(got) != 1 {
		t.Errorf("expected 1 filter, got %d", len(got))
	}
}
