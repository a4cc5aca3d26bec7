package usage

import (
	"testing"
	"time"
)

func TestFormatISODate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			"PlainDate",
			time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC),
			"2024-06-05",
		},
		{
			"ZeroPadded",
			time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
			"2024-01-09",
		},
		{
			// A local zone far behind UTC must not shift the day: the
			// local calendar day is what gets rendered.
			"NonUTCZone",
			time.Date(2024, 6, 1, 23, 30, 0, 0, time.FixedZone("behind", -10*3600)),
			"2024-06-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatISODate(tt.in); got != tt.want {
				t.Errorf("FormatISODate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate("2024-06-05")
	if err != nil {
		t.Fatalf("ParseISODate() error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.June || got.Day() != 5 {
		t.Errorf("ParseISODate() = %v", got)
	}

	if _, err := ParseISODate("06/05/2024"); err == nil {
		t.Error("expected error for non-ISO format")
	}
	if _, err := ParseISODate(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestEnumerateDays(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want []string
	}{
		{
			"SingleDay",
			"2024-06-01", "2024-06-01",
			[]string{"2024-06-01"},
		},
		{
			"ThreeDays",
			"2024-06-01", "2024-06-03",
			[]string{"2024-06-01", "2024-06-02", "2024-06-03"},
		},
		{
			"MonthBoundary",
			"2024-06-29", "2024-07-02",
			[]string{"2024-06-29", "2024-06-30", "2024-07-01", "2024-07-02"},
		},
		{
			"LeapDay",
			"2024-02-28", "2024-03-01",
			[]string{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
		{"Inverted", "2024-06-03", "2024-06-01", nil},
		{"MalformedFrom", "bogus", "2024-06-01", nil},
		{"MalformedTo", "2024-06-01", "bogus", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnumerateDays(tt.from, tt.to)
			if len(got) != len(tt.want) {
				t.Fatalf("EnumerateDays() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("EnumerateDays()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEnumerateDaysLength(t *testing.T) {
	// Length must be (to - from in days) + 1.
	got := EnumerateDays("2024-06-01", "2024-06-30")
	if len(got) != 30 {
		t.Errorf("got %d days, want 30", len(got))
	}
}

func TestCompareISODate(t *testing.T) {
	if CompareISODate("2024-06-01", "2024-06-02") != -1 {
		t.Error("expected -1 for earlier date")
	}
	if CompareISODate("2024-06-02", "2024-06-01") != 1 {
		t.Error("expected 1 for later date")
	}
	if CompareISODate("2024-06-01", "2024-06-01") != 0 {
		t.Error("expected 0 for equal dates")
	}
	// Year boundary: lexicographic order matches chronological order.
	if CompareISODate("2023-12-31", "2024-01-01") != -1 {
		t.Error("expected -1 across year boundary")
	}
}
