package scrivener

import (
	"testing"
	"time"

	"inkwell/internal/domain/models/scrivx"
)

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
		year  int
		month time.Month
		day   int
	}{
		{"2024-03-01T10:00:00Z", true, 2024, time.March, 1},
		{"2024-03-01T10:00:00", true, 2024, time.March, 1},
		{"2024-03-01", true, 2024, time.March, 1},
		{"2024-03-01 10:00:00 +0200", true, 2024, time.March, 1},
		{"2024-03-01 10:00:00", true, 2024, time.March, 1},
		{"25/12/2023 09:30", true, 2023, time.December, 25},
		{"yesterday", false, 0, 0, 0},
		{"", false, 0, 0, 0},
	}
	for _, tc := range cases {
		got, ok := parseDate(tc.input)
		if ok != tc.ok {
			t.Errorf("parseDate(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if got.Year() != tc.year || got.Month() != tc.month || got.Day() != tc.day {
			t.Errorf("parseDate(%q) = %v", tc.input, got)
		}
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	if formatDate(time.Time{}) != "" {
		t.Error("zero time should format empty")
	}
	stamp := time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)
	back, ok := parseDate(formatDate(stamp))
	if !ok || !back.Equal(stamp) {
		t.Errorf("round trip = %v ok=%v", back, ok)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		input string
		want  scrivx.RGB
	}{
		{"1 0 0", scrivx.RGB{R: 1}},
		{"0.500000 0.500000 0.500000", midGray},
		{"2 -1 0.5", scrivx.RGB{R: 1, G: 0, B: 0.5}},
		{"0.1 abc 0.3", midGray},
		{"1 0", midGray},
		{"", midGray},
	}
	for _, tc := range cases {
		if got := parseColor(tc.input); got != tc.want {
			t.Errorf("parseColor(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestColorNameForLabel(t *testing.T) {
	cases := []struct {
		name  string
		color scrivx.RGB
		want  string
	}{
		{"Urgent Red", scrivx.RGB{R: 0.13, G: 0.46, B: 0.79}, "Red"},
		{"In Progress Green", midGray, "Green"},
		{"Plain", scrivx.RGB{B: 1}, "Blue"},
		{"Plain", scrivx.RGB{R: 0.98, G: 0.02, B: 0.01}, "Red"},
		{"Plain", scrivx.RGB{R: 0.33, G: 0.21, B: 0.77}, "Gray"},
		{"Reddish", scrivx.RGB{R: 0.33, G: 0.21, B: 0.77}, "Gray"},
	}
	for _, tc := range cases {
		if got := colorNameForLabel(tc.name, tc.color); got != tc.want {
			t.Errorf("colorNameForLabel(%q, %+v) = %q, want %q", tc.name, tc.color, got, tc.want)
		}
	}
}

func TestNearestSwatchTolerance(t *testing.T) {
	if got := nearestSwatch(scrivx.RGB{R: 0.96, G: 0.04, B: 0.04}); got != "Red" {
		t.Errorf("near red = %q", got)
	}
	if got := nearestSwatch(scrivx.RGB{R: 0.9, G: 0, B: 0}); got != "" {
		t.Errorf("off red = %q, want no match", got)
	}
}

func TestSwatchColorUnknownName(t *testing.T) {
	if got := swatchColor("Chartreuse"); got != midGray {
		t.Errorf("unknown swatch = %+v", got)
	}
}

func TestFormatColorPrecision(t *testing.T) {
	if got := formatColor(scrivx.RGB{R: 1, G: 0.4, B: 0.7}); got != "1.000000 0.400000 0.700000" {
		t.Errorf("formatColor = %q", got)
	}
}
