package utils

import (
	"testing"
	"time"
)

func TestParseTimestampFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-02T15:04:05Z", time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"2024-01-02T15:04:05", time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"2024-01-02 15:04:05", time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.raw)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tc.raw, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseTimestampOffsetNormalizedToUTC(t *testing.T) {
	got, err := ParseTimestamp("2024-01-02T15:04:05+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("got %v, want %v in UTC", got, want)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "02/01/2024"} {
		if _, err := ParseTimestamp(raw); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", raw)
		}
	}
}
