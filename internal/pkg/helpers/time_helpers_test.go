package helpers

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	if d := ParseDuration("90m", time.Hour); d != 90*time.Minute {
		t.Errorf("ParseDuration(90m) = %v", d)
	}
	if d := ParseDuration("soon", time.Hour); d != time.Hour {
		t.Errorf("ParseDuration(soon) = %v", d)
	}
}

func TestAcademicYear(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), "2025-2026"},
	}
	for _, tt := range tests {
		if got := AcademicYear(tt.at); got != tt.want {
			t.Errorf("AcademicYear(%v) = %s, want %s", tt.at, got, tt.want)
		}
	}
}
