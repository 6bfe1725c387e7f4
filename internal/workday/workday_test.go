package workday

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestIsWeekday(t *testing.T) {
	tests := []struct {
		name string
		d    time.Time
		want bool
	}{
		{name: "monday", d: date(2026, time.August, 3), want: true},
		{name: "friday", d: date(2026, time.August, 7), want: true},
		{name: "saturday", d: date(2026, time.August, 1), want: false},
		{name: "sunday", d: date(2026, time.August, 2), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekday(tt.d); got != tt.want {
				t.Errorf("IsWeekday(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestOfMonth(t *testing.T) {
	// August 2026 starts on a Saturday, so Aug 3 (Monday) is working day 1.
	tests := []struct {
		name string
		d    time.Time
		want int
	}{
		{name: "first of month on a weekend", d: date(2026, time.August, 1), want: 0},
		{name: "first working day", d: date(2026, time.August, 3), want: 1},
		{name: "end of first week", d: date(2026, time.August, 7), want: 5},
		{name: "weekend carries the count", d: date(2026, time.August, 8), want: 5},
		{name: "tenth working day", d: date(2026, time.August, 14), want: 10},
		{name: "mid september", d: date(2026, time.September, 1), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OfMonth(tt.d); got != tt.want {
				t.Errorf("OfMonth(%v) = %d, want %d", tt.d, got, tt.want)
			}
		})
	}
}

func TestIsNth(t *testing.T) {
	tests := []struct {
		name string
		d    time.Time
		n    int
		want bool
	}{
		{name: "exactly the tenth", d: date(2026, time.August, 14), n: 10, want: true},
		{name: "ninth is not tenth", d: date(2026, time.August, 13), n: 10, want: false},
		{name: "weekend never matches", d: date(2026, time.August, 15), n: 10, want: false},
		{name: "first working day", d: date(2026, time.August, 3), n: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNth(tt.d, tt.n); got != tt.want {
				t.Errorf("IsNth(%v, %d) = %v, want %v", tt.d, tt.n, got, tt.want)
			}
		})
	}
}
