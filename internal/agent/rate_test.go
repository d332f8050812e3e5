package agent

import (
	"testing"
	"time"
)

func TestRateCell_Set(t *testing.T) {
	tests := []struct {
		hz      int
		wantErr bool
	}{
		{100, false},
		{15000, false},
		{1000, false},
		{99, true},
		{15001, true},
		{0, true},
		{-200, true},
	}

	for _, tt := range tests {
		c := newRateCell(500)
		err := c.Set(tt.hz)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%d) error = %v, wantErr %v", tt.hz, err, tt.wantErr)
		}
		want := tt.hz
		if tt.wantErr {
			want = 500 // rejected values leave the rate untouched
		}
		if got := c.Hz(); got != want {
			t.Errorf("Hz() after Set(%d) = %d, want %d", tt.hz, got, want)
		}
	}
}

func TestRateCell_Interval(t *testing.T) {
	tests := []struct {
		hz   int
		want time.Duration
	}{
		{100, 10 * time.Millisecond},
		{1000, time.Millisecond},
		{15000, 66666 * time.Nanosecond},
	}

	for _, tt := range tests {
		c := newRateCell(tt.hz)
		if got := c.Interval(); got != tt.want {
			t.Errorf("Interval() at %d Hz = %v, want %v", tt.hz, got, tt.want)
		}
	}
}
