package domain

import "testing"

func TestParseAxis(t *testing.T) {
	tests := []struct {
		name string
		want Axis
		ok   bool
	}{
		{"X", AxisX, true},
		{"Y", AxisY, true},
		{"Z", AxisZ, true},
		{"R", AxisR, true},
		{"x", 0, false}, // case-sensitive
		{"Q", 0, false},
		{"", 0, false},
		{"ALL", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAxis(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseAxis(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAxis_Addressing(t *testing.T) {
	tests := []struct {
		axis       Axis
		controller int
		channel    int
	}{
		{AxisX, 0, 0},
		{AxisY, 0, 1},
		{AxisZ, 0, 2},
		{AxisR, 1, 0},
	}

	for _, tt := range tests {
		if got := tt.axis.Controller(); got != tt.controller {
			t.Errorf("%s.Controller() = %d, want %d", tt.axis.Name(), got, tt.controller)
		}
		if got := tt.axis.Channel(); got != tt.channel {
			t.Errorf("%s.Channel() = %d, want %d", tt.axis.Name(), got, tt.channel)
		}
	}
}

func TestAxis_Name(t *testing.T) {
	if got := AxisR.Name(); got != "R" {
		t.Errorf("AxisR.Name() = %q, want R", got)
	}
	if got := Axis(99).Name(); got != "UNKNOWN" {
		t.Errorf("Axis(99).Name() = %q, want UNKNOWN", got)
	}
}

func TestSample_Validity(t *testing.T) {
	var s Sample

	for _, a := range Axes() {
		if s.IsValid(a) {
			t.Errorf("zero sample reports axis %s valid", a.Name())
		}
	}

	s.SetPosition(AxisY, -42)
	if !s.IsValid(AxisY) {
		t.Error("axis Y not valid after SetPosition")
	}
	if s.Positions[AxisY] != -42 {
		t.Errorf("Positions[Y] = %d, want -42", s.Positions[AxisY])
	}
	for _, a := range []Axis{AxisX, AxisZ, AxisR} {
		if s.IsValid(a) {
			t.Errorf("axis %s valid without a reading", a.Name())
		}
	}
}
