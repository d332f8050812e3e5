package domain

import (
	"bytes"
	"testing"
)

func TestAppendSample(t *testing.T) {
	tests := []struct {
		name   string
		sample func() Sample
		want   string
	}{
		{
			name: "all axes valid",
			sample: func() Sample {
				s := Sample{Timestamp: 1700000000000000000}
				s.SetPosition(AxisX, 100)
				s.SetPosition(AxisY, -250)
				s.SetPosition(AxisZ, 0)
				s.SetPosition(AxisR, 359000)
				return s
			},
			want: "1700000000000000000/100/-250/0/359000",
		},
		{
			name: "one axis invalid",
			sample: func() Sample {
				s := Sample{Timestamp: 42}
				s.SetPosition(AxisX, 1)
				s.SetPosition(AxisZ, 3)
				s.SetPosition(AxisR, 4)
				return s
			},
			want: "42/1/NaN/3/4",
		},
		{
			name:   "no axes valid",
			sample: func() Sample { return Sample{Timestamp: 7} },
			want:   "7/NaN/NaN/NaN/NaN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendSample(nil, tt.sample())
			if string(got) != tt.want {
				t.Errorf("AppendSample() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendSample_ReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	s := Sample{Timestamp: 1}
	s.SetPosition(AxisX, 2)

	out := AppendSample(buf, s)
	if &out[0] != &buf[:1][0] {
		t.Error("AppendSample allocated despite sufficient capacity")
	}
}

func TestAppendBatch(t *testing.T) {
	mk := func(ts int64, x int32) Sample {
		s := Sample{Timestamp: ts}
		s.SetPosition(AxisX, x)
		s.SetPosition(AxisY, x)
		s.SetPosition(AxisZ, x)
		s.SetPosition(AxisR, x)
		return s
	}

	t.Run("empty", func(t *testing.T) {
		if got := AppendBatch(nil, nil); len(got) != 0 {
			t.Errorf("AppendBatch(nil) = %q, want empty", got)
		}
	})

	t.Run("single sample has no newline", func(t *testing.T) {
		got := AppendBatch(nil, []Sample{mk(1, 10)})
		if bytes.ContainsRune(got, '\n') {
			t.Errorf("single-sample batch contains newline: %q", got)
		}
	})

	t.Run("samples joined without trailing newline", func(t *testing.T) {
		got := AppendBatch(nil, []Sample{mk(1, 10), mk(2, 20), mk(3, 30)})
		want := "1/10/10/10/10\n2/20/20/20/20\n3/30/30/30/30"
		if string(got) != want {
			t.Errorf("AppendBatch() = %q, want %q", got, want)
		}
	})
}

func TestResult_Encode(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want string
	}{
		{
			name: "command success",
			res: Result{
				Timestamp: 1000,
				Category:  CategoryCommand,
				Verb:      VerbMove,
				AxisLabel: "X",
				Outcome:   OutcomeSuccess,
				Detail:    "movement started to 500",
			},
			want: "1000/COMMAND/MOVE/X/SUCCESS/movement started to 500",
		},
		{
			name: "command failure on ALL",
			res: Result{
				Timestamp: 2000,
				Category:  CategoryCommand,
				Verb:      VerbSetRate,
				AxisLabel: AxisAll,
				Outcome:   OutcomeFailed,
				Detail:    "invalid rate (must be 100-15000 Hz)",
			},
			want: "2000/COMMAND/SET_RATE/ALL/FAILED/invalid rate (must be 100-15000 Hz)",
		},
		{
			name: "detail may contain separators and newlines",
			res: Result{
				Timestamp: 3000,
				Category:  CategoryStatus,
				Verb:      Verb("SYSTEM_INFO"),
				AxisLabel: AxisAll,
				Outcome:   OutcomeSuccess,
				Detail:    "line one\nrate: 1000/s",
			},
			want: "3000/STATUS/SYSTEM_INFO/ALL/SUCCESS/line one\nrate: 1000/s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.res.Encode()); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
