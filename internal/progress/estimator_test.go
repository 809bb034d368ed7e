package progress

import "testing"

func TestEstimatorUploadPhase(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		want     float64
	}{
		{name: "start", fraction: 0, want: 0},
		{name: "halfway through upload", fraction: 0.5, want: 25},
		{name: "upload complete", fraction: 1.0, want: 50},
		{name: "overreported fraction clamps", fraction: 1.3, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Estimator
			if got := e.Upload(tt.fraction); got != tt.want {
				t.Errorf("Upload(%v) = %v, want %v", tt.fraction, got, tt.want)
			}
		})
	}
}

func TestEstimatorPollCreep(t *testing.T) {
	var e Estimator
	e.Upload(1.0)

	for i := 0; i < 39; i++ {
		e.Tick()
	}
	if got := e.Current(); got != 89 {
		t.Fatalf("after 39 ticks = %v, want 89", got)
	}
	// Creep saturates at the ceiling, never reaching 100 on its own.
	for i := 0; i < 100; i++ {
		if got := e.Tick(); got > 90 {
			t.Fatalf("Tick() exceeded ceiling: %v", got)
		}
	}
	if got := e.Current(); got != 90 {
		t.Fatalf("saturated creep = %v, want 90", got)
	}
	if got := e.Finish(); got != 100 {
		t.Fatalf("Finish() = %v, want 100", got)
	}
}

func TestEstimatorMonotonic(t *testing.T) {
	var e Estimator
	prev := 0.0
	signals := []func() float64{
		func() float64 { return e.Upload(0.2) },
		func() float64 { return e.Upload(0.9) },
		func() float64 { return e.Upload(0.4) }, // stale callback must not regress
		func() float64 { return e.Upload(1.0) },
		func() float64 { return e.Tick() },
		func() float64 { return e.Upload(0.1) }, // late upload event after phase switch
		func() float64 { return e.Tick() },
		func() float64 { return e.Finish() },
		func() float64 { return e.Tick() }, // post-terminal tick stays at 100
	}
	for i, step := range signals {
		got := step()
		if got < prev {
			t.Fatalf("step %d decreased: %v -> %v", i, prev, got)
		}
		if got > 100 {
			t.Fatalf("step %d exceeded 100: %v", i, got)
		}
		prev = got
	}
	if e.Current() != 100 {
		t.Fatalf("final = %v, want 100", e.Current())
	}
}
