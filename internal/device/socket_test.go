package device

import (
	"math"
	"testing"
	"time"
)

// fakeClock steps time manually for deterministic energy intervals.
type fakeClock struct {
	at time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{at: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time          { return f.at }
func (f *fakeClock) advance(d time.Duration) { f.at = f.at.Add(d) }

func TestSocketEnergyAccrual(t *testing.T) {
	s, err := NewSocket("tomada_bancada", "Tomada da Bancada", 1000)
	if err != nil {
		t.Fatalf("NewSocket() error = %v", err)
	}
	clock := newFakeClock()
	s.now = clock.now

	// 1000 W for 2 h: 2000 Wh in the closed interval.
	mustExecute(t, s, "ligar", nil)
	clock.advance(2 * time.Hour)
	mustExecute(t, s, "desligar", nil)

	if got := s.TotalWh(); math.Abs(got-2000) > 1e-9 {
		t.Errorf("TotalWh after closed interval = %v, want 2000", got)
	}

	// Open interval: the live query includes it without mutating the total.
	mustExecute(t, s, "ligar", nil)
	clock.advance(30 * time.Minute)
	if got := s.TotalWh(); math.Abs(got-2500) > 1e-9 {
		t.Errorf("live TotalWh = %v, want 2500", got)
	}
	if got := s.accumulatedWh; math.Abs(got-2000) > 1e-9 {
		t.Errorf("live query mutated accumulated total: %v", got)
	}

	clock.advance(30 * time.Minute)
	mustExecute(t, s, "desligar", nil)
	if got := s.TotalWh(); math.Abs(got-3000) > 1e-9 {
		t.Errorf("TotalWh after second interval = %v, want 3000", got)
	}
}

func TestSocketRedundantPowerIsBlocked(t *testing.T) {
	s, err := NewSocket("tomada", "Tomada", 500)
	if err != nil {
		t.Fatalf("NewSocket() error = %v", err)
	}
	clock := newFakeClock()
	s.now = clock.now

	mustExecute(t, s, "ligar", nil)
	started := s.onSince

	clock.advance(time.Hour)
	out := mustExecute(t, s, "ligar", nil)
	if !out.Blocked || out.Reason != ReasonRedundant {
		t.Errorf("redundant ligar outcome = %+v", out)
	}
	if !s.onSince.Equal(started) {
		t.Errorf("redundant ligar restarted the interval: %v -> %v", started, s.onSince)
	}

	mustExecute(t, s, "desligar", nil)
	if got := s.TotalWh(); math.Abs(got-500) > 1e-9 {
		t.Errorf("TotalWh = %v, want 500 (no double counting)", got)
	}

	out = mustExecute(t, s, "desligar", nil)
	if !out.Blocked || out.Reason != ReasonRedundant {
		t.Errorf("redundant desligar outcome = %+v", out)
	}
}

func TestSocketAttributes(t *testing.T) {
	s, err := NewSocket("tomada", "Tomada", 100)
	if err != nil {
		t.Fatalf("NewSocket() error = %v", err)
	}
	clock := newFakeClock()
	s.now = clock.now

	attrs := s.Attributes()
	if attrs["ligada_desde"] != nil {
		t.Errorf("ligada_desde while off = %v, want nil", attrs["ligada_desde"])
	}

	mustExecute(t, s, "ligar", nil)
	attrs = s.Attributes()
	if attrs["ligada_desde"] == nil {
		t.Error("ligada_desde while on is nil")
	}

	if err := s.SetAttribute("potencia_w", -5); err == nil {
		t.Error("negative potencia_w accepted")
	}
	if err := s.SetAttribute("consumo_wh_total", 12.5); err == nil {
		t.Error("derived attribute consumo_wh_total accepted")
	}
	if err := s.SetAttribute("potencia_w", 250); err != nil {
		t.Errorf("SetAttribute(potencia_w) error = %v", err)
	}
}
