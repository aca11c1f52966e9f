package motion

import (
	"math"
	"testing"

	"github.com/rangeforge/marksim/internal/world"
)

func TestPositionConcreteExample(t *testing.T) {
	// Quarter cycle at 1 Hz: sin(2π·0.25) = 1, full amplitude to the right.
	center := world.Point{Y: 0, Z: 0}
	cfg := Config{Speed: 1, Axis: AxisHorizontal, Amplitude: 0.1}

	got := Position(center, cfg, 250)

	if got.Y != 0 {
		t.Errorf("Expected y=0, got %v", got.Y)
	}
	if math.Abs(got.Z-0.1) > 1e-12 {
		t.Errorf("Expected z=0.1, got %v", got.Z)
	}
}

func TestPositionPeriodicity(t *testing.T) {
	center := world.Point{Y: 1.5, Z: -0.3}
	configs := []Config{
		{Speed: 1, Axis: AxisHorizontal, Amplitude: 0.1},
		{Speed: 0.25, Axis: AxisVertical, Amplitude: 0.4},
		{Speed: 3.2, Axis: AxisHorizontal, Amplitude: 0.05},
	}

	for _, cfg := range configs {
		t.Run(cfg.Axis.String(), func(t *testing.T) {
			period := cfg.PeriodMillis()
			for _, tm := range []float64{0, 17, 250, 999, 12345} {
				p1 := Position(center, cfg, tm)
				p2 := Position(center, cfg, tm+period)
				if math.Abs(p1.Y-p2.Y) > 1e-9 || math.Abs(p1.Z-p2.Z) > 1e-9 {
					t.Errorf("Position at t=%v and t+period differ: %v vs %v", tm, p1, p2)
				}
			}
		})
	}
}

func TestPositionDegenerateAmplitude(t *testing.T) {
	center := world.Point{Y: 2, Z: 0.7}
	cfg := Config{Speed: 1.3, Axis: AxisHorizontal, Amplitude: 0}

	for _, tm := range []float64{0, 1, 100, 1e6} {
		got := Position(center, cfg, tm)
		if got != center {
			t.Errorf("Expected center %v at t=%v, got %v", center, tm, got)
		}
	}
}

func TestPositionStationarySpeed(t *testing.T) {
	// speed 0 means phase 0 for all t, so the target never leaves center.
	center := world.Point{Y: -1, Z: 4}
	cfg := Config{Speed: 0, Axis: AxisVertical, Amplitude: 0.3}

	for _, tm := range []float64{0, 333, 7e5} {
		if got := Position(center, cfg, tm); got != center {
			t.Errorf("Expected center %v at t=%v, got %v", center, tm, got)
		}
	}
}

func TestAxisExclusivity(t *testing.T) {
	center := world.Point{Y: 1.1, Z: -2.2}

	horizontal := Config{Speed: 0.8, Axis: AxisHorizontal, Amplitude: 0.25}
	vertical := Config{Speed: 0.8, Axis: AxisVertical, Amplitude: 0.25}

	for _, tm := range []float64{0, 13, 250, 777, 9999} {
		if got := Position(center, horizontal, tm); got.Y != center.Y {
			t.Errorf("Horizontal config moved Y at t=%v: %v != %v", tm, got.Y, center.Y)
		}
		if got := Position(center, vertical, tm); got.Z != center.Z {
			t.Errorf("Vertical config moved Z at t=%v: %v != %v", tm, got.Z, center.Z)
		}
		if v := Velocity(horizontal, tm); v.Y != 0 {
			t.Errorf("Horizontal config has vertical velocity at t=%v: %v", tm, v.Y)
		}
		if v := Velocity(vertical, tm); v.Z != 0 {
			t.Errorf("Vertical config has lateral velocity at t=%v: %v", tm, v.Z)
		}
	}
}

func TestVelocityMatchesFiniteDifference(t *testing.T) {
	center := world.Point{}
	configs := []Config{
		{Speed: 1, Axis: AxisHorizontal, Amplitude: 0.1},
		{Speed: 0.5, Axis: AxisVertical, Amplitude: 0.4},
		{Speed: 2.5, Axis: AxisHorizontal, Amplitude: 0.2},
		{Speed: -1, Axis: AxisVertical, Amplitude: 0.3},
	}

	const eps = 0.01 // milliseconds

	for _, cfg := range configs {
		for _, tm := range []float64{0, 100, 250, 619, 1500} {
			ahead := Position(center, cfg, tm+eps)
			behind := Position(center, cfg, tm-eps)
			// Positions are per-millisecond; velocities are m/s.
			numeric := ahead.Sub(behind).Scale(1000 / (2 * eps))
			analytic := Velocity(cfg, tm)

			if math.Abs(numeric.Y-analytic.Y) > 1e-3 || math.Abs(numeric.Z-analytic.Z) > 1e-3 {
				t.Errorf("config %+v t=%v: finite difference %v vs analytic %v", cfg, tm, numeric, analytic)
			}
		}
	}
}

func TestNegativeSpeedIsTimeReversed(t *testing.T) {
	center := world.Point{Y: 0, Z: 0}
	forward := Config{Speed: 0.7, Axis: AxisHorizontal, Amplitude: 0.2}
	reversed := Config{Speed: -0.7, Axis: AxisHorizontal, Amplitude: 0.2}

	for _, tm := range []float64{0, 50, 333, 1200} {
		f := Position(center, forward, tm)
		r := Position(center, reversed, tm)
		if math.Abs(f.Z+r.Z) > 1e-12 {
			t.Errorf("Expected mirrored offsets at t=%v, got %v and %v", tm, f.Z, r.Z)
		}
	}
}

func TestPositionIdempotent(t *testing.T) {
	center := world.Point{Y: 0.5, Z: 0.5}
	cfg := Config{Speed: 1.7, Axis: AxisVertical, Amplitude: 0.12}

	first := Position(center, cfg, 4321)
	second := Position(center, cfg, 4321)
	if first != second {
		t.Errorf("Re-evaluation at the same time differs: %v vs %v", first, second)
	}
}

func TestPositionPropagatesNaN(t *testing.T) {
	center := world.Point{}
	cfg := Config{Speed: 1, Axis: AxisHorizontal, Amplitude: 0.1}

	got := Position(center, cfg, math.NaN())
	if !math.IsNaN(got.Z) {
		t.Errorf("Expected NaN offset for NaN time, got %v", got.Z)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid horizontal", Config{Speed: 1, Axis: AxisHorizontal, Amplitude: 0.1}, false},
		{"valid stationary", Config{Speed: 0, Axis: AxisVertical, Amplitude: 0}, false},
		{"negative speed accepted", Config{Speed: -2, Axis: AxisHorizontal, Amplitude: 0.1}, false},
		{"negative amplitude", Config{Speed: 1, Axis: AxisHorizontal, Amplitude: -0.1}, true},
		{"NaN speed", Config{Speed: math.NaN(), Axis: AxisHorizontal, Amplitude: 0.1}, true},
		{"infinite amplitude", Config{Speed: 1, Axis: AxisHorizontal, Amplitude: math.Inf(1)}, true},
		{"unknown axis", Config{Speed: 1, Axis: Axis(7), Amplitude: 0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPeakSpeed(t *testing.T) {
	cfg := Config{Speed: 1, Axis: AxisHorizontal, Amplitude: 0.1}
	want := 2 * math.Pi * 0.1
	if got := cfg.PeakSpeed(); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected peak speed %v, got %v", want, got)
	}

	reversed := Config{Speed: -1, Axis: AxisHorizontal, Amplitude: 0.1}
	if got := reversed.PeakSpeed(); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected peak speed %v for reversed config, got %v", want, got)
	}
}

func TestAxisJSONRoundTrip(t *testing.T) {
	for _, axis := range []Axis{AxisHorizontal, AxisVertical} {
		data, err := axis.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON failed: %v", err)
		}
		var back Axis
		if err := back.UnmarshalJSON(data); err != nil {
			t.Fatalf("UnmarshalJSON failed: %v", err)
		}
		if back != axis {
			t.Errorf("Round trip changed axis: %v != %v", back, axis)
		}
	}

	var a Axis
	if err := a.UnmarshalJSON([]byte(`"diagonal"`)); err == nil {
		t.Error("Expected error for unknown axis name")
	}
	if _, err := Axis(9).MarshalJSON(); err == nil {
		t.Error("Expected error marshaling invalid axis")
	}
}
