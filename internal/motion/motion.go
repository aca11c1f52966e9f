// Package motion implements the kinematic model for animated targets:
// oscillatory position and velocity as pure functions of time, plus
// deterministic procedural generation of motion parameters from a seed.
//
// All functions here are stateless and side-effect free. The model never
// reads a clock; time arrives from the caller in milliseconds since session
// start, so replaying a recording reproduces positions exactly.
package motion

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rangeforge/marksim/internal/world"
)

// Axis selects which world coordinate a target oscillates along. Exactly
// one axis is active per config; the other stays pinned to the center.
type Axis int

const (
	// AxisHorizontal perturbs the lateral (Z) coordinate.
	AxisHorizontal Axis = iota
	// AxisVertical perturbs the vertical (Y) coordinate.
	AxisVertical
)

// String returns the wire name of the axis.
func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Valid reports whether the axis is one of the two defined cases.
func (a Axis) Valid() bool {
	return a == AxisHorizontal || a == AxisVertical
}

// ParseAxis converts a wire name back to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "horizontal":
		return AxisHorizontal, nil
	case "vertical":
		return AxisVertical, nil
	default:
		return 0, fmt.Errorf("invalid axis %q", s)
	}
}

// MarshalJSON encodes the axis as its wire name.
func (a Axis) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes "horizontal" or "vertical".
func (a *Axis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "horizontal":
		*a = AxisHorizontal
	case "vertical":
		*a = AxisVertical
	default:
		return fmt.Errorf("invalid axis %q", s)
	}
	return nil
}

// Config describes a target's oscillatory movement. It is a value type,
// created once at spawn time and never mutated for the target's lifetime.
//
// Speed is in cycles per second. Negative speed is accepted and runs the
// oscillation time-reversed (the sine mirrors); zero speed is a legal
// stationary target. Amplitude is half the peak-to-peak travel, in meters.
type Config struct {
	Speed     float64 `json:"speed"`
	Axis      Axis    `json:"axis"`
	Amplitude float64 `json:"amplitude"`
}

// Validate rejects configs no generator or level file should produce:
// non-finite values, negative amplitude, or an axis outside the enum.
// Negative speed passes validation; see the Config doc for its meaning.
func (c Config) Validate() error {
	if math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		return fmt.Errorf("speed must be finite, got %v", c.Speed)
	}
	if math.IsNaN(c.Amplitude) || math.IsInf(c.Amplitude, 0) {
		return fmt.Errorf("amplitude must be finite, got %v", c.Amplitude)
	}
	if c.Amplitude < 0 {
		return fmt.Errorf("amplitude must be >= 0, got %v", c.Amplitude)
	}
	if !c.Axis.Valid() {
		return fmt.Errorf("invalid axis %d", int(c.Axis))
	}
	return nil
}

// PeriodMillis returns the oscillation period in milliseconds, or 0 for a
// stationary (zero-speed) config where the period is undefined.
func (c Config) PeriodMillis() float64 {
	if c.Speed == 0 {
		return 0
	}
	return math.Abs(1000 / c.Speed)
}

// PeakSpeed returns the maximum instantaneous speed of the target in m/s.
// Useful as a difficulty metric: it is the speed a shooter must lead at
// the zero crossing of the oscillation.
func (c Config) PeakSpeed() float64 {
	return math.Abs(2 * math.Pi * c.Speed * c.Amplitude)
}

// phase returns the dimensionless cycle fraction at tMillis.
func (c Config) phase(tMillis float64) float64 {
	return c.Speed * tMillis / 1000
}

// Position returns the target's world (Y, Z) position at tMillis
// milliseconds since session start:
//
//	offset = amplitude * sin(2π * speed * t_seconds)
//
// applied to the active axis; the inactive axis equals the center value
// exactly. Pure and deterministic: re-evaluating the same inputs yields the
// identical result, which replay and recording rely on. Non-finite inputs
// propagate NaN per IEEE semantics rather than being masked.
func Position(center world.Point, c Config, tMillis float64) world.Point {
	offset := c.Amplitude * math.Sin(2*math.Pi*c.phase(tMillis))
	switch c.Axis {
	case AxisVertical:
		return world.Point{Y: center.Y + offset, Z: center.Z}
	default:
		return world.Point{Y: center.Y, Z: center.Z + offset}
	}
}

// Velocity returns the target's instantaneous velocity at tMillis, in m/s,
// as the analytic derivative of Position:
//
//	v = amplitude * speed * 2π * cos(2π * speed * t_seconds)
//
// Only the active axis carries a nonzero component.
func Velocity(c Config, tMillis float64) world.Point {
	v := c.Amplitude * c.Speed * 2 * math.Pi * math.Cos(2*math.Pi*c.phase(tMillis))
	switch c.Axis {
	case AxisVertical:
		return world.Point{Y: v}
	default:
		return world.Point{Z: v}
	}
}
