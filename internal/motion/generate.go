package motion

import "fmt"

// Default generation bounds, used when a caller passes the zero Bounds.
// Chosen so generated targets stay trackable on a typical range view:
// up to one full cycle per second, up to half a meter of throw.
const (
	DefaultMinSpeed     = 0.1
	DefaultMaxSpeed     = 1.0
	DefaultMinAmplitude = 0.05
	DefaultMaxAmplitude = 0.5
)

// Bounds constrains procedural generation of motion configs. The zero
// value means "use defaults" and is filled in by Normalize.
type Bounds struct {
	MinSpeed     float64 `json:"min_speed" yaml:"min_speed"`
	MaxSpeed     float64 `json:"max_speed" yaml:"max_speed"`
	MinAmplitude float64 `json:"min_amplitude" yaml:"min_amplitude"`
	MaxAmplitude float64 `json:"max_amplitude" yaml:"max_amplitude"`
}

// DefaultBounds returns the documented default generation ranges.
func DefaultBounds() Bounds {
	return Bounds{
		MinSpeed:     DefaultMinSpeed,
		MaxSpeed:     DefaultMaxSpeed,
		MinAmplitude: DefaultMinAmplitude,
		MaxAmplitude: DefaultMaxAmplitude,
	}
}

// Normalize returns the bounds with any unset (zero) range replaced by the
// defaults. A range counts as unset only when both ends are zero.
func (b Bounds) Normalize() Bounds {
	if b.MinSpeed == 0 && b.MaxSpeed == 0 {
		b.MinSpeed = DefaultMinSpeed
		b.MaxSpeed = DefaultMaxSpeed
	}
	if b.MinAmplitude == 0 && b.MaxAmplitude == 0 {
		b.MinAmplitude = DefaultMinAmplitude
		b.MaxAmplitude = DefaultMaxAmplitude
	}
	return b
}

// Validate rejects inverted ranges. Inverted bounds are a caller bug; they
// are reported rather than silently swapped.
func (b Bounds) Validate() error {
	if b.MinSpeed > b.MaxSpeed {
		return fmt.Errorf("min_speed %v greater than max_speed %v", b.MinSpeed, b.MaxSpeed)
	}
	if b.MinAmplitude > b.MaxAmplitude {
		return fmt.Errorf("min_amplitude %v greater than max_amplitude %v", b.MinAmplitude, b.MaxAmplitude)
	}
	return nil
}

// GenerateConfig deterministically derives a motion config from a seed.
// Identical (bounds, seed) inputs produce byte-identical configs, forever;
// level generation and regression tests both depend on that. The draw order
// is part of the contract and must never change:
//
//	draw 1: axis, horizontal when the float is below 0.5
//	draw 2: speed, uniform in [MinSpeed, MaxSpeed]
//	draw 3: amplitude, uniform in [MinAmplitude, MaxAmplitude]
//
// The model never reads ambient entropy; a caller that wants varied levels
// must supply a varied seed (wall clock, user input) from the outside.
func GenerateConfig(bounds Bounds, seed int64) (Config, error) {
	return GenerateConfigAt(bounds, seed, 0)
}

// GenerateConfigAt is GenerateConfig with an explicit stream nonce, used to
// derive many independent configs from one course seed (one nonce per
// target index). GenerateConfig is the nonce-zero case.
func GenerateConfigAt(bounds Bounds, seed int64, nonce uint64) (Config, error) {
	bounds = bounds.Normalize()
	if err := bounds.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid bounds: %w", err)
	}

	seq := NewSequence(seed, nonce)

	axis := AxisHorizontal
	if seq.NextFloat() >= 0.5 {
		axis = AxisVertical
	}

	cfg := Config{
		Speed:     seq.NextUniform(bounds.MinSpeed, bounds.MaxSpeed),
		Axis:      axis,
		Amplitude: seq.NextUniform(bounds.MinAmplitude, bounds.MaxAmplitude),
	}
	return cfg, nil
}
