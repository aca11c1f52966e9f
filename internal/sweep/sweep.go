// Package sweep evaluates ranges of generation seeds in parallel, looking
// for seeds whose motion configs land in a wanted difficulty band. Level
// designers use it to curate seeds instead of hand-tuning configs: sweep a
// few hundred thousand seeds, keep the ones whose pace sits where the level
// calls for.
package sweep

import (
	"errors"

	"github.com/rangeforge/marksim/internal/motion"
)

var (
	ErrUnknownMetric = errors.New("unknown sweep metric")
	ErrInvalidRange  = errors.New("invalid seed range")
)

// Metric selects which scalar of a generated config a sweep matches on.
type Metric string

const (
	// MetricSpeed is the config's oscillation rate in cycles per second.
	MetricSpeed Metric = "speed"
	// MetricAmplitude is the config's half peak-to-peak travel in meters.
	MetricAmplitude Metric = "amplitude"
	// MetricPace is the peak instantaneous target speed, 2π·speed·amplitude,
	// the speed a shooter must lead at the zero crossing.
	MetricPace Metric = "pace"
)

// Value extracts the metric's scalar from a config.
func (m Metric) Value(cfg motion.Config) (float64, error) {
	switch m {
	case MetricSpeed:
		return cfg.Speed, nil
	case MetricAmplitude:
		return cfg.Amplitude, nil
	case MetricPace:
		return cfg.PeakSpeed(), nil
	default:
		return 0, ErrUnknownMetric
	}
}

// Op is a comparison operation for matching metric values.
type Op string

const (
	OpEqual        Op = "eq"
	OpGreater      Op = "gt"
	OpGreaterEqual Op = "ge"
	OpLess         Op = "lt"
	OpLessEqual    Op = "le"
	OpBetween      Op = "between"
	OpOutside      Op = "outside"
)

// Request describes a sweep over a seed range.
type Request struct {
	Metric    Metric        `json:"metric"`
	Bounds    motion.Bounds `json:"bounds"`
	SeedStart int64         `json:"seed_start"`
	SeedEnd   int64         `json:"seed_end"`
	TargetOp  Op            `json:"target_op"`
	TargetVal float64       `json:"target_val"`
	// TargetVal2 is the upper bound for "between" and "outside".
	TargetVal2 float64 `json:"target_val2,omitempty"`
	Tolerance  float64 `json:"tolerance"`
	Limit      int     `json:"limit,omitempty"`
	TimeoutMs  int     `json:"timeout_ms,omitempty"`
}

// Hit is one seed whose config matched the target condition. The config is
// carried along so designers can inspect a hit without regenerating it.
type Hit struct {
	Seed   int64         `json:"seed"`
	Value  float64       `json:"value"`
	Config motion.Config `json:"config"`
}

// Summary holds aggregate statistics over a sweep.
type Summary struct {
	TotalEvaluated uint64  `json:"total_evaluated"`
	HitsFound      int     `json:"hits_found"`
	MinValue       float64 `json:"min_value"`
	MaxValue       float64 `json:"max_value"`
	MeanValue      float64 `json:"mean_value"`
	TimedOut       bool    `json:"timed_out,omitempty"`
}

// Result is the complete outcome of one sweep.
type Result struct {
	Hits          []Hit   `json:"hits"`
	Summary       Summary `json:"summary"`
	EngineVersion string  `json:"engine_version"`
	Echo          Request `json:"echo"`
}

// Evaluator matches metric values against a target condition with a
// tolerance band.
type Evaluator struct {
	op        Op
	val1      float64
	val2      float64
	tolerance float64
}

// NewEvaluator creates an evaluator for the given condition.
func NewEvaluator(op Op, val1, val2, tolerance float64) *Evaluator {
	return &Evaluator{op: op, val1: val1, val2: val2, tolerance: tolerance}
}

// Matches checks whether a value satisfies the condition.
func (e *Evaluator) Matches(value float64) bool {
	switch e.op {
	case OpEqual:
		return abs(value-e.val1) <= e.tolerance
	case OpGreater:
		return value > e.val1+e.tolerance
	case OpGreaterEqual:
		return value >= e.val1-e.tolerance
	case OpLess:
		return value < e.val1-e.tolerance
	case OpLessEqual:
		return value <= e.val1+e.tolerance
	case OpBetween:
		return value >= e.val1-e.tolerance && value <= e.val2+e.tolerance
	case OpOutside:
		return value < e.val1-e.tolerance || value > e.val2+e.tolerance
	default:
		return false
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
