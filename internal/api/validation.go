package api

import (
	"fmt"
	"math"

	"github.com/rangeforge/marksim/internal/sweep"
)

// maxSweepRange caps one sweep request; larger surveys should be batched.
const maxSweepRange = 10_000_000

// ValidateSweepRequest checks a sweep request before it reaches the pool.
func ValidateSweepRequest(req *sweep.Request) error {
	if req.Metric == "" {
		return fmt.Errorf("metric is required")
	}
	switch req.Metric {
	case sweep.MetricSpeed, sweep.MetricAmplitude, sweep.MetricPace:
	default:
		return fmt.Errorf("metric %q not found", req.Metric)
	}

	if req.SeedEnd < req.SeedStart {
		return fmt.Errorf("seed_end (%d) must be >= seed_start (%d)", req.SeedEnd, req.SeedStart)
	}
	// Width computed in uint64 so extreme ranges cannot wrap the signed
	// difference past the cap.
	if uint64(req.SeedEnd)-uint64(req.SeedStart) > maxSweepRange {
		return fmt.Errorf("seed range too large (max %d seeds)", maxSweepRange)
	}

	switch req.TargetOp {
	case "":
		return fmt.Errorf("target_op is required")
	case sweep.OpEqual, sweep.OpGreater, sweep.OpGreaterEqual,
		sweep.OpLess, sweep.OpLessEqual:
	case sweep.OpBetween, sweep.OpOutside:
		if req.TargetVal2 < req.TargetVal {
			return fmt.Errorf("target_val2 (%v) must be >= target_val (%v)", req.TargetVal2, req.TargetVal)
		}
	default:
		return fmt.Errorf("invalid target_op %q", req.TargetOp)
	}

	if req.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0")
	}
	if req.Limit < 0 {
		return fmt.Errorf("limit must be >= 0")
	}
	return nil
}

// ValidateCourseRequest checks a course creation request.
func ValidateCourseRequest(req *CourseRequest) error {
	if len(req.Sites) == 0 {
		return fmt.Errorf("at least one site is required")
	}
	for i, site := range req.Sites {
		if site.Distance <= 0 || !isFinite(site.Distance) {
			return fmt.Errorf("site %d: distance must be positive and finite", i)
		}
		if !isFinite(site.Center.Y) || !isFinite(site.Center.Z) {
			return fmt.Errorf("site %d: center must be finite", i)
		}
	}
	return nil
}

// ValidateImpactRequest checks an impact composition request.
func ValidateImpactRequest(req *ImpactRequest) error {
	if req.Distance <= 0 || !isFinite(req.Distance) {
		return fmt.Errorf("distance must be positive and finite")
	}
	if req.TimeOfFlight < 0 || !isFinite(req.TimeOfFlight) {
		return fmt.Errorf("time_of_flight must be >= 0 and finite")
	}
	for name, v := range map[string]float64{
		"elevation_mils": req.ElevationMils,
		"windage_mils":   req.WindageMils,
		"crosswind":      req.Crosswind,
		"hold.y":         req.Hold.Y,
		"hold.z":         req.Hold.Z,
	} {
		if !isFinite(v) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
