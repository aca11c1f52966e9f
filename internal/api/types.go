package api

import (
	"github.com/rangeforge/marksim/internal/course"
	"github.com/rangeforge/marksim/internal/motion"
	"github.com/rangeforge/marksim/internal/sweep"
	"github.com/rangeforge/marksim/internal/world"
)

// APIError is the structured error envelope every failing endpoint returns.
type APIError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	return e.Message
}

// Error types with proper categorization.
const (
	ErrTypeValidation = "validation_error"
	ErrTypeNotFound   = "not_found"
	ErrTypeTimeout    = "timeout"
	ErrTypeInternal   = "internal_error"
)

// GenerateRequest asks for a single motion config derived from a seed.
type GenerateRequest struct {
	Seed   int64         `json:"seed"`
	Bounds motion.Bounds `json:"bounds,omitempty"`
}

// GenerateResponse echoes the request with the derived config.
type GenerateResponse struct {
	Config        motion.Config   `json:"config"`
	EngineVersion string          `json:"engine_version"`
	Echo          GenerateRequest `json:"echo"`
}

// SweepResponse is the result of a persisted sweep run.
type SweepResponse struct {
	RunID         string        `json:"run_id"`
	Hits          []sweep.Hit   `json:"hits"`
	Summary       sweep.Summary `json:"summary"`
	EngineVersion string        `json:"engine_version"`
	Echo          sweep.Request `json:"echo"`
}

// CourseRequest generates and persists a course from a seed and sites.
type CourseRequest struct {
	Seed   int64         `json:"seed"`
	Bounds motion.Bounds `json:"bounds,omitempty"`
	Sites  []course.Site `json:"sites"`
}

// CourseResponse wraps a stored course.
type CourseResponse struct {
	Course        *course.Course `json:"course"`
	EngineVersion string         `json:"engine_version"`
}

// TargetStateResponse is the per-frame rendering and hit-testing surface:
// the target's world position and velocity at the requested time, following
// the coordinate conventions (Y up, Z right; renderers negate Y for canvas).
type TargetStateResponse struct {
	TargetID      string        `json:"target_id"`
	TimeMillis    float64       `json:"time_ms"`
	Position      world.Point   `json:"position"`
	Velocity      world.Point   `json:"velocity"`
	Config        motion.Config `json:"config"`
	EngineVersion string        `json:"engine_version"`
}

// ImpactRequest exercises the ballistics contract arithmetic: dialed mils,
// wind, and an optional extra hold, composed into an impact point.
type ImpactRequest struct {
	ElevationMils float64     `json:"elevation_mils"`
	WindageMils   float64     `json:"windage_mils"`
	Hold          world.Point `json:"hold"`
	Distance      float64     `json:"distance"`
	Crosswind     float64     `json:"crosswind"`
	TimeOfFlight  float64     `json:"time_of_flight"`
}

// ImpactResponse reports the composed aim point and impact point, both
// relative to target center in world coordinates.
type ImpactResponse struct {
	Aim           world.Point   `json:"aim"`
	Impact        world.Point   `json:"impact"`
	EngineVersion string        `json:"engine_version"`
	Echo          ImpactRequest `json:"echo"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status        string `json:"status"`
	EngineVersion string `json:"engine_version"`
	Timestamp     string `json:"timestamp"`
}
