// Package store persists generated courses and sweep runs so curated seeds
// and levels survive restarts. The only implementation is SQLite; the DB
// interface exists so handlers can be tested against a lighter fake.
package store

import (
	"errors"
	"time"

	"github.com/rangeforge/marksim/internal/course"
	"github.com/rangeforge/marksim/internal/sweep"
)

// ErrNotFound is returned when a course, target, or sweep id is unknown.
var ErrNotFound = errors.New("not found")

// DB is the persistence interface the API server works against.
type DB interface {
	Close() error
	Migrate() error
	Ping() error

	SaveCourse(c *course.Course) error
	GetCourse(id string) (*course.Course, error)
	GetTarget(id string) (*course.Target, error)
	ListCourses(query CoursesQuery) (*CoursesList, error)

	SaveSweep(run *SweepRun, hits []sweep.Hit) error
	GetSweep(id string) (*SweepRun, []sweep.Hit, error)
}

// CoursesQuery selects a page of stored courses, newest first.
type CoursesQuery struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// CoursesList is a paginated course listing. Targets are not loaded here;
// fetch a single course for its targets.
type CoursesList struct {
	Courses    []course.Course `json:"courses"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	PerPage    int             `json:"perPage"`
	TotalPages int             `json:"totalPages"`
}

// SweepRun records one executed sweep: the request, its summary, and the
// engine version that produced it. Hits are stored alongside in their own
// table.
type SweepRun struct {
	ID             string    `json:"id" db:"id"`
	Metric         string    `json:"metric" db:"metric"`
	SeedStart      int64     `json:"seed_start" db:"seed_start"`
	SeedEnd        int64     `json:"seed_end" db:"seed_end"`
	TargetOp       string    `json:"target_op" db:"target_op"`
	TargetVal      float64   `json:"target_val" db:"target_val"`
	TargetVal2     float64   `json:"target_val2" db:"target_val2"`
	Tolerance      float64   `json:"tolerance" db:"tolerance"`
	HitLimit       int       `json:"hit_limit" db:"hit_limit"`
	TimedOut       bool      `json:"timed_out" db:"timed_out"`
	HitCount       int       `json:"hit_count" db:"hit_count"`
	TotalEvaluated uint64    `json:"total_evaluated" db:"total_evaluated"`
	SummaryMin     float64   `json:"summary_min" db:"summary_min"`
	SummaryMax     float64   `json:"summary_max" db:"summary_max"`
	SummaryMean    float64   `json:"summary_mean" db:"summary_mean"`
	EngineVersion  string    `json:"engine_version" db:"engine_version"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
