package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rangeforge/marksim/internal/ballistics"
	"github.com/rangeforge/marksim/internal/course"
	"github.com/rangeforge/marksim/internal/motion"
	"github.com/rangeforge/marksim/internal/store"
	"github.com/rangeforge/marksim/internal/sweep"
)

// defaultBounds substitutes the server's configured bounds when a request
// leaves its bounds zero.
func (s *Server) defaultBounds(b motion.Bounds) motion.Bounds {
	if b == (motion.Bounds{}) {
		return s.bounds.Bounds
	}
	return b
}

// handleGenerate derives a motion config from a seed.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	cfg, err := motion.GenerateConfig(s.defaultBounds(req.Bounds), req.Seed)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, GenerateResponse{
		Config:        cfg,
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}

// handleSweep runs a seed sweep and persists the run with its hits.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req sweep.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	req.Bounds = s.defaultBounds(req.Bounds)
	if err := ValidateSweepRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}
	if req.TimeoutMs == 0 {
		req.TimeoutMs = 60000
	}

	s.logger.Printf("sweep metric=%s seeds=%d-%d op=%s val=%v limit=%d",
		req.Metric, req.SeedStart, req.SeedEnd, req.TargetOp, req.TargetVal, req.Limit)

	result, err := s.sweeper.Sweep(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		errType := ErrTypeInternal
		if errors.Is(err, sweep.ErrInvalidRange) || errors.Is(err, sweep.ErrUnknownMetric) {
			status = http.StatusBadRequest
			errType = ErrTypeValidation
		}
		s.writeError(w, r, status, errType, err.Error(), nil)
		return
	}

	run := &store.SweepRun{
		Metric:         string(req.Metric),
		SeedStart:      req.SeedStart,
		SeedEnd:        req.SeedEnd,
		TargetOp:       string(req.TargetOp),
		TargetVal:      req.TargetVal,
		TargetVal2:     req.TargetVal2,
		Tolerance:      req.Tolerance,
		HitLimit:       req.Limit,
		TimedOut:       result.Summary.TimedOut,
		HitCount:       result.Summary.HitsFound,
		TotalEvaluated: result.Summary.TotalEvaluated,
		SummaryMin:     result.Summary.MinValue,
		SummaryMax:     result.Summary.MaxValue,
		SummaryMean:    result.Summary.MeanValue,
		EngineVersion:  result.EngineVersion,
	}
	if err := s.db.SaveSweep(run, result.Hits); err != nil {
		s.logger.Printf("failed to persist sweep: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to persist sweep", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, SweepResponse{
		RunID:         run.ID,
		Hits:          result.Hits,
		Summary:       result.Summary,
		EngineVersion: result.EngineVersion,
		Echo:          result.Echo,
	})
}

// handleGetSweep returns a stored sweep run with its hits.
func (s *Server) handleGetSweep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, hits, err := s.db.GetSweep(id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "sweep not found", nil)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":            run,
		"hits":           hits,
		"engine_version": EngineVersion,
	})
}

// handleCreateCourse generates a course from a seed and persists it.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := ValidateCourseRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	c, err := course.Generate(req.Seed, s.defaultBounds(req.Bounds), req.Sites)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}
	if err := s.db.SaveCourse(c); err != nil {
		s.logger.Printf("failed to persist course: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to persist course", nil)
		return
	}

	s.writeJSON(w, http.StatusCreated, CourseResponse{Course: c, EngineVersion: EngineVersion})
}

// handleListCourses returns a page of stored courses.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	query := store.CoursesQuery{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "perPage", 25),
	}

	list, err := s.db.ListCourses(query)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

// handleGetCourse returns one course with its targets.
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := s.db.GetCourse(id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "course not found", nil)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, CourseResponse{Course: c, EngineVersion: EngineVersion})
}

// handleTargetState returns a target's position and velocity at time t.
// This is the per-frame surface: the renderer polls it (or mirrors its
// math) with a monotonically increasing session time.
func (s *Server) handleTargetState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tStr := r.URL.Query().Get("t")
	if tStr == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "query parameter t (milliseconds) is required", nil)
		return
	}
	tMillis, err := strconv.ParseFloat(tStr, 64)
	if err != nil || math.IsNaN(tMillis) || math.IsInf(tMillis, 0) || tMillis < 0 {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "t must be a non-negative finite number", nil)
		return
	}

	target, err := s.db.GetTarget(id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "target not found", nil)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	pos, vel := target.StateAt(tMillis)
	s.writeJSON(w, http.StatusOK, TargetStateResponse{
		TargetID:      target.ID.String(),
		TimeMillis:    tMillis,
		Position:      pos,
		Velocity:      vel,
		Config:        target.Config,
		EngineVersion: EngineVersion,
	})
}

// handleImpact composes dialed mils, hold, and wind into an impact point.
func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	var req ImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := ValidateImpactRequest(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	turret := ballistics.DialMils(req.ElevationMils, req.WindageMils)
	aim := turret.AimCorrection(req.Distance).Add(req.Hold)
	impact := ballistics.Impact(ballistics.Shot{
		Aim:          aim,
		Distance:     req.Distance,
		Crosswind:    req.Crosswind,
		TimeOfFlight: req.TimeOfFlight,
	})

	s.writeJSON(w, http.StatusOK, ImpactResponse{
		Aim:           aim,
		Impact:        impact,
		EngineVersion: EngineVersion,
		Echo:          req,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		EngineVersion: EngineVersion,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReadiness reports readiness, including database reachability.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeInternal, "store not configured", nil)
		return
	}
	if err := s.db.Ping(); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeInternal, "store unreachable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ready",
		EngineVersion: EngineVersion,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
