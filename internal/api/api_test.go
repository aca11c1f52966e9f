package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rangeforge/marksim/internal/config"
	"github.com/rangeforge/marksim/internal/course"
	"github.com/rangeforge/marksim/internal/motion"
	"github.com/rangeforge/marksim/internal/store"
	"github.com/rangeforge/marksim/internal/sweep"
	"github.com/rangeforge/marksim/internal/world"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	srv := NewServer(db, config.GenerationConfig{Bounds: motion.DefaultBounds()})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body, out interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
	}
	return resp
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
	}
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var health HealthResponse
	if resp := getJSON(t, ts.URL+"/health", &health); resp.StatusCode != http.StatusOK {
		t.Errorf("Health status = %d", resp.StatusCode)
	}
	if health.Status != "ok" {
		t.Errorf("Health status = %q, want ok", health.Status)
	}

	var ready HealthResponse
	if resp := getJSON(t, ts.URL+"/health/ready", &ready); resp.StatusCode != http.StatusOK {
		t.Errorf("Readiness status = %d", resp.StatusCode)
	}
	if ready.Status != "ready" {
		t.Errorf("Readiness status = %q, want ready", ready.Status)
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/generate", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Preflight request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Preflight status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want %q", got, "*")
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("Allow-Headers = %q", got)
	}

	// Simple requests carry the headers too.
	simple := getJSON(t, ts.URL+"/health", nil)
	if got := simple.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin on GET = %q, want %q", got, "*")
	}
}

func TestGenerateEndpointDeterministic(t *testing.T) {
	ts := newTestServer(t)

	req := GenerateRequest{Seed: 42}
	var first, second GenerateResponse

	if resp := postJSON(t, ts.URL+"/api/v1/generate", req, &first); resp.StatusCode != http.StatusOK {
		t.Fatalf("Generate status = %d", resp.StatusCode)
	}
	postJSON(t, ts.URL+"/api/v1/generate", req, &second)

	if first.Config != second.Config {
		t.Errorf("Same seed generated different configs: %+v vs %+v", first.Config, second.Config)
	}
	if first.Echo.Seed != 42 {
		t.Errorf("Echo seed = %d, want 42", first.Echo.Seed)
	}

	want, err := motion.GenerateConfig(motion.DefaultBounds(), 42)
	if err != nil {
		t.Fatalf("GenerateConfig failed: %v", err)
	}
	if first.Config != want {
		t.Errorf("HTTP config %+v differs from library config %+v", first.Config, want)
	}
}

func TestCourseLifecycle(t *testing.T) {
	ts := newTestServer(t)

	var created CourseResponse
	resp := postJSON(t, ts.URL+"/api/v1/courses", CourseRequest{
		Seed: 42,
		Sites: []course.Site{
			{Center: world.Point{Y: 1.0, Z: 0}, Distance: 100},
			{Center: world.Point{Y: 1.2, Z: 2.0}, Distance: 200},
		},
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create course status = %d", resp.StatusCode)
	}
	if len(created.Course.Targets) != 2 {
		t.Fatalf("Created course has %d targets, want 2", len(created.Course.Targets))
	}

	var fetched CourseResponse
	if resp := getJSON(t, ts.URL+"/api/v1/courses/"+created.Course.ID.String(), &fetched); resp.StatusCode != http.StatusOK {
		t.Fatalf("Get course status = %d", resp.StatusCode)
	}
	if fetched.Course.Seed != 42 {
		t.Errorf("Fetched seed = %d, want 42", fetched.Course.Seed)
	}

	var list store.CoursesList
	if resp := getJSON(t, ts.URL+"/api/v1/courses", &list); resp.StatusCode != http.StatusOK {
		t.Fatalf("List courses status = %d", resp.StatusCode)
	}
	if list.TotalCount != 1 {
		t.Errorf("List total = %d, want 1", list.TotalCount)
	}
}

func TestTargetStateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var created CourseResponse
	postJSON(t, ts.URL+"/api/v1/courses", CourseRequest{
		Seed:  7,
		Sites: []course.Site{{Center: world.Point{Y: 1.0, Z: -0.5}, Distance: 150}},
	}, &created)

	target := created.Course.Targets[0]
	url := fmt.Sprintf("%s/api/v1/targets/%s/state?t=250", ts.URL, target.ID)

	var state TargetStateResponse
	if resp := getJSON(t, url, &state); resp.StatusCode != http.StatusOK {
		t.Fatalf("Target state status = %d", resp.StatusCode)
	}

	wantPos := motion.Position(target.Center, target.Config, 250)
	wantVel := motion.Velocity(target.Config, 250)
	if math.Abs(state.Position.Y-wantPos.Y) > 1e-12 || math.Abs(state.Position.Z-wantPos.Z) > 1e-12 {
		t.Errorf("Position %v, want %v", state.Position, wantPos)
	}
	if math.Abs(state.Velocity.Y-wantVel.Y) > 1e-12 || math.Abs(state.Velocity.Z-wantVel.Z) > 1e-12 {
		t.Errorf("Velocity %v, want %v", state.Velocity, wantVel)
	}

	// Missing and malformed time values are rejected.
	if resp := getJSON(t, fmt.Sprintf("%s/api/v1/targets/%s/state", ts.URL, target.ID), nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Missing t status = %d, want 400", resp.StatusCode)
	}
	if resp := getJSON(t, fmt.Sprintf("%s/api/v1/targets/%s/state?t=-5", ts.URL, target.ID), nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Negative t status = %d, want 400", resp.StatusCode)
	}
	if resp := getJSON(t, ts.URL+"/api/v1/targets/unknown/state?t=0", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("Unknown target status = %d, want 404", resp.StatusCode)
	}
}

// Dialing windage -1.0 mil at 100 m must surface as aim +0.1 and, with no
// wind, impact +0.1: the sign contract exercised over the full HTTP path.
func TestImpactEndpointSignContract(t *testing.T) {
	ts := newTestServer(t)

	var out ImpactResponse
	resp := postJSON(t, ts.URL+"/api/v1/impact", ImpactRequest{
		WindageMils:  -1.0,
		Distance:     100,
		Crosswind:    0,
		TimeOfFlight: 0.3,
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Impact status = %d", resp.StatusCode)
	}

	if math.Abs(out.Aim.Z-0.1) > 1e-12 {
		t.Errorf("Aim Z = %v, want +0.1", out.Aim.Z)
	}
	if math.Abs(out.Impact.Z-0.1) > 1e-12 {
		t.Errorf("Impact Z = %v, want +0.1", out.Impact.Z)
	}

	// Positive crosswind must push the impact right of the aim point.
	var windy ImpactResponse
	postJSON(t, ts.URL+"/api/v1/impact", ImpactRequest{
		Distance:     100,
		Crosswind:    4.0,
		TimeOfFlight: 0.3,
	}, &windy)
	if windy.Impact.Z <= windy.Aim.Z {
		t.Errorf("Positive crosswind drifted left: impact %v vs aim %v", windy.Impact.Z, windy.Aim.Z)
	}
}

func TestSweepEndpointPersistsRun(t *testing.T) {
	ts := newTestServer(t)

	var out SweepResponse
	resp := postJSON(t, ts.URL+"/api/v1/sweep", sweep.Request{
		Metric:    sweep.MetricSpeed,
		SeedStart: 1,
		SeedEnd:   500,
		TargetOp:  sweep.OpGreaterEqual,
		TargetVal: 0.9,
		Limit:     20,
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Sweep status = %d", resp.StatusCode)
	}
	if out.RunID == "" {
		t.Fatal("Sweep response missing run id")
	}
	if out.Summary.TotalEvaluated == 0 {
		t.Error("No seeds evaluated")
	}

	var stored struct {
		Run  store.SweepRun `json:"run"`
		Hits []sweep.Hit    `json:"hits"`
	}
	if resp := getJSON(t, ts.URL+"/api/v1/sweeps/"+out.RunID, &stored); resp.StatusCode != http.StatusOK {
		t.Fatalf("Get sweep status = %d", resp.StatusCode)
	}
	if stored.Run.HitCount != out.Summary.HitsFound {
		t.Errorf("Stored hit count %d, want %d", stored.Run.HitCount, out.Summary.HitsFound)
	}
	if len(stored.Hits) != len(out.Hits) {
		t.Errorf("Stored %d hits, want %d", len(stored.Hits), len(out.Hits))
	}
}

func TestValidateSweepRequestRangeCap(t *testing.T) {
	tests := []struct {
		name    string
		start   int64
		end     int64
		wantErr bool
	}{
		{"at cap", 0, maxSweepRange, false},
		{"over cap", 0, maxSweepRange + 1, true},
		{"wide negative range", math.MinInt64, 0, true},
		// SeedEnd-SeedStart wraps to -1 here; the width check must
		// still reject the request.
		{"full int64 range", math.MinInt64, math.MaxInt64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sweep.Request{
				Metric:    sweep.MetricSpeed,
				SeedStart: tt.start,
				SeedEnd:   tt.end,
				TargetOp:  sweep.OpGreater,
			}
			err := ValidateSweepRequest(&req)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for range [%d, %d]", tt.start, tt.end)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error for range [%d, %d]: %v", tt.start, tt.end, err)
			}
		})
	}
}

func TestSweepEndpointRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		req  sweep.Request
	}{
		{"inverted range", sweep.Request{Metric: sweep.MetricSpeed, SeedStart: 10, SeedEnd: 1, TargetOp: sweep.OpGreater}},
		{"unknown metric", sweep.Request{Metric: "altitude", SeedStart: 1, SeedEnd: 10, TargetOp: sweep.OpGreater}},
		{"missing op", sweep.Request{Metric: sweep.MetricSpeed, SeedStart: 1, SeedEnd: 10}},
		{"range over cap", sweep.Request{Metric: sweep.MetricSpeed, SeedStart: 0, SeedEnd: maxSweepRange + 1, TargetOp: sweep.OpGreater}},
		{"full int64 range", sweep.Request{Metric: sweep.MetricSpeed, SeedStart: math.MinInt64, SeedEnd: math.MaxInt64, TargetOp: sweep.OpGreater}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp APIError
			resp := postJSON(t, ts.URL+"/api/v1/sweep", tt.req, &errResp)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", resp.StatusCode)
			}
			if errResp.Type != ErrTypeValidation {
				t.Errorf("Error type = %q, want %q", errResp.Type, ErrTypeValidation)
			}
		})
	}
}
