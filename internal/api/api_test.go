package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/millrun-io/millrun/internal/demo"
	"github.com/millrun-io/millrun/internal/domain"
	"github.com/millrun-io/millrun/internal/infra/store"
	"github.com/millrun-io/millrun/internal/solver"
)

func testServer(t *testing.T, history bool) *Server {
	t.Helper()
	opts := solver.DefaultOptions()
	opts.TimeBudget = 10 * time.Second
	opts.Workers = 1

	s := NewServer(opts, "test")
	if history {
		db, err := store.Open(t.TempDir())
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		s.SetHistory(db)
	}
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndVersion(t *testing.T) {
	h := testServer(t, false).Handler()

	rec := doJSON(t, h, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, "GET", "/api/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/version status = %d, want 200", rec.Code)
	}
	var v map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if v["version"] != "test" {
		t.Errorf("version = %q, want %q", v["version"], "test")
	}
}

func TestDemoEndpoint(t *testing.T) {
	h := testServer(t, false).Handler()

	rec := doJSON(t, h, "GET", "/api/v1/demo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("demo status = %d, want 200", rec.Code)
	}
	var sc domain.Scenario
	if err := json.Unmarshal(rec.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode scenario: %v", err)
	}
	if len(sc.Machines) != 3 {
		t.Errorf("default demo machines = %d, want 3", len(sc.Machines))
	}

	rec = doJSON(t, h, "GET", "/api/v1/demo?size=large&seed=7", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode large scenario: %v", err)
	}
	if len(sc.Machines) != 10 {
		t.Errorf("large demo machines = %d, want 10", len(sc.Machines))
	}

	rec = doJSON(t, h, "GET", "/api/v1/demo?seed=notanumber", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad seed status = %d, want 400", rec.Code)
	}
}

func TestScheduleEndpoint(t *testing.T) {
	h := testServer(t, false).Handler()

	rec := doJSON(t, h, "POST", "/api/v1/schedule", demo.Fixed(false))
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res domain.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Status != domain.StatusOptimal && res.Status != domain.StatusFeasible {
		t.Errorf("Status = %s, want OPTIMAL or FEASIBLE", res.Status)
	}
	if len(res.Schedule) == 0 {
		t.Error("schedule is empty")
	}
}

func TestScheduleEndpoint_BadJSON(t *testing.T) {
	h := testServer(t, false).Handler()

	req := httptest.NewRequest("POST", "/api/v1/schedule", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", rec.Code)
	}
}

func TestScheduleEndpoint_NoCapableMachine(t *testing.T) {
	h := testServer(t, false).Handler()

	sc := domain.Scenario{
		Machines: []domain.Machine{{Name: "M1", Operations: []string{"cutting"}}},
		Products: []domain.Product{{Name: "P1", Tasks: []domain.RecipeTask{
			{Operation: "levitation", Duration: 1},
		}}},
		Orders: []domain.Order{{Product: "P1", Quantity: 1, Deadline: 10}},
	}

	rec := doJSON(t, h, "POST", "/api/v1/schedule", sc)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	var res domain.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Status != domain.StatusInfeasible {
		t.Errorf("Status = %s, want INFEASIBLE", res.Status)
	}
	if !strings.Contains(res.Message, "levitation") {
		t.Errorf("Message %q does not name the unsupported operation", res.Message)
	}
}

func TestRunHistory(t *testing.T) {
	h := testServer(t, true).Handler()

	rec := doJSON(t, h, "POST", "/api/v1/schedule", demo.Fixed(false))
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/api/v1/runs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("runs status = %d, want 200", rec.Code)
	}
	var list struct {
		Runs []store.Run `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(list.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(list.Runs))
	}

	rec = doJSON(t, h, "GET", "/api/v1/runs/"+list.Runs[0].ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("run by id status = %d, want 200", rec.Code)
	}
	var run store.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if len(run.Result.Schedule) == 0 {
		t.Error("stored run is missing its schedule")
	}

	rec = doJSON(t, h, "GET", "/api/v1/runs/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", rec.Code)
	}
}

func TestRunHistory_Disabled(t *testing.T) {
	h := testServer(t, false).Handler()

	if rec := doJSON(t, h, "GET", "/api/v1/runs", nil); rec.Code != http.StatusNotFound {
		t.Errorf("runs status = %d, want 404 when history is disabled", rec.Code)
	}
}
