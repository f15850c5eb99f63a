package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/millrun-io/millrun/internal/demo"
	"github.com/millrun-io/millrun/internal/domain"
	"github.com/millrun-io/millrun/internal/infra/metrics"
	"github.com/millrun-io/millrun/internal/infra/store"
	"github.com/millrun-io/millrun/internal/solver"
)

// handleSchedule solves a scenario posted as JSON and returns the result.
// A scenario that cannot be scheduled at all still gets a structured
// INFEASIBLE result rather than a bare error.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var sc domain.Scenario
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario JSON: "+err.Error())
		return
	}

	res, err := solver.Solve(r.Context(), sc, s.opts)
	if err != nil {
		if errors.Is(err, domain.ErrNoCapableMachine) {
			res.Status = domain.StatusInfeasible
			res.Message = err.Error()
			writeJSON(w, http.StatusUnprocessableEntity, res)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.observe(sc, res)
	writeJSON(w, http.StatusOK, res)
}

// observe records a completed solve in metrics and, when enabled, history.
func (s *Server) observe(sc domain.Scenario, res domain.Result) {
	metrics.SolvesTotal.WithLabelValues(string(res.Status)).Inc()
	metrics.SolveDuration.Observe(res.SolveTime.Seconds())
	metrics.TasksScheduled.Add(float64(len(res.Schedule)))
	metrics.ViolationHours.Add(float64(res.TotalViolationHours))
	metrics.LastMakespan.Set(float64(res.Makespan))
	metrics.OrdersSkipped.Add(float64(len(res.SkippedOrders)))

	if s.history != nil {
		if _, err := s.history.Record(sc, res); err != nil {
			log.Printf("[api] record run: %v", err)
		}
	}
}

// handleDemo returns a generated demo scenario. Query parameters:
// size (small|large|extreme), tight (bool, small only), seed (int64).
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	size := q.Get("size")
	if size == "" {
		size = "small"
	}
	tight := q.Get("tight") == "true" || q.Get("tight") == "1"

	var seed int64
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid seed: "+v)
			return
		}
		seed = n
	}

	writeJSON(w, http.StatusOK, demo.BySize(size, tight, seed))
}

// handleListRuns returns recent run summaries, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit: "+v)
			return
		}
		limit = n
	}

	runs, err := s.history.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}

// handleGetRun returns one run with its full scenario and result.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.history.Get(id)
	if errors.Is(err, domain.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found: "+id)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}
