// Package schedule exposes scheduling runs over HTTP.
package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/unitcommit/app"
	"github.com/kilianp07/unitcommit/config"
	"github.com/kilianp07/unitcommit/core/model"
)

// Runner runs one schedule.
type Runner interface {
	Run(ctx context.Context, req app.Request) (*app.Result, error)
}

// Loader reads back a stored schedule.
type Loader interface {
	LoadSchedule(ctx context.Context, runID string) (*model.Schedule, error)
}

// Response is the body of a run reply.
type Response struct {
	RunID      string          `json:"run_id"`
	State      string          `json:"state"`
	Schedule   *model.Schedule `json:"schedule,omitempty"`
	Violations int             `json:"violations,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// NewHandler returns the schedule API:
//
//	POST /api/schedule          run the posted input
//	GET  /api/schedule/{run_id} read a stored schedule (only with a loader)
//
// Requests must include an Authorization header with "Bearer <token>" when
// token is non-empty.
func NewHandler(runner Runner, loader Loader, token string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/schedule", func(w http.ResponseWriter, r *http.Request) {
		var in config.Input
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{State: "rejected", Error: err.Error()})
			return
		}
		units, profiles, start, err := in.Resolve(model.DayAhead)
		if err != nil {
			writeJSON(w, StatusCode(err), Response{State: "rejected", Error: err.Error()})
			return
		}
		res, err := runner.Run(r.Context(), app.Request{Units: units, Profiles: profiles, Start: start})
		out := Response{State: "rejected"}
		if res != nil {
			out.RunID = res.RunID
			if res.Report != nil {
				out.State = res.Report.State.String()
				out.Schedule = res.Report.Schedule
				out.Violations = len(res.Report.Violations)
			}
		}
		if err != nil {
			out.Error = err.Error()
		}
		writeJSON(w, StatusCode(err), out)
	})
	if loader != nil {
		mux.HandleFunc("GET /api/schedule/{run_id}", func(w http.ResponseWriter, r *http.Request) {
			s, err := loader.LoadSchedule(r.Context(), r.PathValue("run_id"))
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			case err != nil:
				http.Error(w, "schedule store unavailable", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, s)
		})
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// StatusCode maps a run error to an HTTP status.
func StatusCode(err error) int {
	var (
		ie *model.InputValidationError
		se *model.SolverError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ie):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrModelInfeasible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrSolverTimeout):
		return http.StatusServiceUnavailable
	case errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
