package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/unitcommit/auth"
	"github.com/kilianp07/unitcommit/core/milp"
	coresolver "github.com/kilianp07/unitcommit/core/solver"
)

func TestService_Solve(t *testing.T) {
	var got serviceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/solve", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "optimal",
			"objective": 8,
			"values":    map[string]float64{"x": 3, "b": 1},
		})
	}))
	defer srv.Close()

	s, err := NewService(ServiceConfig{URL: srv.URL + "/", Token: "secret", Path: "/v1/solve"}, nop)
	require.NoError(t, err)
	sol, err := s.Solve(context.Background(), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusOptimal, sol.Status)
	assert.Equal(t, []float64{3, 1}, sol.Values)

	require.Len(t, got.Variables, 2)
	assert.Equal(t, "binary", got.Variables[1].Kind)
	require.NotNil(t, got.Variables[0].Upper)
	assert.Equal(t, 10.0, *got.Variables[0].Upper)
	require.Len(t, got.Constraints, 2)
	assert.Equal(t, ">=", got.Constraints[1].Sense)
	assert.Equal(t, []float64{1, 5}, got.Objective)
	assert.Equal(t, 60, got.TimeLimitSeconds)
}

func TestService_InfiniteBoundsAreNull(t *testing.T) {
	p := milp.New("free")
	p.AddVar("z", -milp.Inf(), milp.Inf(), milp.Continuous)
	req := newServiceRequest(p, 5)
	assert.Nil(t, req.Variables[0].Lower)
	assert.Nil(t, req.Variables[0].Upper)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lower":null`)
}

func TestService_Statuses(t *testing.T) {
	cases := map[string]coresolver.Status{
		"infeasible": coresolver.StatusInfeasible,
		"unbounded":  coresolver.StatusUnbounded,
		"time_limit": coresolver.StatusLimit,
		"crashed":    coresolver.StatusError,
	}
	for status, want := range cases {
		sol, err := serviceResponse{Status: status, Message: "boom"}.solution(tinyProgram())
		require.NoError(t, err)
		assert.Equal(t, want, sol.Status, status)
		assert.Nil(t, sol.Values)
	}
	_, err := serviceResponse{Status: "optimal", Values: map[string]float64{"q": 1}}.solution(tinyProgram())
	assert.Error(t, err)
}

func TestService_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s, err := NewService(ServiceConfig{URL: srv.URL}, nop)
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), tinyProgram())
	assert.ErrorContains(t, err, "503: overloaded")
}

func TestService_OAuthRefreshOnUnauthorized(t *testing.T) {
	var issued, solves int32
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&issued, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"t%d","token_type":"bearer","expires_in":3600}`, n)
	}))
	defer tokens.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&solves, 1)
		if r.Header.Get("Authorization") != "Bearer t2" {
			http.Error(w, "expired", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "infeasible"})
	}))
	defer srv.Close()

	s, err := NewService(ServiceConfig{URL: srv.URL, OAuth: &auth.Conf{ClientID: "uc", ClientSecret: "s", TokenURL: tokens.URL}}, nop)
	require.NoError(t, err)
	sol, err := s.Solve(context.Background(), tinyProgram())
	require.NoError(t, err)
	assert.Equal(t, coresolver.StatusInfeasible, sol.Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&issued))
	assert.Equal(t, int32(2), atomic.LoadInt32(&solves))
}

func TestService_RequiresURL(t *testing.T) {
	_, err := NewService(ServiceConfig{}, nop)
	assert.Error(t, err)
}

func TestBuiltinBackendsRegistered(t *testing.T) {
	for _, name := range []string{"cbc", "glpk", "service"} {
		c := coresolver.Config{Backend: name}
		c.SetDefaults()
		assert.NoError(t, c.Validate(), name)
	}
	_, err := coresolver.NewAdapterFromConfig(coresolver.Config{Backend: "service"}, nop)
	assert.Error(t, err, "service without url")
}
