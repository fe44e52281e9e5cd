package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/kilianp07/unitcommit/auth"
	"github.com/kilianp07/unitcommit/core/logger"
	"github.com/kilianp07/unitcommit/core/milp"
	coresolver "github.com/kilianp07/unitcommit/core/solver"
)

// ServiceConfig configures the remote optimisation service backend.
type ServiceConfig struct {
	URL   string `json:"url"`
	Token string `json:"token"`
	// Path is appended to URL. Defaults to /solve.
	Path string `json:"path"`
	// OAuth replaces the static token with client-credential tokens.
	OAuth *auth.Conf `json:"oauth"`
}

// Service posts programs to a remote MILP service as JSON.
type Service struct {
	cfg    ServiceConfig
	client *http.Client
	creds  *auth.ClientCred
	log    logger.Logger
}

// NewService returns a Service backend.
func NewService(cfg ServiceConfig, log logger.Logger) (*Service, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("service url is required")
	}
	if cfg.Path == "" {
		cfg.Path = "/solve"
	}
	s := &Service{cfg: cfg, client: &http.Client{}, log: log}
	if cfg.OAuth.Enabled() {
		s.creds = auth.NewClientCred(*cfg.OAuth)
	}
	return s, nil
}

type serviceVar struct {
	Name  string   `json:"name"`
	Lower *float64 `json:"lower"`
	Upper *float64 `json:"upper"`
	Kind  string   `json:"kind"`
}

type serviceTerm struct {
	Var  int     `json:"var"`
	Coef float64 `json:"coef"`
}

type serviceRow struct {
	Name  string        `json:"name"`
	Terms []serviceTerm `json:"terms"`
	Sense string        `json:"sense"`
	RHS   float64       `json:"rhs"`
}

type serviceRequest struct {
	Name             string       `json:"name"`
	Sense            string       `json:"sense"`
	Variables        []serviceVar `json:"variables"`
	Constraints      []serviceRow `json:"constraints"`
	Objective        []float64    `json:"objective"`
	TimeLimitSeconds int          `json:"time_limit_seconds"`
}

type serviceResponse struct {
	Status      string             `json:"status"`
	Termination string             `json:"termination"`
	Objective   float64            `json:"objective"`
	Values      map[string]float64 `json:"values"`
	Message     string             `json:"message"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func newServiceRequest(p *milp.Program, limit int) serviceRequest {
	req := serviceRequest{
		Name:             p.Name,
		Sense:            "min",
		Objective:        p.Objective,
		TimeLimitSeconds: limit,
		Variables:        make([]serviceVar, len(p.Vars)),
		Constraints:      make([]serviceRow, len(p.Rows)),
	}
	for i, v := range p.Vars {
		req.Variables[i] = serviceVar{Name: v.Name, Lower: finite(v.Lower), Upper: finite(v.Upper), Kind: v.Kind.String()}
	}
	for i, r := range p.Rows {
		terms := make([]serviceTerm, len(r.Terms))
		for j, t := range r.Terms {
			terms[j] = serviceTerm{Var: t.Col, Coef: t.Coef}
		}
		req.Constraints[i] = serviceRow{Name: r.Name, Terms: terms, Sense: r.Sense.String(), RHS: r.RHS}
	}
	return req
}

// Solve posts p and decodes the service answer.
func (s *Service) Solve(ctx context.Context, p *milp.Program) (*coresolver.Solution, error) {
	body, err := json.Marshal(newServiceRequest(p, timeLimit(ctx, coresolver.DefaultTimeout)))
	if err != nil {
		return nil, err
	}
	code, data, err := s.post(ctx, body)
	if err != nil {
		return nil, err
	}
	if code == http.StatusUnauthorized && s.creds != nil {
		// the cached token may have been revoked
		if _, err := s.creds.ForceRefresh(ctx); err != nil {
			return nil, err
		}
		if code, data, err = s.post(ctx, body); err != nil {
			return nil, err
		}
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("solver service returned %d: %s", code, strings.TrimSpace(string(data)))
	}
	var out serviceResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode solver service response: %w", err)
	}
	return out.solution(p)
}

func (s *Service) post(ctx context.Context, body []byte) (int, []byte, error) {
	url := strings.TrimRight(s.cfg.URL, "/") + s.cfg.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case s.creds != nil:
		if err := s.creds.SetAuthHeader(ctx, req); err != nil {
			return 0, nil, err
		}
	case s.cfg.Token != "":
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	s.log.Debugf("solver service answered %d in %s", resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func (r serviceResponse) solution(p *milp.Program) (*coresolver.Solution, error) {
	sol := &coresolver.Solution{Termination: r.Termination, Objective: r.Objective}
	switch strings.ToLower(r.Status) {
	case "optimal":
		sol.Status = coresolver.StatusOptimal
	case "feasible":
		sol.Status = coresolver.StatusFeasible
	case "infeasible":
		sol.Status = coresolver.StatusInfeasible
	case "unbounded":
		sol.Status = coresolver.StatusUnbounded
	case "time_limit":
		sol.Status = coresolver.StatusLimit
	default:
		sol.Status = coresolver.StatusError
		if sol.Termination == "" {
			sol.Termination = r.Message
		}
	}
	if sol.Status != coresolver.StatusOptimal && sol.Status != coresolver.StatusFeasible {
		return sol, nil
	}
	sol.Values = make([]float64, p.NumVars())
	for name, v := range r.Values {
		col, ok := p.Col(name)
		if !ok {
			return nil, fmt.Errorf("solver service returned unknown column %q", name)
		}
		sol.Values[col] = v
	}
	return sol, nil
}
