package llm

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"photon-trading-bot/internal/settings"
)

// Worker tracks one advisory endpoint's capacity. In-flight counts are
// owned by the pool and mutated only under its lock.
type Worker struct {
	Key            string
	Name           string
	endpoint       settings.LLMEndpoint
	maxConcurrency int
	inflight       int
}

// WorkerStatus is a point-in-time capacity snapshot for diagnostics.
type WorkerStatus struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	InFlight       int    `json:"in_flight"`
	MaxConcurrency int    `json:"max_concurrency"`
}

// Pool owns the advisory worker state. It is constructed once at process
// start and passed by handle to every routing call; there is no package
// global. Concurrent evaluations share the pool, and the in-flight counter
// discipline (increment before dispatch, decrement on every exit path) is
// what keeps a worker from exceeding its ceiling.
type Pool struct {
	mu      sync.Mutex
	workers map[string]*Worker
	client  *Client
}

// NewPool creates an empty advisory pool.
func NewPool(client *Client) *Pool {
	if client == nil {
		client = NewClient()
	}
	return &Pool{
		workers: make(map[string]*Worker),
		client:  client,
	}
}

// WorkerKey identifies a worker across settings reloads.
func WorkerKey(ep settings.LLMEndpoint) string {
	return strings.TrimRight(ep.BaseURL, "/") + "||" + ep.Model
}

// Route dispatches the context pack to the least-loaded eligible worker and
// returns its parsed verdict. A full pool and a disabled advisory layer both
// return (nil, nil): "no advisory available" is an outcome, not a failure.
// Transport errors are returned so the caller can log them, but the caller
// degrades to the hard decision either way. Malformed verdict bodies also
// resolve to (nil, nil).
func (p *Pool) Route(ctx context.Context, s *settings.Settings, pack ContextPack) (*Advisory, error) {
	if !s.LLM.Enabled || len(s.LLM.Endpoints) == 0 {
		return nil, nil
	}

	w := p.acquire(s.LLM.Endpoints)
	if w == nil {
		return nil, nil
	}
	defer p.release(w)

	packJSON, err := json.Marshal(pack)
	if err != nil {
		return nil, err
	}
	system := s.LLM.Prompts.DecisionSystem
	user := strings.Replace(s.LLM.Prompts.DecisionUserTemplate, "{{pack}}", string(packJSON), 1)

	content, err := p.client.Complete(ctx, w.endpoint, system, user)
	if err != nil {
		return nil, err
	}

	verdict, ok := parseVerdict(content)
	if !ok {
		return nil, nil
	}
	return &Advisory{Worker: w.Key, Decision: *verdict}, nil
}

// Snapshot returns the current capacity state of every known worker.
func (p *Pool) Snapshot() []WorkerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]WorkerStatus, 0, len(p.workers))
	for _, w := range p.workers {
		out = append(out, WorkerStatus{
			Key:            w.Key,
			Name:           w.Name,
			InFlight:       w.inflight,
			MaxConcurrency: w.maxConcurrency,
		})
	}
	return out
}

// acquire syncs the worker set with the endpoint list, then reserves the
// worker with the smallest in-flight count strictly below its ceiling, ties
// broken by list order. Returns nil when every worker is saturated.
func (p *Pool) acquire(endpoints []settings.LLMEndpoint) *Worker {
	p.mu.Lock()
	defer p.mu.Unlock()

	var best *Worker
	for _, ep := range endpoints {
		key := WorkerKey(ep)
		w, ok := p.workers[key]
		if !ok {
			w = &Worker{Key: key}
			p.workers[key] = w
		}
		// Ceiling and endpoint config may change between settings reloads;
		// the in-flight count survives.
		w.Name = ep.Name
		w.endpoint = ep
		w.maxConcurrency = ep.MaxConcurrency

		if w.inflight >= w.maxConcurrency {
			continue
		}
		if best == nil || w.inflight < best.inflight {
			best = w
		}
	}

	if best != nil {
		best.inflight++
	}
	return best
}

// release must run on every exit path of a dispatch; a missed decrement
// leaks capacity permanently.
func (p *Pool) release(w *Worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w.inflight > 0 {
		w.inflight--
	}
}

// parseVerdict decodes a worker's JSON verdict. Non-JSON content yields no
// verdict; a JSON body with an unrecognized intent coerces to hold.
func parseVerdict(content string) (*Verdict, bool) {
	var raw struct {
		Intent        string        `json:"intent"`
		Confidence    interface{}   `json:"confidence"`
		Rationale     []interface{} `json:"rationale"`
		Risks         []interface{} `json:"risks"`
		Invalidations []interface{} `json:"invalidations"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, false
	}

	intent := raw.Intent
	if intent != "buy" && intent != "sell" {
		intent = "hold"
	}

	confidence := 0.0
	if f, ok := raw.Confidence.(float64); ok {
		confidence = f
	}

	return &Verdict{
		Intent:        intent,
		Confidence:    confidence,
		Rationale:     toStrings(raw.Rationale),
		Risks:         toStrings(raw.Risks),
		Invalidations: toStrings(raw.Invalidations),
	}, true
}

func toStrings(vs []interface{}) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
