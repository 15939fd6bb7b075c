// Package recorder assembles the audit records derived from a decision: the
// "thought" (full evaluation snapshot) and the execution-facing proposal.
// Pure assembly; the only side effect is handing records to the event sink.
package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"photon-trading-bot/internal/ai/llm"
	"photon-trading-bot/internal/decision"
	"photon-trading-bot/internal/scoring"
	"photon-trading-bot/internal/settings"
)

// Thought is the serialized evaluation record appended to the event log.
type Thought struct {
	ThoughtID     string              `json:"thought_id"`
	TS            int64               `json:"ts"` // unix milliseconds
	Intent        decision.Intent     `json:"intent"`
	Health        scoring.ScoreResult `json:"health"`
	Signals       decision.Signals    `json:"signals"`
	Plan          decision.Plan       `json:"plan"`
	Reasons       []string            `json:"reasons"`
	LLM           *llm.Advisory       `json:"llm,omitempty"`
	ConfigVersion int                 `json:"config_version"`
}

// Proposal is the derived execution summary. CanExecute gates downstream
// execution; it is not itself a source of truth for position state.
type Proposal struct {
	ProposalID string          `json:"proposal_id"`
	ThoughtID  string          `json:"thought_id"`
	Action     decision.Intent `json:"action"`
	Mode       settings.Mode   `json:"mode"`
	CanExecute bool            `json:"can_execute"`
}

// EventSink is the append-only event log collaborator. Append failures are
// logged by the sink implementation and never fail an evaluation.
type EventSink interface {
	LogEvent(ctx context.Context, kind string, payload interface{})
}

// Recorder stamps decisions with identities and timestamps. The clock and
// id source are injectable for tests.
type Recorder struct {
	sink  EventSink
	now   func() time.Time
	newID func() string
}

// New creates a recorder writing to sink.
func New(sink EventSink) *Recorder {
	return &Recorder{
		sink:  sink,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Emit builds the thought and proposal for a decision and hands the thought
// to the event sink.
func (r *Recorder) Emit(ctx context.Context, s *settings.Settings, d decision.Decision) (Thought, Proposal) {
	thought := Thought{
		ThoughtID:     r.newID(),
		TS:            r.now().UnixMilli(),
		Intent:        d.Intent,
		Health:        d.Health,
		Signals:       d.Signals,
		Plan:          d.Plan,
		Reasons:       d.Reasons,
		LLM:           d.Advisory,
		ConfigVersion: d.ConfigVersion,
	}

	proposal := Proposal{
		ProposalID: r.newID(),
		ThoughtID:  thought.ThoughtID,
		Action:     d.Intent,
		Mode:       s.App.Mode,
		CanExecute: CanExecute(s),
	}

	if r.sink != nil {
		r.sink.LogEvent(ctx, "thought", thought)
	}
	return thought, proposal
}

// CanExecute reports whether downstream execution is permitted: automatic
// execution must be on, and live mode additionally requires the explicit
// live-trading switch.
func CanExecute(s *settings.Settings) bool {
	return s.App.AutoExecute && (s.App.Mode == settings.ModePaper || s.App.EnableLiveTrading)
}
