package database

import (
	"encoding/json"
	"time"
)

// EventRecord is one row of the append-only event log.
type EventRecord struct {
	ID      int64           `json:"id"`
	TS      time.Time       `json:"ts"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Event kinds written by the engine. Hard-gate failures are results, not
// errors, so they appear inside thought payloads rather than as kinds.
const (
	EventKindThought           = "thought"
	EventKindCronTick          = "cron_tick"
	EventKindAPIError          = "api_error"
	EventKindLLMError          = "llm_error"
	EventKindTradeExecutePaper = "trade_execute_paper"
	EventKindTradeExecuteLive  = "trade_execute_live"
	EventKindSettingsUpdated   = "settings_updated"
)
