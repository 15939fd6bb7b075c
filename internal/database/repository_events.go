package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// AppendEvent writes one event_log row. Payload must marshal to JSON.
func (db *DB) AppendEvent(ctx context.Context, kind string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO event_log (ts, kind, payload_json) VALUES ($1, $2, $3)`,
		time.Now(), kind, raw)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first. An empty kind
// matches all kinds.
func (db *DB) RecentEvents(ctx context.Context, kind string, limit int) ([]EventRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT id, ts, kind, payload_json FROM event_log ORDER BY id DESC LIMIT $1`
	args := []interface{}{limit}
	if kind != "" {
		query = `SELECT id, ts, kind, payload_json FROM event_log WHERE kind = $1 ORDER BY id DESC LIMIT $2`
		args = []interface{}{kind, limit}
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]EventRecord, 0, limit)
	for rows.Next() {
		var e EventRecord
		var raw []byte
		if err := rows.Scan(&e.ID, &e.TS, &e.Kind, &raw); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Payload = json.RawMessage(raw)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
