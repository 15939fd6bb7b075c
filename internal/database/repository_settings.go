package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"photon-trading-bot/internal/settings"
)

const settingsKey = "global"

// GetSettings loads the settings document. When no row exists yet, the
// defaults are seeded and returned.
func (db *DB) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var raw []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT value_json FROM app_settings WHERE key = $1`, settingsKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := settings.Default()
		if err := db.SaveSettings(ctx, defaults); err != nil {
			return nil, fmt.Errorf("seed default settings: %w", err)
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var s settings.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse stored settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("stored settings invalid: %w", err)
	}
	return &s, nil
}

// SaveSettings validates and upserts the settings document.
func (db *DB) SaveSettings(ctx context.Context, s *settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO app_settings (key, value_json, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value_json = EXCLUDED.value_json, updated_at = EXCLUDED.updated_at`,
		settingsKey, raw, time.Now())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
