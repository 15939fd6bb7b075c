package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"photon-trading-bot/internal/database"
	"photon-trading-bot/internal/logging"
	"photon-trading-bot/internal/settings"
)

// SettingsService is the read/write path for the settings document:
// cache first, database on miss, defaults seeded when the database is
// empty. Writes go through the database and then refresh the cache.
type SettingsService struct {
	cache *CacheService
	db    *database.DB
	log   *logging.Logger
}

func NewSettingsService(cache *CacheService, db *database.DB) *SettingsService {
	return &SettingsService{
		cache: cache,
		db:    db,
		log:   logging.WithComponent("settings"),
	}
}

// Load returns the current settings document.
func (ss *SettingsService) Load(ctx context.Context) (*settings.Settings, error) {
	if ss.cache != nil {
		var s settings.Settings
		err := ss.cache.GetJSON(ctx, KeySettings, &s)
		if err == nil {
			return &s, nil
		}
		if err != redis.Nil {
			ss.log.Debug("settings cache read failed, falling back to database", "error", err)
		}
	}

	s, err := ss.db.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if ss.cache != nil {
		if err := ss.cache.SetJSON(ctx, KeySettings, s, DefaultSettingsTTL); err != nil {
			ss.log.Debug("settings cache populate failed", "error", err)
		}
	}
	return s, nil
}

// Save validates, persists, and refreshes the cached copy. On a cache
// refresh failure the key is dropped so the next Load reads the database.
func (ss *SettingsService) Save(ctx context.Context, s *settings.Settings) error {
	if err := ss.db.SaveSettings(ctx, s); err != nil {
		return err
	}

	if ss.cache != nil {
		if err := ss.cache.SetJSON(ctx, KeySettings, s, DefaultSettingsTTL); err != nil {
			ss.log.Warn("settings cache refresh failed, invalidating", "error", err)
			if delErr := ss.cache.Delete(ctx, KeySettings); delErr != nil {
				ss.log.Warn("settings cache invalidate failed", "error", delErr)
			}
		}
	}
	return nil
}

// Invalidate drops the cached settings document.
func (ss *SettingsService) Invalidate(ctx context.Context) {
	if ss.cache == nil {
		return
	}
	if err := ss.cache.Delete(ctx, KeySettings); err != nil {
		ss.log.Debug("settings cache invalidate failed", "error", err)
	}
}
