package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"kothaboli/internal/kvstore"
	"kothaboli/internal/model/story"
)

// Settings owns the process-wide user settings record. Unlike manuscripts,
// settings are tiny and are persisted immediately on every change.
type Settings struct {
	mu       sync.Mutex
	kv       kvstore.Store
	settings story.AppSettings
}

// NewSettings creates a settings store over kv
func NewSettings(kv kvstore.Store) *Settings {
	return &Settings{
		kv:       kv,
		settings: story.DefaultSettings(),
	}
}

// Load reads the durable settings record; absence or corruption falls back
// to defaults and is never an error.
func (s *Settings) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = story.DefaultSettings()
	data, err := s.kv.Get(ctx, kvstore.KeySettings)
	if err != nil {
		if err != kvstore.ErrNotFound {
			log.Warn().Err(err).Msg("failed to read settings record, using defaults")
		}
		return
	}

	var loaded story.AppSettings
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn().Err(err).Msg("settings record is corrupt, using defaults")
		return
	}
	loaded.Normalize()
	s.settings = loaded
}

// Get returns the current settings
func (s *Settings) Get() story.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Set replaces the settings and persists them right away. The in-memory
// value is updated even when the durable write fails.
func (s *Settings) Set(ctx context.Context, settings story.AppSettings) error {
	settings.Normalize()

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, kvstore.KeySettings, data); err != nil {
		log.Warn().Err(err).Msg("failed to persist settings")
		return err
	}
	return nil
}
