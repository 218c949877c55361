package store

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/repository"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/metrics"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo stores one KV key per preference field. Reads default
// when the key is absent or unreadable; writes go straight through.
type SettingsRepo struct {
	kv  KV
	log *zerolog.Logger
}

func NewSettingsRepo(kv KV, log *zerolog.Logger) *SettingsRepo {
	return &SettingsRepo{kv: kv, log: log}
}

func (r *SettingsRepo) Get(ctx context.Context) model.Settings {
	s := model.DefaultSettings()
	if v, ok := r.read(ctx, KeyAPIKey); ok {
		s.APIKey = v
	}
	if v, ok := r.read(ctx, KeyFontSize); ok && model.ValidFontSize(v) {
		s.FontSize = v
	}
	if v, ok := r.read(ctx, KeyAutoSave); ok {
		s.AutoSave = v != "false"
	}
	if v, ok := r.read(ctx, KeySoundEnabled); ok {
		s.SoundEnabled = v == "true"
	}
	if v, ok := r.read(ctx, KeyTheme); ok && model.ValidTheme(v) {
		s.Theme = v
	}
	return s
}

func (r *SettingsRepo) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		// Unreadable settings fall back to defaults, same as absent.
		r.log.Warn().Err(err).Str("key", key).Msg("setting unreadable, using default")
		return "", false
	}
	return v, ok
}

func (r *SettingsRepo) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return r.write(ctx, KeyAPIKey, "", true)
	}
	return r.write(ctx, KeyAPIKey, key, false)
}

func (r *SettingsRepo) SetFontSize(ctx context.Context, size string) error {
	if !model.ValidFontSize(size) {
		return domain.ErrInvalidArgument
	}
	return r.write(ctx, KeyFontSize, size, false)
}

func (r *SettingsRepo) SetAutoSave(ctx context.Context, enabled bool) error {
	return r.write(ctx, KeyAutoSave, boolString(enabled), false)
}

func (r *SettingsRepo) SetSoundEnabled(ctx context.Context, enabled bool) error {
	return r.write(ctx, KeySoundEnabled, boolString(enabled), false)
}

func (r *SettingsRepo) SetTheme(ctx context.Context, theme string) error {
	if !model.ValidTheme(theme) {
		return domain.ErrInvalidArgument
	}
	return r.write(ctx, KeyTheme, theme, false)
}

func (r *SettingsRepo) write(ctx context.Context, key, value string, remove bool) error {
	var err error
	if remove {
		err = r.kv.Delete(ctx, key)
	} else {
		err = r.kv.Set(ctx, key, value)
	}
	metrics.StoreWrite(key, err)
	return err
}

// ClearAll removes every key the application owns, the session
// collection and selection included.
func (r *SettingsRepo) ClearAll(ctx context.Context) error {
	for _, key := range AllKeys() {
		if err := r.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
