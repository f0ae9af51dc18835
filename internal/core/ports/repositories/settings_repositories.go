package repositories

import "context"

// SettingsRepositoryFacade reads operator-tunable settings from the
// system_settings table. Missing keys fall back to configured defaults in
// the settings service.
type SettingsRepositoryFacade interface {
	// GetSettings returns the raw values for the given keys. Keys absent
	// from the table are absent from the map.
	GetSettings(ctx context.Context, keys []string) (map[string]string, error)

	// PutSetting upserts one setting value.
	PutSetting(ctx context.Context, key, value, updatedBy string) error
}
