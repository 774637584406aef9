package orchestrators

import (
	"context"
	"log/slog"

	"genesis/internal/domain/preference"
)

// PreferenceStoreForUpdate defines the store interface needed by UpdatePreferences.
type PreferenceStoreForUpdate interface {
	GetByUsername(ctx context.Context, username string) (preference.Preferences, error)
	Save(ctx context.Context, p preference.Preferences) error
}

// UpdatePreferencesInput carries the full desired settings state. The stored
// record is replaced wholesale, so the settings form always submits every
// field.
type UpdatePreferencesInput struct {
	Username          string
	Theme             string
	FontFamily        string
	Notifications     bool
	NotificationEmail string
	NotificationPhone string
}

// ExecuteUpdatePreferences validates and persists a user's settings.
// PRE: Username is an authenticated username
// POST: Preferences are persisted and take effect on the next page render
func ExecuteUpdatePreferences(ctx context.Context, input UpdatePreferencesInput, store PreferenceStoreForUpdate) error {
	prefs := preference.Preferences{
		Username:          input.Username,
		Theme:             input.Theme,
		FontFamily:        input.FontFamily,
		Notifications:     input.Notifications,
		NotificationEmail: input.NotificationEmail,
		NotificationPhone: input.NotificationPhone,
	}
	if err := prefs.Validate(); err != nil {
		return err
	}

	if err := store.Save(ctx, prefs); err != nil {
		return err
	}

	slog.Info("settings_event", "event", "preferences_updated", "username", input.Username, "theme", input.Theme)
	return nil
}
