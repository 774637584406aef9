package preference

import (
	"errors"
	"strings"
)

// Theme constants. "system" follows the OS preference.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Font family constants.
const (
	FontDefault   = "default"
	FontSerif     = "serif"
	FontMonospace = "monospace"
)

// ValidThemes contains all valid theme values.
var ValidThemes = []string{ThemeLight, ThemeDark, ThemeSystem}

// ValidFonts contains all valid font family values.
var ValidFonts = []string{FontDefault, FontSerif, FontMonospace}

// Domain errors
var (
	ErrEmptyUsername = errors.New("preference username is required")
	ErrInvalidTheme  = errors.New("theme must be one of: light, dark, system")
	ErrInvalidFont   = errors.New("font must be one of: default, serif, monospace")
	ErrMissingTarget = errors.New("notifications are enabled but no email or phone is set")
)

// Preferences holds display and notification settings for one user.
// Keyed by username; lifecycle is independent from the session, so a record
// survives logout and is picked up again at the next login.
type Preferences struct {
	Username          string
	Theme             string
	FontFamily        string
	Notifications     bool
	NotificationEmail string
	NotificationPhone string
}

// Defaults returns the preferences applied to a user with no saved record.
func Defaults(username string) Preferences {
	return Preferences{
		Username:   username,
		Theme:      ThemeSystem,
		FontFamily: FontDefault,
	}
}

// Validate checks if the Preferences have valid data.
// PRE: Preferences struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Preferences) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return ErrEmptyUsername
	}
	if !contains(ValidThemes, p.Theme) {
		return ErrInvalidTheme
	}
	if !contains(ValidFonts, p.FontFamily) {
		return ErrInvalidFont
	}
	if p.Notifications && p.NotificationEmail == "" && p.NotificationPhone == "" {
		return ErrMissingTarget
	}
	if p.NotificationEmail != "" && !strings.Contains(p.NotificationEmail, "@") {
		return errors.New("notification email must contain '@'")
	}
	return nil
}

// WantsEmail returns true if notification emails should be delivered.
// INVARIANT: p is not mutated
func (p Preferences) WantsEmail() bool {
	return p.Notifications && p.NotificationEmail != ""
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
