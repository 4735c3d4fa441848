package domain

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// SortBy is the task list ordering preference.
type SortBy string

const (
	SortByDate     SortBy = "date"
	SortByPriority SortBy = "priority"
	// SortByManual keeps storage order; there is no way to reorder tasks by hand.
	SortByManual SortBy = "manual"
)

// IsValid reports whether s is a known sort preference.
func (s SortBy) IsValid() bool {
	return s == SortByDate || s == SortByPriority || s == SortByManual
}

// Settings holds the user's display preferences.
type Settings struct {
	Theme         Theme  `validate:"required,theme"`
	SortBy        SortBy `validate:"required,sortby"`
	Notifications bool
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeSystem,
		SortBy:        SortByDate,
		Notifications: true,
	}
}

// SettingsPatch changes individual preferences.
type SettingsPatch struct {
	Theme         *Theme
	SortBy        *SortBy
	Notifications *bool
}

// Apply merges the patch into a copy of s.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.SortBy != nil {
		s.SortBy = *p.SortBy
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	return s
}
