package story

// DefaultAutoSaveIntervalMs debounce quiescence window used when unset
const DefaultAutoSaveIntervalMs = 2000

// AllowedAutoSaveIntervalsMs the fixed set of selectable auto-save intervals
var AllowedAutoSaveIntervalsMs = []int{1000, 2000, 5000, 10000}

// AppSettings process-wide user settings, persisted on every change
type AppSettings struct {
	// ContentFilterRelaxed gates the Bold persona and relaxes sampling parameters
	ContentFilterRelaxed bool `json:"content_filter_relaxed"`

	AutoSaveIntervalMs int `json:"auto_save_interval_ms"`

	// UITheme is cosmetic only; the server just stores it for the editor
	UITheme string `json:"ui_theme,omitempty"`
}

// DefaultSettings returns the settings used when no durable record exists
func DefaultSettings() AppSettings {
	return AppSettings{
		ContentFilterRelaxed: false,
		AutoSaveIntervalMs:   DefaultAutoSaveIntervalMs,
		UITheme:              "light",
	}
}

// Normalize coerces out-of-set values back to defaults
func (s *AppSettings) Normalize() {
	for _, allowed := range AllowedAutoSaveIntervalsMs {
		if s.AutoSaveIntervalMs == allowed {
			return
		}
	}
	s.AutoSaveIntervalMs = DefaultAutoSaveIntervalMs
}
