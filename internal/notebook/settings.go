package notebook

import "time"

// Settings holds the controller policy. It is passed at construction and
// replaced as a whole through ApplySettings.
type Settings struct {
	// Prompt on every external change of the current note.
	NotifyAllExternalModifications bool

	AutosaveInterval      time.Duration
	ViewRefreshInterval   time.Duration
	PeriodicCheckInterval time.Duration

	// A current note not edited for this long is reloaded silently.
	QuietReloadAfter time.Duration

	CryptoKeyTTL    time.Duration
	DownloadTimeout time.Duration

	SortAlphabetically bool
}

// DefaultSettings returns the built-in policy.
func DefaultSettings() Settings {
	return Settings{
		AutosaveInterval:      10 * time.Second,
		ViewRefreshInterval:   2 * time.Second,
		PeriodicCheckInterval: time.Minute,
		QuietReloadAfter:      60 * time.Second,
		CryptoKeyTTL:          10 * time.Minute,
		DownloadTimeout:       10 * time.Second,
	}
}
