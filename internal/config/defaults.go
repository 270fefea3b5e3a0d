package config

import (
	"time"
)

// Defaults returns the default values of every key.
// protected and launcher are given by the caller, as they depend on the library defaults.
func Defaults(protected []string, launcher string, timeout time.Duration) map[string]any {
	return map[string]any{
		KeySourceType:         "auto",
		KeySourceRepository:   DefaultRepository,
		KeySourceBaseURL:      "",
		KeySourceToken:        "",
		KeyInstallRoot:        "",
		KeyInstallVersionFile: "VERSION",
		KeyInstallLauncher:    launcher,
		KeyInstallProtected:   protected,
		KeyCheckTimeout:       timeout,
		KeyCheckChecksums:     "",
	}
}
