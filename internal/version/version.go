package version

import "fmt"

// Set at build time, for example:
// go build -ldflags "-X github.com/Safe-Deal/json-i18n-whisper/internal/version.Version=1.2.0"
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns a multi-line version string for CLI output.
func Info() string {
	return fmt.Sprintf("translate-json %s\ncommit: %s\nbuild: %s", Version, Commit, BuildDate)
}
