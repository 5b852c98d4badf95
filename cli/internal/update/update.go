package update

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-version"

	"github.com/sqlspine/sqlspine/cli/internal/ui"
)

// latestKnown is the newest release baked into this build. A release
// pipeline can override it with -ldflags at build time.
var latestKnown = "0.1.0"

// CheckForUpdates compares the running version against the latest known
// release and prints an upgrade hint when behind.
func CheckForUpdates(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	latest, err := version.NewVersion(latestKnown)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestKnown)
		fmt.Printf("\nUpdate with: go install github.com/sqlspine/sqlspine/cli@latest\n")
		fmt.Printf("Binary download: %s\n", GetDownloadURL(latestKnown))
	}

	return nil
}

// GetDownloadURL returns the release asset URL for the current platform
func GetDownloadURL(ver string) string {
	return fmt.Sprintf("https://github.com/sqlspine/sqlspine/releases/download/v%s/sqlspine-%s-%s", ver, runtime.GOOS, runtime.GOARCH)
}
