package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	info := Get()
	if info.Version != Version || info.GoVersion == "" || !strings.Contains(info.Platform, "/") {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	// как при сборке с -ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("overrides not reflected: %+v", info)
	}
}

func TestColored(t *testing.T) {
	orig := Version
	origNoColor := color.NoColor
	defer func() {
		Version = orig
		color.NoColor = origNoColor
	}()
	color.NoColor = true

	tests := []string{"0.1.0", "1.0.0-beta.1", "2.0.0+build.7", "nightly"}
	for _, v := range tests {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() with colours off = %q, want %q", got, v)
		}
	}
}
