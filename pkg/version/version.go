// Package version reports the pixedit build version.
package version

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// Version is set at build time via
// -ldflags "-X github.com/Fepozopo/pixedit/pkg/version.Version=v1.2.3".
var Version = "0.1.0-dev"

// Parse parses a semantic version, allowing a leading "v" and surrounding
// whitespace.
func Parse(s string) (semver.Version, error) {
	v, err := semver.ParseTolerant(strings.TrimSpace(s))
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

// Current returns the parsed build version.
func Current() (semver.Version, error) {
	return Parse(Version)
}

// String returns the banner printed by -version.
func String() string {
	v, err := Current()
	if err != nil {
		return "pixedit " + Version
	}
	return "pixedit v" + v.String()
}
