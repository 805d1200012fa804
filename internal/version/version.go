// Package version holds the module version.
package version

import (
	"github.com/maloquacious/semver"
)

var current = semver.Version{
	Major: 0,
	Minor: 1,
	Patch: 0,
	Build: semver.Commit(),
}

func Current() semver.Version {
	return current
}

func String() string {
	return current.String()
}
