// Package version carries build metadata injected with -ldflags.
package version

import "strings"

// Set at build time:
//
//	go build -ldflags "-X helpdesk/internal/shared/version.Current=v1.2.0"
var (
	Current   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Normalize ensures version string has "v" prefix.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || version == "dev" {
		return version
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String renders the version with the commit when known.
func String() string {
	v := Normalize(Current)
	if Commit != "" {
		short := Commit
		if len(short) > 7 {
			short = short[:7]
		}
		v += " (" + short + ")"
	}
	return v
}
