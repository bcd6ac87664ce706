package toolchain

import (
	"fmt"
	"strings"
)

// Family classifies the build target's operating system. Rpath flag
// selection keys off the family; anything unrecognized falls into
// FamilyOther and keeps its raw OS name for path construction.
type Family int

const (
	FamilyOther Family = iota
	FamilyMacOS
	FamilyFreeBSD
	FamilyOpenBSD
)

func (f Family) String() string {
	switch f {
	case FamilyMacOS:
		return "macos"
	case FamilyFreeBSD:
		return "freebsd"
	case FamilyOpenBSD:
		return "openbsd"
	default:
		return "other"
	}
}

// Platform is the build target derived from the toolchain's target triple.
// It is resolved once per run and read by every argument assembly.
type Platform struct {
	Triple string
	OS     string // raw OS component of the triple, e.g. "macosx12.0", "linux"
	Family Family
}

// ParseTriple extracts the platform from a target triple such as
// "x86_64-apple-macosx" or "aarch64-unknown-linux-gnu". The OS component is
// the third dash-separated field.
func ParseTriple(triple string) (Platform, error) {
	parts := strings.Split(triple, "-")
	if len(parts) < 3 || parts[2] == "" {
		return Platform{}, fmt.Errorf("malformed target triple %q", triple)
	}
	p := Platform{Triple: triple, OS: parts[2]}
	switch {
	case strings.HasPrefix(p.OS, "macosx"):
		p.Family = FamilyMacOS
	case strings.HasPrefix(p.OS, "freebsd"):
		p.Family = FamilyFreeBSD
	case strings.HasPrefix(p.OS, "openbsd"):
		p.Family = FamilyOpenBSD
	}
	return p, nil
}
