// Package swiftpm assembles argument lists for Swift Package Manager
// invocations and executes them. All platform- and action-dependent flag
// construction lives here so the sequencer only deals in complete argvs.
package swiftpm

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/doccbuild/internal/config"
	"git.home.luguber.info/inful/doccbuild/internal/toolchain"
)

// Action is the flavor of SwiftPM invocation being assembled. Install and
// show-bin-path are build invocations with extra linker handling.
type Action string

const (
	ActionBuild       Action = "build"
	ActionTest        Action = "test"
	ActionInstall     Action = "install"
	ActionShowBinPath Action = "show-bin-path"
)

// Options returns the SwiftPM option list for the given action and target
// platform. The warning return is non-empty when cross-compilation was
// requested for an unsupported host/target pair; this is deliberately
// non-fatal and the options are returned without architecture flags.
func Options(action Action, inv *config.Invocation, plat toolchain.Platform) (args []string, warn string) {
	args = []string{
		"--package-path", inv.PackagePath,
		"--scratch-path", inv.BuildDir,
		"--configuration", string(inv.Configuration),
	}

	// Install builds are always verbose to leave enough trace for CI
	// failure investigation.
	if inv.Verbose || action == ActionInstall {
		args = append(args, "--verbose")
	}

	args = append(args, rpathFlags(action, plat)...)

	if inv.CrossCompileHosts != "" {
		if plat.Family == toolchain.FamilyMacOS && strings.HasPrefix(inv.CrossCompileHosts, "macosx-") {
			args = append(args, "--arch", "x86_64", "--arch", "arm64")
		} else {
			warn = fmt.Sprintf("cannot cross-compile for %s", inv.CrossCompileHosts)
		}
	}

	// When installed into a toolchain the executable finds the runtime at a
	// relative path; drop the default toolchain stdlib rpath so that path
	// wins.
	if action == ActionInstall || action == ActionShowBinPath {
		args = append(args, "-Xswiftc", "-no-toolchain-stdlib-rpath")
	}

	if action == ActionTest {
		args = append(args, "--parallel")
	}

	if action == ActionShowBinPath {
		args = append(args, "--show-bin-path")
	}

	return args, warn
}

// rpathFlags is a total mapping from target platform family to the linker
// flags selecting the Swift runtime library search path.
func rpathFlags(action Action, plat toolchain.Platform) []string {
	switch plat.Family {
	case toolchain.FamilyMacOS:
		// Only consulted when /usr/lib/swift is unavailable.
		return []string{"-Xlinker", "-rpath", "-Xlinker", "@executable_path/../lib/swift/macosx"}
	case toolchain.FamilyFreeBSD:
		// FreeBSD triples carry the OS version number; the runtime install
		// location does not, so the rpath is pinned to the bare OS name.
		flags := []string{"-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/freebsd"}
		if action == ActionInstall {
			flags = append(flags, "--disable-local-rpath")
		}
		return flags
	case toolchain.FamilyOpenBSD:
		return []string{
			"-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/openbsd",
			"-Xlinker", "-z", "-Xlinker", "origin",
		}
	default:
		flags := []string{"-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/" + plat.OS}
		if action == ActionInstall {
			flags = append(flags, "--disable-local-rpath")
		}
		return flags
	}
}
