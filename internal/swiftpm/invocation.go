package swiftpm

import "git.home.luguber.info/inful/doccbuild/internal/config"

// Verb is the swift subcommand being invoked.
type Verb string

const (
	VerbBuild Verb = "build"
	VerbTest  Verb = "test"
)

// ProductCommand returns the complete argv for building or testing a single
// product. hostOS is runtime.GOOS; on non-Darwin hosts SwiftPM needs test
// discovery enabled explicitly.
func ProductCommand(verb Verb, product string, inv *config.Invocation, options []string, hostOS string) []string {
	argv := make([]string, 0, len(options)+8)
	argv = append(argv, inv.SwiftExec, string(verb))
	argv = append(argv, options...)
	if hostOS != "darwin" {
		argv = append(argv, "--enable-test-discovery")
	}
	if inv.MultirootDataFile != "" {
		argv = append(argv, "--multiroot-data-file", inv.MultirootDataFile)
	}
	if verb == VerbTest {
		argv = append(argv, "--test-product", product)
	} else {
		argv = append(argv, "--product", product)
	}
	return argv
}

// PackageCommand returns the argv for a `swift package` subcommand such as
// update or generate-xcodeproj.
func PackageCommand(inv *config.Invocation, args ...string) []string {
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, inv.SwiftExec, "package")
	return append(argv, args...)
}
