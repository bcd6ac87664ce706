package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doccbuild/internal/version"
)

// The configuration flag must stay empty when not passed so that a YAML
// defaults file can still supply it; config.Resolve applies the debug
// fallback last.
func TestConfigurationFlagHasNoParserDefault(t *testing.T) {
	var cli = CLI
	parser, err := kong.New(&cli,
		kong.Name("doccbuild"),
		kong.Vars{"version": version.Version})
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--toolchain", t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, cli.Configuration)

	_, err = parser.Parse([]string{"--toolchain", t.TempDir(), "--configuration", "release"})
	require.NoError(t, err)
	assert.Equal(t, "release", cli.Configuration)
}
