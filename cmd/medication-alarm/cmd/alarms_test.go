package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := parseID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "x1"} {
		_, err = parseID(bad)
		require.Error(t, err, bad)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"create", "list", "get", "update", "delete", "enable", "disable", "sweep"} {
		require.True(t, names[want], want)
	}
}
