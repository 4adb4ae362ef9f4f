package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "libraryctl", cmd.Use)
	assert.Contains(t, cmd.Long, "REST API")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"list", "get", "create", "update", "delete", "filters", "health"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv("LIBRARY_SERVER", "")
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	serverFlag := cmd.PersistentFlags().Lookup("server")
	require.NotNil(t, serverFlag)
	assert.Equal(t, defaultServer, serverFlag.DefValue)
}

func TestServerFromEnvironment(t *testing.T) {
	t.Setenv("LIBRARY_SERVER", "http://library.internal:9000")
	cmd := NewRootCommand()

	assert.Equal(t, "http://library.internal:9000", cmd.PersistentFlags().Lookup("server").DefValue)
}

func TestListCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	for _, name := range []string{"author", "year", "genre", "language", "pages-from", "pages-to", "available", "page", "all"} {
		assert.NotNil(t, listCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "p", listCmd.Flags().Lookup("page").Shorthand)
}

func TestDeleteCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	deleteCmd, _, err := cmd.Find([]string{"delete"})
	require.NoError(t, err)

	yes := deleteCmd.Flags().Lookup("yes")
	require.NotNil(t, yes)
	assert.Equal(t, "false", yes.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	code := ExecuteContext(context.Background(), []string{"filters", "--format", "yaml"}, &out, &errOut)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), `invalid format "yaml"`)
}
