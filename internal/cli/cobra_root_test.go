package cli

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/config"
)

func TestRootCommand_FlagOverrides(t *testing.T) {
	app := setupTestApp(t, "")

	var (
		gotFile      string
		gotOverrides *config.ConfigOverrides
		cleanedUp    bool
	)
	root := NewRootCommand(func(ctx context.Context, configFile string, overrides *config.ConfigOverrides) (*App, func() error, error) {
		gotFile = configFile
		gotOverrides = overrides
		return app.App, func() error {
			cleanedUp = true
			return nil
		}, nil
	})
	root.SetArgs([]string{
		"--config", "/tmp/tm.yaml",
		"--backend", "redis",
		"--redis-addr", "localhost:6390",
		"--week-start", "monday",
		"--timeout", "5s",
		"--verbose",
		"info",
	})

	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Equal(t, "/tmp/tm.yaml", gotFile)
	require.NotNil(t, gotOverrides)
	require.NotNil(t, gotOverrides.Backend)
	assert.Equal(t, "redis", *gotOverrides.Backend)
	require.NotNil(t, gotOverrides.RedisAddr)
	assert.Equal(t, "localhost:6390", *gotOverrides.RedisAddr)
	require.NotNil(t, gotOverrides.WeekStart)
	assert.Equal(t, "monday", *gotOverrides.WeekStart)
	require.NotNil(t, gotOverrides.Timeout)
	assert.Equal(t, 5*time.Second, *gotOverrides.Timeout)
	require.NotNil(t, gotOverrides.Verbose)
	assert.True(t, *gotOverrides.Verbose)

	assert.Nil(t, gotOverrides.KeyPrefix)
	assert.Nil(t, gotOverrides.OutputFormat)
	assert.Nil(t, gotOverrides.LogLevel)
	assert.True(t, cleanedUp)
}

func TestRootCommand_FactoryError(t *testing.T) {
	root := NewRootCommand(func(ctx context.Context, configFile string, overrides *config.ConfigOverrides) (*App, func() error, error) {
		return nil, nil, stderrors.New("store unavailable")
	})
	root.SetArgs([]string{"task", "list"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestRootCommand_InvalidOutputFormat(t *testing.T) {
	app := setupTestApp(t, "")

	_, err := app.execute(t, "-o", "xml", "task", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of table, json, yaml")
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand(nil)

	names := map[string]bool{}
	for _, cmd := range root.Command().Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range []string{"task", "category", "settings", "stats", "export", "import", "clear", "info", "remind"} {
		assert.True(t, names[name], "missing command %s", name)
	}
}
