package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/services"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2024, 3, 13, 10, 30, 0, 0, time.UTC)

type testApp struct {
	*App
	out  *bytes.Buffer
	repo *repository.KVRepository
}

// setupTestApp wires the real business API over an in-memory store with
// sequential ids and a clock starting at fixedNow.
func setupTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	current := fixedNow
	clock := func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	next := 0
	newID := func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}

	repo := repository.New(repository.NewMemoryStore(), repository.WithClock(clock), repository.WithIDGenerator(newID))
	require.NoError(t, repo.Initialize(context.Background()))
	t.Cleanup(func() { repo.Close() })

	timeService := services.NewTimeService(
		services.WithLocation(time.UTC),
		services.WithClock(func() time.Time { return fixedNow }),
	)
	container := services.NewServiceContainer(repo, timeService)
	businessAPI := api.NewBusinessAPI(repo, container, nil)

	cfg := config.NewConfig()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Commands.ExportDir = t.TempDir()

	out := &bytes.Buffer{}
	app := NewApp(businessAPI, timeService, cfg, WithOutput(out), WithInput(strings.NewReader(input)))
	return &testApp{App: app, out: out, repo: repo}
}

// execute runs args through a fresh root command and returns the output
func (a *testApp) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a.out.Reset()
	a.config.Commands.OutputFormat = FormatTable
	root := NewRootCommandWithApp(a.App)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return a.out.String(), err
}

// mustAddTask creates a task through the API and returns its id
func (a *testApp) mustAddTask(t *testing.T, args ...string) string {
	t.Helper()
	out, err := a.execute(t, append([]string{"-o", "json", "task", "add"}, args...)...)
	require.NoError(t, err)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, decodeJSON(out, &created))
	return created.ID
}

func decodeJSON(out string, v interface{}) error {
	return json.Unmarshal([]byte(out), v)
}

func TestApp_FailureLogging(t *testing.T) {
	app := setupTestApp(t, "")
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &logs})
	require.NoError(t, err)
	app.logger = logger

	_, err = app.execute(t, "task", "show", "missing")
	require.Error(t, err)

	entry := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "Command rejected", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "show task", entry["operation"])
	assert.Equal(t, "NOT_FOUND", entry["code"])
}
