package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/focus/internal/output"
)

// testNow is Thursday, September 19, 2024, mid-morning.
var testNow = time.Date(2024, 9, 19, 10, 0, 0, 0, time.Local)

// testEnv sets up an isolated config dir, viper, store, clock and output
// for testing. It returns the config dir and the captured stdout.
func testEnv(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	origFunc := configDirFunc
	configDirFunc = func() (string, error) { return dir, nil }
	origNow := nowFunc
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() {
		configDirFunc = origFunc
		nowFunc = origNow
	})

	viper.Reset()
	setDefaults(dir)

	color.NoColor = true
	out := &bytes.Buffer{}
	ui = &output.UI{Out: out, ErrOut: out}

	dataStore = nil
	t.Cleanup(func() {
		if dataStore != nil {
			_ = dataStore.Close()
			dataStore = nil
		}
	})

	dryRun = false
	configForce = false
	return dir, out
}

// setDryRun turns on dry-run mode for the rest of the test.
func setDryRun() {
	dryRun = true
	ui.DryRun = true
}

func TestConfigInit_CreatesFile(t *testing.T) {
	dir, _ := testEnv(t)

	err := configInitRun()
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "focus configuration")
	assert.Contains(t, string(data), "work_minutes: 25")
	assert.Contains(t, string(data), "long_break_interval: 4")
	assert.Contains(t, string(data), "daily_goal: 12")
	assert.Contains(t, string(data), "bell: true")
}

func TestConfigInit_RoundTripsThroughViper(t *testing.T) {
	dir, _ := testEnv(t)
	viper.Set("pomodoro.work_minutes", 50)
	require.NoError(t, configInitRun())

	viper.Reset()
	viper.SetConfigFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, viper.ReadInConfig())
	assert.Equal(t, 50, viper.GetInt("pomodoro.work_minutes"))
	assert.Equal(t, 5, viper.GetInt("pomodoro.short_break_minutes"))
	assert.False(t, viper.GetBool("pomodoro.auto_start_breaks"))
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	dir, _ := testEnv(t)

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("existing"), 0644))

	err := configInitRun()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigInit_ForceOverwrite(t *testing.T) {
	dir, _ := testEnv(t)

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("existing"), 0644))

	configForce = true
	err := configInitRun()
	require.NoError(t, err)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "focus configuration")
}

func TestConfigInit_DryRun(t *testing.T) {
	dir, out := testEnv(t)
	dryRun = true
	ui.DryRun = true
	defer func() { dryRun = false }()

	err := configInitRun()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.True(t, os.IsNotExist(err), "config file should not exist in dry-run mode")
	assert.Contains(t, out.String(), "pomodoro:")
}

func TestConfigShow_NoFile(t *testing.T) {
	_, out := testEnv(t)

	require.NoError(t, configShowRun())
	assert.Contains(t, out.String(), "(none)")
	assert.Contains(t, out.String(), "pomodoro.work_minutes")
	assert.Contains(t, out.String(), "(default)")
}

func TestConfigShow_WithFileAndEnv(t *testing.T) {
	_, out := testEnv(t)
	require.NoError(t, configInitRun())
	t.Setenv("FOCUS_POMODORO_DAILY_GOAL", "8")
	out.Reset()

	require.NoError(t, configShowRun())
	assert.Contains(t, out.String(), "config.yaml")
	assert.Contains(t, out.String(), "(file)")
	assert.Contains(t, out.String(), "(env: FOCUS_POMODORO_DAILY_GOAL)")
}

func TestConfigShow_MasksAPIKey(t *testing.T) {
	_, out := testEnv(t)
	viper.Set("anthropic.api_key", "sk-ant-0123456789abcdef")

	require.NoError(t, configShowRun())
	assert.NotContains(t, out.String(), "0123456789")
	assert.Contains(t, out.String(), "sk-a****cdef")
}

func TestConfigEdit_NoEditor(t *testing.T) {
	testEnv(t)
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	err := configEditRun()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "$EDITOR is not set")
}

func TestConfigEdit_NoConfigFile(t *testing.T) {
	testEnv(t)
	t.Setenv("EDITOR", "echo")

	err := configEditRun()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDetectSource(t *testing.T) {
	fileValues := map[string]bool{"key_a": true}

	t.Setenv("FOCUS_TEST_KEY", "val")
	assert.Contains(t, detectSource("test_key", "FOCUS_TEST_KEY", fileValues), "env")
	assert.Contains(t, detectSource("key_a", "FOCUS_KEY_A_NONEXISTENT", fileValues), "file")
	assert.Contains(t, detectSource("key_b", "FOCUS_KEY_B_NONEXISTENT", fileValues), "default")
}

func TestEnvVarFor(t *testing.T) {
	assert.Equal(t, "FOCUS_STATE_DIR", envVarFor("state_dir"))
	assert.Equal(t, "FOCUS_POMODORO_WORK_MINUTES", envVarFor("pomodoro.work_minutes"))
	assert.Equal(t, "FOCUS_ANTHROPIC_API_KEY", envVarFor("anthropic.api_key"))
}

func TestFlattenKeys(t *testing.T) {
	input := map[string]any{
		"top": "val",
		"nested": map[string]any{
			"a": "1",
			"b": "2",
		},
	}

	result := make(map[string]bool)
	flattenKeys("", input, result)

	assert.True(t, result["top"])
	assert.True(t, result["nested.a"])
	assert.True(t, result["nested.b"])
	assert.False(t, result["nested"])
}
