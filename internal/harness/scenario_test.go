package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test_scenario
description: "Test scenario for validation"
money: 0
steps:
  - invoke: hooks2
    args:
      a: 1
      b: 2
    expect:
      result: 24
assertions:
  - type: trace_contains
    function: addTwo
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	require.NotNil(t, scenario.Money)
	assert.Equal(t, int64(0), *scenario.Money)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, "hooks2", scenario.Steps[0].Invoke)
	assert.Equal(t, 1, scenario.Steps[0].Args["a"])
	require.NotNil(t, scenario.Steps[0].Expect)
	require.NotNil(t, scenario.Steps[0].Expect.Result)
	assert.Equal(t, int64(24), *scenario.Steps[0].Expect.Result)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertTraceContains, scenario.Assertions[0].Type)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_MoneyAbsent(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: no_money
steps:
  - invoke: addTwo
    args: {a: 1, b: 2}
`))
	require.NoError(t, err)
	assert.Nil(t, scenario.Money)
	assert.Nil(t, scenario.Steps[0].Expect)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "steps:\n  - invoke: addTwo\n",
			wantErr: "name is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\n",
			wantErr: "at least one step",
		},
		{
			name:    "step without invoke",
			yaml:    "name: x\nsteps:\n  - args: {a: 1}\n",
			wantErr: "invoke is required",
		},
		{
			name:    "unknown field",
			yaml:    "name: x\nflow_token: y\nsteps:\n  - invoke: addTwo\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "result and error",
			yaml:    "name: x\nsteps:\n  - invoke: addTwo\n    expect: {result: 1, error: INVALID_ARGUMENT}\n",
			wantErr: "both result and error",
		},
		{
			name:    "empty expect",
			yaml:    "name: x\nsteps:\n  - invoke: addTwo\n    expect: {}\n",
			wantErr: "needs result or error",
		},
		{
			name:    "unknown error code",
			yaml:    "name: x\nsteps:\n  - invoke: addTwo\n    expect: {error: BOOM}\n",
			wantErr: `unknown error code "BOOM"`,
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: x\nsteps:\n  - invoke: addTwo\nassertions:\n  - type: trace_sum\n",
			wantErr: `unknown assertion type "trace_sum"`,
		},
		{
			name:    "trace_order without functions",
			yaml:    "name: x\nsteps:\n  - invoke: addTwo\nassertions:\n  - type: trace_order\n",
			wantErr: "functions list is required",
		},
		{
			name:    "trace_count without function",
			yaml:    "name: x\nsteps:\n  - invoke: addTwo\nassertions:\n  - type: trace_count\n    count: 1\n",
			wantErr: "function is required for trace_count",
		},
		{
			name:    "negative count",
			yaml:    "name: x\nsteps:\n  - invoke: addTwo\nassertions:\n  - type: trace_count\n    function: addTwo\n    count: -1\n",
			wantErr: "count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", "")
	writeScenario(t, dir, "a.yml", "")
	writeScenario(t, dir, "notes.txt", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	writeScenario(t, filepath.Join(dir, "nested"), "c.yaml", "")

	files, err := FindScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)
}

func TestFindScenarioFiles_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "hooks2_basic.yaml", "")
	writeScenario(t, dir, "hooks3_basic.yaml", "")
	writeScenario(t, dir, "targets.yaml", "")

	files, err := FindScenarioFiles(dir, "hooks*")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = FindScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestFindScenarioFiles_SingleFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "only.yaml", "")

	files, err := FindScenarioFiles(path, "ignored*")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestTestdataScenariosParse(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		_, err := LoadScenario(f)
		assert.NoError(t, err, f)
	}
}
