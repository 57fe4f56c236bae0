package harness

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

// Golden snapshots live in a golden/ directory next to the scenario files,
// one <scenario name>.golden per scenario.
const (
	GoldenSubdir = "golden"
	GoldenSuffix = ".golden"

	// GoldenDir is the package's own golden directory.
	GoldenDir = "testdata/scenarios/" + GoldenSubdir
)

// GoldenPath returns the golden file of the named scenario loaded from
// scenarioFile.
func GoldenPath(scenarioFile, scenarioName string) string {
	return filepath.Join(filepath.Dir(scenarioFile), GoldenSubdir, scenarioName+GoldenSuffix)
}

// Snapshot renders the canonical JSON compared against golden files:
// the scenario name, each step's outcome and the full trace.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	steps := make([]any, len(result.Steps))
	for i, s := range result.Steps {
		m := map[string]any{
			"function": s.Function,
			"outcome":  s.Outcome,
		}
		if s.Outcome == ir.OutcomeOK {
			m["result"] = s.Value
		}
		if s.Run != "" {
			m["run"] = s.Run
		}
		steps[i] = m
	}

	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		trace[i] = map[string]any{
			"run":      ev.Run,
			"function": ev.Function,
			"a":        ev.A,
			"b":        ev.B,
			"seq":      ev.Seq,
		}
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario_name": scenarioName,
		"results":       steps,
		"trace":         trace,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/scenarios/golden/<scenario.Name>.golden.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
