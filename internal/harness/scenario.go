package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

// Scenario is one YAML test case.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// RunTokenPrefix prefixes the sequential run tokens.
	// Defaults to "test-run".
	RunTokenPrefix string `yaml:"run_token_prefix,omitempty"`

	// Money is the fixed value calcMoney returns. Absent means calcMoney
	// has no implementation.
	Money *int64 `yaml:"money,omitempty"`

	Steps []Step `yaml:"steps"`

	// Assertions are checked against the full trace after all steps ran.
	// Supported types: trace_contains, trace_order, trace_count
	Assertions []Assertion `yaml:"assertions"`
}

// Step invokes one function by name.
type Step struct {
	Invoke string         `yaml:"invoke"`
	Args   map[string]any `yaml:"args"`

	// Expect is optional. Without it the step must simply succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds either the expected result or the expected error code.
type Expect struct {
	Result *int64 `yaml:"result,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type is trace_contains, trace_order or trace_count.
	Type string `yaml:"type"`

	// Function is used by trace_contains and trace_count.
	Function string `yaml:"function,omitempty"`

	// Args optionally narrows trace_contains to calls with these operands.
	Args map[string]any `yaml:"args,omitempty"`

	// Count is the exact number of calls (trace_count).
	Count int `yaml:"count,omitempty"`

	// Functions is the expected relative order (trace_order).
	Functions []string `yaml:"functions,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

var knownErrorCodes = map[string]bool{
	string(ir.ErrCodeInvalidArgument):      true,
	string(ir.ErrCodeUnresolvedDependency): true,
	string(ir.ErrCodeSelfReference):        true,
	string(ir.ErrCodeUnknownFunction):      true,
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so that typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarioFiles returns the .yaml/.yml files under path, sorted. A
// file path is returned as is. filter, when set, is a glob matched
// against the file name without extension.
func FindScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(p), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one step")
	}

	for i, step := range s.Steps {
		if err := validateStep(step, i); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(step Step, index int) error {
	if step.Invoke == "" {
		return fmt.Errorf("steps[%d]: invoke is required", index)
	}
	if step.Expect == nil {
		return nil
	}
	if step.Expect.Result != nil && step.Expect.Error != "" {
		return fmt.Errorf("steps[%d]: expect cannot have both result and error", index)
	}
	if step.Expect.Result == nil && step.Expect.Error == "" {
		return fmt.Errorf("steps[%d]: expect needs result or error", index)
	}
	if step.Expect.Error != "" && !knownErrorCodes[step.Expect.Error] {
		return fmt.Errorf("steps[%d]: unknown error code %q", index, step.Expect.Error)
	}
	return nil
}

func validateAssertion(a Assertion, index int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Functions) == 0 {
			return fmt.Errorf("assertions[%d]: functions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
