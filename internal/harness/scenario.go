package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a grade-book scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup steps establish initial state and must all succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Steps are the operations under test.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final book and trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one grade-book operation.
type Step struct {
	Op   string         `yaml:"op"`
	Args map[string]any `yaml:"args"`

	// Expect is "ok" or an error code such as NOT_FOUND. Empty means "ok".
	Expect string `yaml:"expect,omitempty"`
}

// Assertion validates the final state. Which fields apply depends on Type.
type Assertion struct {
	Type string `yaml:"type"`

	Student string   `yaml:"student,omitempty"` // average
	Equals  *float64 `yaml:"equals,omitempty"`  // average
	Names   []string `yaml:"names,omitempty"`   // students, top, with_grade
	N       int      `yaml:"n,omitempty"`       // top
	Grade   string   `yaml:"grade,omitempty"`   // with_grade
	Best    string   `yaml:"best,omitempty"`    // best_worst
	Worst   string   `yaml:"worst,omitempty"`   // best_worst
	Count   *int     `yaml:"count,omitempty"`   // stats_total, notification_count
	Code    string   `yaml:"code,omitempty"`    // best_worst, stats_total
}

// Assertion type constants.
const (
	AssertAverage           = "average"
	AssertStudents          = "students"
	AssertTop               = "top"
	AssertBestWorst         = "best_worst"
	AssertWithGrade         = "with_grade"
	AssertStatsTotal        = "stats_total"
	AssertNotificationCount = "notification_count"
)

// Operation names accepted in steps.
const (
	OpAddStudent    = "add_student"
	OpAddGrade      = "add_grade"
	OpRemoveStudent = "remove_student"
	OpRenameStudent = "rename_student"
	OpRemoveCourse  = "remove_course"
)

// opArgs lists the required args of every operation.
var opArgs = map[string][]string{
	OpAddStudent:    {"name"},
	OpAddGrade:      {"student", "course", "grade"},
	OpRemoveStudent: {"name"},
	OpRenameStudent: {"old", "new"},
	OpRemoveCourse:  {"course"},
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected to catch typos like "assertion:".
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(step Step) error {
	required, ok := opArgs[step.Op]
	if !ok {
		return fmt.Errorf("unknown op %q", step.Op)
	}
	for _, key := range required {
		v, ok := step.Args[key]
		if !ok {
			return fmt.Errorf("%s: arg %q is required", step.Op, key)
		}
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: arg %q must be a string, got %T", step.Op, key, v)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertAverage:
		if a.Student == "" || a.Equals == nil {
			return fmt.Errorf("assertions[%d]: student and equals are required for average", index)
		}
	case AssertStudents, AssertTop:
		if a.N < 0 {
			return fmt.Errorf("assertions[%d]: n must be non-negative", index)
		}
	case AssertWithGrade:
		if a.Grade == "" {
			return fmt.Errorf("assertions[%d]: grade is required for with_grade", index)
		}
	case AssertBestWorst:
		if a.Code == "" && (a.Best == "" || a.Worst == "") {
			return fmt.Errorf("assertions[%d]: best and worst (or code) are required for best_worst", index)
		}
	case AssertStatsTotal:
		if a.Code == "" && a.Count == nil {
			return fmt.Errorf("assertions[%d]: count (or code) is required for stats_total", index)
		}
	case AssertNotificationCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for notification_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
