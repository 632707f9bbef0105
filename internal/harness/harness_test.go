package harness

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/gradebook"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestRun_ScenarioFiles(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_RecordsTraceInOrder(t *testing.T) {
	scenario := &Scenario{
		Name:        "trace_order",
		Description: "ops and notifications share one sequence",
		Setup: []Step{
			{Op: OpAddStudent, Args: map[string]any{"name": "Alice"}},
		},
		Steps: []Step{
			{Op: OpAddGrade, Args: map[string]any{"student": "Alice", "course": "Math", "grade": "good"}},
		},
		Assertions: []Assertion{
			{Type: AssertNotificationCount, Count: intPtr(1)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, EventOp, result.Trace[0].Type)
	assert.Equal(t, EventNotification, result.Trace[1].Type)
	assert.Equal(t, "[notification] new grade for Alice in Math: good", result.Trace[1].Message)
	assert.Equal(t, OpAddGrade, result.Trace[2].Op)
	for i, e := range result.Trace {
		assert.Equal(t, int64(i+1), e.Seq)
	}
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "adding a grade to nobody is NOT_FOUND, not ok",
		Steps: []Step{
			{Op: OpAddGrade, Args: map[string]any{"student": "Ghost", "course": "Math", "grade": "good"}},
			{Op: OpRemoveStudent, Args: map[string]any{"name": "Ghost"}, Expect: "ALREADY_EXISTS"},
		},
		Assertions: []Assertion{
			{Type: AssertStudents, Names: []string{}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"step 0 (add_grade): expected ok, got NOT_FOUND",
		"step 1 (remove_student): expected ALREADY_EXISTS, got NOT_FOUND",
	}, result.Errors)
}

func TestRun_FailingSetupAborts(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_setup",
		Description: "setup must succeed",
		Setup: []Step{
			{Op: OpRemoveStudent, Args: map[string]any{"name": "Ghost"}},
		},
		Steps: []Step{
			{Op: OpRemoveCourse, Args: map[string]any{"course": "Math"}},
		},
		Assertions: []Assertion{
			{Type: AssertStudents},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup step 0 (remove_student): failed with NOT_FOUND")
}

func TestRun_InvalidGradeIsScenarioError(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_grade",
		Description: "grade names are validated",
		Setup: []Step{
			{Op: OpAddStudent, Args: map[string]any{"name": "Alice"}},
		},
		Steps: []Step{
			{Op: OpAddGrade, Args: map[string]any{"student": "Alice", "course": "Math", "grade": "superb"}},
		},
		Assertions: []Assertion{
			{Type: AssertStudents, Names: []string{"Alice"}},
		},
	}

	_, err := Run(scenario)
	assert.Error(t, err)
}

func TestRun_AssertionFailuresAreCollected(t *testing.T) {
	scenario := &Scenario{
		Name:        "assertions",
		Description: "every failing assertion is reported",
		Setup: []Step{
			{Op: OpAddStudent, Args: map[string]any{"name": "Alice"}},
		},
		Steps: []Step{
			{Op: OpAddGrade, Args: map[string]any{"student": "Alice", "course": "Math", "grade": "good"}},
		},
		Assertions: []Assertion{
			{Type: AssertAverage, Student: "Alice", Equals: floatPtr(5)},
			{Type: AssertStatsTotal, Code: "EMPTY_STORE"},
			{Type: AssertTop, Names: []string{"Alice"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "assertions[0]")
	assert.Contains(t, result.Errors[1], "assertions[1]")
}

func TestExecute_NonStringArgIsStepError(t *testing.T) {
	h := &Harness{
		store:  gradebook.New(),
		result: NewResult(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := h.execute(Step{Op: OpAddStudent, Args: map[string]any{"name": 123}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `add_student: arg "name" must be a string, got int`)
	assert.Empty(t, h.result.Trace, "a malformed step is not traced")
	assert.Equal(t, 0, h.store.Len())
}

func TestRun_NonStringArgIsScenarioError(t *testing.T) {
	scenario := &Scenario{
		Name:        "numeric_name",
		Description: "names must be strings",
		Steps: []Step{
			{Op: OpAddStudent, Args: map[string]any{"name": 123}},
		},
		Assertions: []Assertion{
			{Type: AssertStudents, Names: []string{}},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a string")
	assert.NotContains(t, err.Error(), "INVALID_NAME")
}
