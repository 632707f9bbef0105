package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_RenameRoundTrip(t *testing.T) {
	scenario := &Scenario{
		Name:        "rename_round_trip",
		Description: "Renaming there and back restores the book",
		Setup: []Step{
			{Op: OpAddStudent, Args: map[string]any{"name": "Alice"}},
			{Op: OpAddGrade, Args: map[string]any{"student": "Alice", "course": "Math", "grade": "great"}},
		},
		Steps: []Step{
			{Op: OpRenameStudent, Args: map[string]any{"old": "Alice", "new": "Alicia"}},
			{Op: OpAddGrade, Args: map[string]any{"student": "Alice", "course": "Physics", "grade": "bad"}, Expect: "NOT_FOUND"},
			{Op: OpRenameStudent, Args: map[string]any{"old": "Alicia", "new": "Alice"}},
		},
		Assertions: []Assertion{
			{Type: AssertStudents, Names: []string{"Alice"}},
			{Type: AssertAverage, Student: "Alice", Equals: floatPtr(5)},
			{Type: AssertNotificationCount, Count: intPtr(1)},
		},
	}

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestMarshalTrace_Deterministic(t *testing.T) {
	trace := []TraceEvent{
		{Seq: 1, Type: EventOp, Op: OpAddStudent, Args: map[string]any{"name": "A", "extra": "x"}, Outcome: OutcomeOK},
	}

	first, err := MarshalTrace("x", trace)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := MarshalTrace("x", trace)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, byte('\n'), first[len(first)-1])
}
