package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/grade"
)

func fiveStudents(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t, "Eve", "Dan", "Carol", "Bob", "Alice")
	mustAddGrade(t, s, "Eve", "Math", grade.Bad)      // 2
	mustAddGrade(t, s, "Dan", "Math", grade.Good)     // 4
	mustAddGrade(t, s, "Carol", "Math", grade.Great)  // 5
	mustAddGrade(t, s, "Bob", "Math", grade.Good)     // 4
	mustAddGrade(t, s, "Alice", "Math", grade.Medium) // 3
	return s
}

func TestTopStudents(t *testing.T) {
	s := fiveStudents(t)

	top := s.TopStudents(3)
	assert.Equal(t, []Ranking{
		{Name: "Carol", Average: 5},
		{Name: "Bob", Average: 4}, // tie with Dan, name ascending
		{Name: "Dan", Average: 4},
	}, top)
}

func TestTopStudents_Bounds(t *testing.T) {
	s := fiveStudents(t)

	assert.Len(t, s.TopStudents(DefaultTopN), 3)
	assert.Len(t, s.TopStudents(10), 5)
	assert.Empty(t, s.TopStudents(0))
	assert.Empty(t, s.TopStudents(-1))
	assert.Empty(t, New().TopStudents(3))
}

func TestBestAndWorst(t *testing.T) {
	s := fiveStudents(t)

	best, worst, err := s.BestAndWorst()
	require.NoError(t, err)
	assert.Equal(t, Ranking{Name: "Carol", Average: 5}, best)
	assert.Equal(t, Ranking{Name: "Eve", Average: 2}, worst)
}

func TestBestAndWorst_EmptyStore(t *testing.T) {
	_, _, err := New().BestAndWorst()
	assert.True(t, IsEmptyStore(err))
	assert.Equal(t, CodeEmptyStore, CodeOf(err))
}

func TestBestAndWorst_SingleStudent(t *testing.T) {
	s := newTestStore(t, "Solo")
	mustAddGrade(t, s, "Solo", "Math", grade.Good)

	best, worst, err := s.BestAndWorst()
	require.NoError(t, err)
	assert.Equal(t, best, worst)
	assert.Equal(t, "Solo", best.Name)
}

func TestBestAndWorst_AllTied(t *testing.T) {
	s := newTestStore(t, "Zed", "Amy")

	best, worst, err := s.BestAndWorst()
	require.NoError(t, err)
	assert.Equal(t, Ranking{Name: "Amy"}, best)
	assert.Equal(t, Ranking{Name: "Zed"}, worst)
}

func TestFindStudentsWithGrade(t *testing.T) {
	s := newTestStore(t, "Carol", "Alice", "Bob")
	mustAddGrade(t, s, "Carol", "Math", grade.Great)
	mustAddGrade(t, s, "Alice", "Math", grade.Good)
	mustAddGrade(t, s, "Alice", "Physics", grade.Great)
	mustAddGrade(t, s, "Bob", "Math", grade.Bad)

	assert.Equal(t, []string{"Carol", "Alice"}, s.FindStudentsWithGrade(grade.Great))
	assert.Equal(t, []string{"Bob"}, s.FindStudentsWithGrade(grade.Bad))
	assert.Empty(t, s.FindStudentsWithGrade(grade.Medium))
}

func TestSystemStats(t *testing.T) {
	s := newTestStore(t, "Alice", "Bob", "Idle")
	mustAddGrade(t, s, "Alice", "Math", grade.Great)
	mustAddGrade(t, s, "Alice", "Physics", grade.Bad)
	mustAddGrade(t, s, "Bob", "Math", grade.Great)
	mustAddGrade(t, s, "Bob", "Math", grade.Good)

	stats, err := s.SystemStats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 4.0, stats.Mean)
	assert.Equal(t, []GradeCount{
		{Grade: grade.Bad, Count: 1},
		{Grade: grade.Medium, Count: 0},
		{Grade: grade.Good, Count: 1},
		{Grade: grade.Great, Count: 2},
	}, stats.Counts)
	assert.Equal(t, grade.Great, stats.MostFrequent)
	assert.Equal(t, grade.Medium, stats.LeastFrequent)
	assert.Equal(t, 2, stats.Count(grade.Great))
}

func TestSystemStats_TiesFollowEnumerationOrder(t *testing.T) {
	s := newTestStore(t, "Alice")
	for _, g := range grade.All {
		mustAddGrade(t, s, "Alice", "Math", g)
	}

	stats, err := s.SystemStats()
	require.NoError(t, err)
	assert.Equal(t, grade.Bad, stats.MostFrequent)
	assert.Equal(t, grade.Bad, stats.LeastFrequent)
	assert.Equal(t, 3.5, stats.Mean)
}

func TestSystemStats_EmptyStore(t *testing.T) {
	_, err := New().SystemStats()
	assert.True(t, IsEmptyStore(err))

	// Students without grades still divide by zero.
	_, err = newTestStore(t, "Alice").SystemStats()
	assert.True(t, IsEmptyStore(err))
}
