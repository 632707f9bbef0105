package gradebook

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gradebook/internal/grade"
)

// newTestStore creates a store holding the given students, in order.
func newTestStore(t *testing.T, names ...string) *Store {
	t.Helper()
	s := New()
	for _, n := range names {
		_, err := s.AddStudent(n)
		require.NoError(t, err)
	}
	return s
}

func mustAddGrade(t *testing.T, s *Store, name, course string, g grade.Value) {
	t.Helper()
	_, err := s.AddGrade(name, course, g)
	require.NoError(t, err)
}

func TestAddStudent(t *testing.T) {
	s := New()

	c, err := s.AddStudent("Alice")
	require.NoError(t, err)
	assert.Equal(t, Change{Op: OpAddStudent, Student: "Alice"}, c)
	assert.Equal(t, "student Alice added", c.String())
	assert.True(t, s.Has("Alice"))
	assert.Equal(t, 1, s.Len())
}

func TestAddStudent_DuplicateLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t, "Alice")
	mustAddGrade(t, s, "Alice", "Math", grade.Good)
	before := s.Records()

	_, err := s.AddStudent("Alice")
	require.Error(t, err)
	assert.True(t, IsAlreadyExists(err))
	assert.Equal(t, CodeAlreadyExists, CodeOf(err))
	assert.Equal(t, before, s.Records())
}

func TestAddStudent_EmptyName(t *testing.T) {
	s := New()
	_, err := s.AddStudent("")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, 0, s.Len())
}

func TestNames_RejectUnstorableNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"blank", "   "},
		{"tab only", "\t"},
		{"field separator", "Doe, John"},
		{"newline", "Ann\nBob"},
		{"carriage return", "Ann\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, "Alice")
			mustAddGrade(t, s, "Alice", "Math", grade.Good)
			before := s.Records()

			_, err := s.AddStudent(tt.input)
			assert.ErrorIs(t, err, ErrInvalidName)
			assert.Equal(t, CodeInvalidName, CodeOf(err))

			_, err = s.AddGrade("Alice", tt.input, grade.Great)
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.RenameStudent("Alice", tt.input)
			assert.ErrorIs(t, err, ErrInvalidName)

			assert.Equal(t, before, s.Records())
		})
	}
}

func TestNames_AllowCommasAndInnerSpaces(t *testing.T) {
	s := newTestStore(t, "Anna Maria", "O,Brien")
	mustAddGrade(t, s, "O,Brien", "Art,History", grade.Good)
	mustAddGrade(t, s, "Anna Maria", "Linear Algebra", grade.Great)
	assert.Equal(t, []string{"Anna Maria", "O,Brien"}, s.Names())
}

func TestAddStudent_NormalizesNames(t *testing.T) {
	s := New()
	composed := "Ren\u00e9"
	decomposed := "Rene\u0301"

	_, err := s.AddStudent(composed)
	require.NoError(t, err)

	_, err = s.AddStudent(decomposed)
	assert.True(t, IsAlreadyExists(err))
	assert.True(t, s.Has(decomposed))
}

func TestAddGrade(t *testing.T) {
	s := newTestStore(t, "Alice")

	c, err := s.AddGrade("Alice", "Math", grade.Great)
	require.NoError(t, err)
	assert.Equal(t, "grade great added for Alice in Math", c.String())

	mustAddGrade(t, s, "Alice", "Math", grade.Great)
	mustAddGrade(t, s, "Alice", "Physics", grade.Bad)

	ledgers, err := s.GetStudentGrades("Alice")
	require.NoError(t, err)
	assert.Equal(t, []CourseLedger{
		{Course: "Math", Grades: []grade.Value{grade.Great, grade.Great}},
		{Course: "Physics", Grades: []grade.Value{grade.Bad}},
	}, ledgers)
}

func TestAddGrade_UnknownStudent(t *testing.T) {
	s := New()
	var calls int
	s.Subscribe(func(string, string, grade.Value) { calls++ })

	_, err := s.AddGrade("Bob", "Math", grade.Good)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, calls, "no notification for a failed AddGrade")
}

func TestAddGrade_RejectsInvalidInput(t *testing.T) {
	s := newTestStore(t, "Alice")

	_, err := s.AddGrade("Alice", "", grade.Good)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.AddGrade("Alice", "Math", grade.Value(9))
	assert.ErrorIs(t, err, grade.ErrInvalidGrade)

	ledgers, err := s.GetStudentGrades("Alice")
	require.NoError(t, err)
	assert.Empty(t, ledgers)
}

func TestAddGrade_NotifiesSubscribersInOrder(t *testing.T) {
	s := newTestStore(t, "Alice")

	var log []string
	s.Subscribe(func(student, course string, g grade.Value) {
		log = append(log, "first:"+student+":"+course+":"+g.String())
	})
	s.Subscribe(func(student, course string, g grade.Value) {
		// The grade is already stored when handlers run.
		avg, err := s.AverageGrade(student)
		require.NoError(t, err)
		assert.Equal(t, 4.0, avg)
		log = append(log, "second")
	})
	s.Subscribe(nil)

	mustAddGrade(t, s, "Alice", "Math", grade.Good)
	assert.Equal(t, []string{"first:Alice:Math:good", "second"}, log)
}

func TestGetStudentGrades_ReturnsCopy(t *testing.T) {
	s := newTestStore(t, "Alice")
	mustAddGrade(t, s, "Alice", "Math", grade.Good)

	ledgers, err := s.GetStudentGrades("Alice")
	require.NoError(t, err)
	ledgers[0].Grades[0] = grade.Bad

	again, err := s.GetStudentGrades("Alice")
	require.NoError(t, err)
	assert.Equal(t, grade.Good, again[0].Grades[0])

	_, err = s.GetStudentGrades("Nobody")
	assert.True(t, IsNotFound(err))
}

func TestAverageGrade(t *testing.T) {
	s := newTestStore(t, "Alice", "Empty")
	mustAddGrade(t, s, "Alice", "Math", grade.Great)
	mustAddGrade(t, s, "Alice", "Physics", grade.Bad)

	avg, err := s.AverageGrade("Alice")
	require.NoError(t, err)
	assert.Equal(t, 3.5, avg)

	avg, err = s.AverageGrade("Empty")
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	_, err = s.AverageGrade("Nobody")
	assert.True(t, IsNotFound(err))
}

func TestAverageGrade_IndependentOfOrder(t *testing.T) {
	entries := []struct {
		course string
		g      grade.Value
	}{
		{"Math", grade.Great},
		{"Physics", grade.Bad},
		{"Math", grade.Medium},
		{"History", grade.Good},
		{"Physics", grade.Good},
	}

	forward := newTestStore(t, "A")
	backward := newTestStore(t, "A")
	sum := 0
	for i := range entries {
		mustAddGrade(t, forward, "A", entries[i].course, entries[i].g)
		j := len(entries) - 1 - i
		mustAddGrade(t, backward, "A", entries[j].course, entries[j].g)
		sum += entries[i].g.Int()
	}

	want := float64(sum) / float64(len(entries))
	a1, _ := forward.AverageGrade("A")
	a2, _ := backward.AverageGrade("A")
	assert.InDelta(t, want, a1, 1e-9)
	assert.InDelta(t, want, a2, 1e-9)
}

func TestRemoveStudent(t *testing.T) {
	s := newTestStore(t, "Alice", "Bob", "Carol")

	c, err := s.RemoveStudent("Bob")
	require.NoError(t, err)
	assert.Equal(t, "student Bob removed", c.String())
	assert.Equal(t, []string{"Alice", "Carol"}, s.Names())

	_, err = s.RemoveStudent("Bob")
	assert.True(t, IsNotFound(err))
}

func TestRenameStudent(t *testing.T) {
	s := newTestStore(t, "Alice", "Bob", "Carol")
	mustAddGrade(t, s, "Bob", "Math", grade.Good)

	c, err := s.RenameStudent("Bob", "Robert")
	require.NoError(t, err)
	assert.Equal(t, "student Bob renamed to Robert", c.String())

	assert.False(t, s.Has("Bob"))
	assert.True(t, s.Has("Robert"))
	assert.Equal(t, []string{"Alice", "Robert", "Carol"}, s.Names(), "renamed student keeps its position")

	rec, err := s.Record("Robert")
	require.NoError(t, err)
	assert.Equal(t, "Robert", rec.Name)
	assert.Equal(t, 4.0, rec.Average())
}

func TestRenameStudent_Errors(t *testing.T) {
	s := newTestStore(t, "Alice", "Bob")

	_, err := s.RenameStudent("Alice", "Bob")
	assert.True(t, IsAlreadyExists(err))

	// The target is checked before the source.
	_, err = s.RenameStudent("Nobody", "Bob")
	assert.True(t, IsAlreadyExists(err))

	_, err = s.RenameStudent("Nobody", "Zed")
	assert.True(t, IsNotFound(err))

	_, err = s.RenameStudent("Alice", "")
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.Equal(t, []string{"Alice", "Bob"}, s.Names())
}

func TestRenameStudent_RoundTrip(t *testing.T) {
	s := newTestStore(t, "Alice", "Bob")
	mustAddGrade(t, s, "Alice", "Math", grade.Great)
	mustAddGrade(t, s, "Alice", "Physics", grade.Medium)
	keysBefore := s.Names()
	avgBefore, _ := s.AverageGrade("Alice")

	_, err := s.RenameStudent("Alice", "Alicia")
	require.NoError(t, err)
	_, err = s.RenameStudent("Alicia", "Alice")
	require.NoError(t, err)

	assert.Equal(t, keysBefore, s.Names())
	avgAfter, _ := s.AverageGrade("Alice")
	assert.Equal(t, avgBefore, avgAfter)
}

func TestRenameStudent_KeysMatchRecordNames(t *testing.T) {
	s := newTestStore(t, "Alice", "Bob")
	_, err := s.RenameStudent("Alice", "Alicia")
	require.NoError(t, err)

	for _, rec := range s.Records() {
		assert.True(t, s.Has(rec.Name))
		got, err := s.Record(rec.Name)
		require.NoError(t, err)
		assert.Equal(t, rec.Name, got.Name)
	}
}

func TestRemoveCourse(t *testing.T) {
	s := newTestStore(t, "Alice", "Bob", "Carol")
	mustAddGrade(t, s, "Alice", "Math", grade.Great)
	mustAddGrade(t, s, "Alice", "Physics", grade.Bad)
	mustAddGrade(t, s, "Bob", "Math", grade.Bad)

	c := s.RemoveCourse("Math")
	assert.Equal(t, 2, c.Affected)
	assert.Equal(t, "course Math removed (2 students affected)", c.String())

	avg, _ := s.AverageGrade("Alice")
	assert.Equal(t, 2.0, avg, "Math grades no longer count")

	ledgers, _ := s.GetStudentGrades("Bob")
	assert.Empty(t, ledgers, "course key removed, not just emptied")

	c = s.RemoveCourse("Underwater Basket Weaving")
	assert.Equal(t, 0, c.Affected)
}

func TestRemoveCourse_ThenReAddKeepsNewOrder(t *testing.T) {
	s := newTestStore(t, "Alice")
	mustAddGrade(t, s, "Alice", "Math", grade.Good)
	mustAddGrade(t, s, "Alice", "Physics", grade.Good)
	s.RemoveCourse("Math")
	mustAddGrade(t, s, "Alice", "Math", grade.Bad)

	ledgers, _ := s.GetStudentGrades("Alice")
	require.Len(t, ledgers, 2)
	assert.Equal(t, "Physics", ledgers[0].Course)
	assert.Equal(t, CourseLedger{Course: "Math", Grades: []grade.Value{grade.Bad}}, ledgers[1])
}

func TestWithLogger_LogsChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(WithLogger(logger))

	_, err := s.AddStudent("Alice")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "op=add_student")
	assert.Contains(t, buf.String(), `message="student Alice added"`)
}

func TestLoadSample(t *testing.T) {
	s := New()
	changes, err := LoadSample(s)
	require.NoError(t, err)
	assert.Len(t, changes, 9)
	assert.Equal(t, SampleStudents, s.Names())

	avg, _ := s.AverageGrade("Alexey")
	assert.Equal(t, 3.5, avg)
	avg, _ = s.AverageGrade("Ivan")
	assert.Equal(t, 4.5, avg)
}
