package gradebook

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/gradebook/internal/grade"
)

// GradeAddedHandler receives a notification for every grade stored by AddGrade.
type GradeAddedHandler func(student, course string, g grade.Value)

// Store owns every student record of one grade-book.
type Store struct {
	students map[string]*student
	order    []string // store order
	handlers []GradeAddedHandler
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger makes the store log every change at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty grade-book.
func New(opts ...Option) *Store {
	s := &Store{
		students: make(map[string]*student),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a handler for grade-added notifications.
// Handlers run synchronously inside AddGrade, in registration order.
func (s *Store) Subscribe(h GradeAddedHandler) {
	if h == nil {
		return
	}
	s.handlers = append(s.handlers, h)
}

// normalizeName returns the NFC form of name so composed and decomposed
// spellings address the same record.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// nameSep is the field separator of the grades file.
const nameSep = ", "

// checkName rejects names that would not survive a save and reload:
// blank names, line breaks and the grades field separator.
func checkName(op, what, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return invalidName(op, what, "", "must not be blank")
	case strings.ContainsAny(name, "\r\n"):
		return invalidName(op, what, name, "must not contain a line break")
	case strings.Contains(name, nameSep):
		return invalidName(op, what, name, `must not contain ", "`)
	}
	return nil
}

// AddStudent inserts a new, grade-less student.
func (s *Store) AddStudent(name string) (Change, error) {
	const op = "AddStudent"
	name = normalizeName(name)
	if err := checkName(op, "student name", name); err != nil {
		return Change{}, err
	}
	if _, ok := s.students[name]; ok {
		return Change{}, alreadyExists(op, name)
	}

	s.students[name] = newStudent(name)
	s.order = append(s.order, name)

	return s.record(Change{Op: OpAddStudent, Student: name}), nil
}

// AddGrade appends g to the student's ledger for course and notifies
// subscribers. The course ledger is created on first use.
func (s *Store) AddGrade(name, course string, g grade.Value) (Change, error) {
	const op = "AddGrade"
	name = normalizeName(name)
	course = normalizeName(course)
	if err := checkName(op, "course name", course); err != nil {
		return Change{}, err
	}
	if !g.Valid() {
		return Change{}, fmt.Errorf("%s: %w: %d", op, grade.ErrInvalidGrade, g.Int())
	}
	st, ok := s.students[name]
	if !ok {
		return Change{}, notFound(op, name)
	}

	st.addGrade(course, g)
	for _, h := range s.handlers {
		h(name, course, g)
	}

	return s.record(Change{Op: OpAddGrade, Student: name, Course: course, Grade: g}), nil
}

// RemoveStudent deletes a student and all of their grades.
func (s *Store) RemoveStudent(name string) (Change, error) {
	const op = "RemoveStudent"
	name = normalizeName(name)
	if _, ok := s.students[name]; !ok {
		return Change{}, notFound(op, name)
	}

	delete(s.students, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })

	return s.record(Change{Op: OpRemoveStudent, Student: name}), nil
}

// RenameStudent moves a record to a new name. The new name is checked for
// collisions before the old one is looked up. Both map edits happen before
// the method returns and no handler runs in between.
func (s *Store) RenameStudent(oldName, newName string) (Change, error) {
	const op = "RenameStudent"
	oldName = normalizeName(oldName)
	newName = normalizeName(newName)
	if err := checkName(op, "new student name", newName); err != nil {
		return Change{}, err
	}
	if _, ok := s.students[newName]; ok {
		return Change{}, alreadyExists(op, newName)
	}
	st, ok := s.students[oldName]
	if !ok {
		return Change{}, notFound(op, oldName)
	}

	st.name = newName
	s.students[newName] = st
	delete(s.students, oldName)
	s.order[slices.Index(s.order, oldName)] = newName

	return s.record(Change{Op: OpRenameStudent, Student: oldName, NewName: newName}), nil
}

// RemoveCourse deletes the course from every student that has it.
// It never fails; Affected reports how many students lost grades.
func (s *Store) RemoveCourse(course string) Change {
	course = normalizeName(course)
	affected := 0
	for _, name := range s.order {
		if s.students[name].removeCourse(course) {
			affected++
		}
	}
	return s.record(Change{Op: OpRemoveCourse, Course: course, Affected: affected})
}

// GetStudentGrades returns a copy of the student's course ledgers in
// insertion order.
func (s *Store) GetStudentGrades(name string) ([]CourseLedger, error) {
	st, ok := s.students[normalizeName(name)]
	if !ok {
		return nil, notFound("GetStudentGrades", name)
	}
	return st.ledgerCopy(), nil
}

// AverageGrade returns the mean of all grades of a student, or 0 if the
// student has none.
func (s *Store) AverageGrade(name string) (float64, error) {
	st, ok := s.students[normalizeName(name)]
	if !ok {
		return 0, notFound("AverageGrade", name)
	}
	return st.average(), nil
}

// Has reports whether a student with this name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.students[normalizeName(name)]
	return ok
}

// Len returns the number of students.
func (s *Store) Len() int {
	return len(s.order)
}

// Names returns student names in store order.
func (s *Store) Names() []string {
	return slices.Clone(s.order)
}

// Record returns a copy of one student.
func (s *Store) Record(name string) (Record, error) {
	st, ok := s.students[normalizeName(name)]
	if !ok {
		return Record{}, notFound("Record", name)
	}
	return Record{Name: st.name, Courses: st.ledgerCopy()}, nil
}

// Records returns copies of every student in store order.
func (s *Store) Records() []Record {
	out := make([]Record, 0, len(s.order))
	for _, name := range s.order {
		st := s.students[name]
		out = append(out, Record{Name: st.name, Courses: st.ledgerCopy()})
	}
	return out
}

func (s *Store) record(c Change) Change {
	s.logger.Debug("grade-book change",
		"op", c.Op,
		"student", c.Student,
		"course", c.Course,
		"message", c.String(),
	)
	return c
}
