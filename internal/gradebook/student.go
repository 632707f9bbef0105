package gradebook

import "github.com/roach88/gradebook/internal/grade"

// student is the record owned by a Store. Callers only ever see copies.
type student struct {
	name    string
	courses []string // insertion order of course keys
	ledgers map[string][]grade.Value
}

func newStudent(name string) *student {
	return &student{
		name:    name,
		ledgers: make(map[string][]grade.Value),
	}
}

func (s *student) addGrade(course string, g grade.Value) {
	if _, ok := s.ledgers[course]; !ok {
		s.courses = append(s.courses, course)
	}
	s.ledgers[course] = append(s.ledgers[course], g)
}

// removeCourse drops the course key entirely. Returns false if the student
// never had a grade in it.
func (s *student) removeCourse(course string) bool {
	if _, ok := s.ledgers[course]; !ok {
		return false
	}
	delete(s.ledgers, course)
	for i, c := range s.courses {
		if c == course {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			break
		}
	}
	return true
}

func (s *student) sumAndCount() (sum, count int) {
	for _, grades := range s.ledgers {
		for _, g := range grades {
			sum += g.Int()
			count++
		}
	}
	return sum, count
}

func (s *student) average() float64 {
	sum, count := s.sumAndCount()
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func (s *student) hasGrade(g grade.Value) bool {
	for _, grades := range s.ledgers {
		for _, v := range grades {
			if v == g {
				return true
			}
		}
	}
	return false
}

func (s *student) ledgerCopy() []CourseLedger {
	out := make([]CourseLedger, 0, len(s.courses))
	for _, c := range s.courses {
		grades := make([]grade.Value, len(s.ledgers[c]))
		copy(grades, s.ledgers[c])
		out = append(out, CourseLedger{Course: c, Grades: grades})
	}
	return out
}

// CourseLedger is the ordered list of grades a student holds in one course.
type CourseLedger struct {
	Course string        `json:"course"`
	Grades []grade.Value `json:"grades"`
}

// Record is a read-only copy of one student.
type Record struct {
	Name    string         `json:"name"`
	Courses []CourseLedger `json:"courses"`
}

// Average returns the mean of every grade in the record, or 0 when empty.
func (r Record) Average() float64 {
	sum, count := 0, 0
	for _, l := range r.Courses {
		for _, g := range l.Grades {
			sum += g.Int()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// GradeCount returns the number of individual grades in the record.
func (r Record) GradeCount() int {
	n := 0
	for _, l := range r.Courses {
		n += len(l.Grades)
	}
	return n
}
