package gradebook

import "github.com/roach88/gradebook/internal/grade"

// SampleGrade is one entry of the demo data set.
type SampleGrade struct {
	Student string
	Course  string
	Grade   grade.Value
}

// SampleStudents and SampleGrades are the demo data the grade-book ships with.
var (
	SampleStudents = []string{"Alexey", "Maria", "Ivan"}

	SampleGrades = []SampleGrade{
		{"Alexey", "Math", grade.Great},
		{"Alexey", "Physics", grade.Bad},
		{"Maria", "Math", grade.Bad},
		{"Maria", "Chemistry", grade.Medium},
		{"Ivan", "Physics", grade.Good},
		{"Ivan", "Chemistry", grade.Great},
	}
)

// LoadSample adds the demo students and grades. Students that already exist
// are kept and receive the sample grades on top of their own.
func LoadSample(s *Store) ([]Change, error) {
	var changes []Change
	for _, name := range SampleStudents {
		c, err := s.AddStudent(name)
		if err != nil {
			if IsAlreadyExists(err) {
				continue
			}
			return changes, err
		}
		changes = append(changes, c)
	}
	for _, sg := range SampleGrades {
		c, err := s.AddGrade(sg.Student, sg.Course, sg.Grade)
		if err != nil {
			return changes, err
		}
		changes = append(changes, c)
	}
	return changes, nil
}
