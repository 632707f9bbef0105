package gradebook

import (
	"fmt"

	"github.com/roach88/gradebook/internal/grade"
)

// Op names a mutating grade-book operation.
type Op string

const (
	OpAddStudent    Op = "add_student"
	OpAddGrade      Op = "add_grade"
	OpRemoveStudent Op = "remove_student"
	OpRenameStudent Op = "rename_student"
	OpRemoveCourse  Op = "remove_course"
)

// Change is the structured status line a mutating operation returns.
// The caller decides whether and how to print it.
type Change struct {
	Op      Op          `json:"op"`
	Student string      `json:"student,omitempty"`
	NewName string      `json:"new_name,omitempty"`
	Course  string      `json:"course,omitempty"`
	Grade   grade.Value `json:"grade,omitempty"`

	// Affected is the number of students touched by RemoveCourse.
	Affected int `json:"affected,omitempty"`
}

// String renders the change as a human-readable sentence.
func (c Change) String() string {
	switch c.Op {
	case OpAddStudent:
		return fmt.Sprintf("student %s added", c.Student)
	case OpAddGrade:
		return fmt.Sprintf("grade %s added for %s in %s", c.Grade, c.Student, c.Course)
	case OpRemoveStudent:
		return fmt.Sprintf("student %s removed", c.Student)
	case OpRenameStudent:
		return fmt.Sprintf("student %s renamed to %s", c.Student, c.NewName)
	case OpRemoveCourse:
		return fmt.Sprintf("course %s removed (%d students affected)", c.Course, c.Affected)
	default:
		return string(c.Op)
	}
}
