// Package harness runs grade-book scenarios described in YAML.
//
// # Scenario Format
//
//	name: rename_round_trip
//	description: "Renaming there and back restores the book"
//	setup:
//	  - op: add_student
//	    args: { name: Alice }
//	  - op: add_grade
//	    args: { student: Alice, course: Math, grade: great }
//	steps:
//	  - op: rename_student
//	    args: { old: Alice, new: Alicia }
//	  - op: add_grade
//	    args: { student: Alice, course: Physics, grade: bad }
//	    expect: NOT_FOUND
//	assertions:
//	  - type: average
//	    student: Alicia
//	    equals: 5
//
// Setup steps must succeed. A step's expect is "ok" (the default) or a
// gradebook.ErrorCode.
//
// # Operations
//
//   - add_student: name
//   - add_grade: student, course, grade
//   - remove_student: name
//   - rename_student: old, new
//   - remove_course: course
//
// # Assertion Types
//
//   - average: student's average equals a value
//   - students: names in store order
//   - top: TopStudents(n) names, n defaults to 3
//   - best_worst: best and worst names, or code: EMPTY_STORE
//   - with_grade: FindStudentsWithGrade names
//   - stats_total: SystemStats total, or code: EMPTY_STORE
//   - notification_count: number of grade-added notifications
//
// # Deterministic Testing
//
// Every scenario runs against a fresh store. Trace events carry logical
// sequence numbers, never timestamps, so traces compare byte-for-byte with
// golden files under testdata/golden.
package harness
