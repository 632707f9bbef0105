// Package gradebook is the in-memory grade-book: student records, their
// per-course grade ledgers, ranking and statistics.
//
// # Ordering
//
// Students iterate in insertion order ("store order"). Courses iterate in the
// order their first grade arrived, and grades in append order. A renamed
// student keeps its position.
//
// # Results
//
// Mutating operations return a Change describing what happened. Expected
// failures (unknown student, duplicate name, statistics on an empty book)
// come back as errors wrapping ErrNotFound, ErrAlreadyExists or
// ErrEmptyStore; nothing in this package prints or exits.
//
// # Notifications
//
// AddGrade calls every handler registered with Subscribe, synchronously and in
// registration order, after the grade has been stored.
//
// A Store is not safe for concurrent use.
package gradebook
