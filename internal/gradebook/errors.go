package gradebook

import (
	"errors"
	"fmt"
)

// Base errors for checking with errors.Is.
var (
	ErrNotFound      = errors.New("student not found")
	ErrAlreadyExists = errors.New("student already exists")
	ErrEmptyStore    = errors.New("grade-book is empty")
	ErrInvalidName   = errors.New("invalid name")
)

// ErrorCode categorizes grade-book errors.
type ErrorCode string

const (
	// CodeNotFound indicates a lookup of an unknown student.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a duplicate name on add or rename.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeEmptyStore indicates ranking or statistics over nothing.
	CodeEmptyStore ErrorCode = "EMPTY_STORE"

	// CodeInvalidName indicates a student or course name the text files cannot hold.
	CodeInvalidName ErrorCode = "INVALID_NAME"
)

var codeKinds = map[ErrorCode]error{
	CodeNotFound:      ErrNotFound,
	CodeAlreadyExists: ErrAlreadyExists,
	CodeEmptyStore:    ErrEmptyStore,
	CodeInvalidName:   ErrInvalidName,
}

// Error is returned by Store operations for expected failures.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed, e.g. "AddGrade".
	Op string

	// Name is the student (or course) the operation addressed.
	Name string

	// Message is a human-readable description.
	Message string
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s: %s (%s)", e.Op, e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
}

// Unwrap returns the sentinel matching Code.
func (e *Error) Unwrap() error {
	return codeKinds[e.Code]
}

// CodeOf extracts the ErrorCode from err.
// Returns "" if err is not a grade-book error.
func CodeOf(err error) ErrorCode {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsNotFound reports whether err signals an unknown student.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err signals a name collision.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsEmptyStore reports whether err signals an empty grade-book.
func IsEmptyStore(err error) bool {
	return errors.Is(err, ErrEmptyStore)
}

func notFound(op, name string) *Error {
	return &Error{Code: CodeNotFound, Op: op, Name: name, Message: "student not found"}
}

func alreadyExists(op, name string) *Error {
	return &Error{Code: CodeAlreadyExists, Op: op, Name: name, Message: "student already exists"}
}

func emptyStore(op, message string) *Error {
	return &Error{Code: CodeEmptyStore, Op: op, Message: message}
}

func invalidName(op, what, name, problem string) *Error {
	return &Error{Code: CodeInvalidName, Op: op, Name: name, Message: what + " " + problem}
}
