package textfile

import (
	"errors"
	"fmt"
)

// ErrFileNotFound is returned when a file to load does not exist.
// Errors matching it also match fs.ErrNotExist.
var ErrFileNotFound = errors.New("file not found")

// FileError records a failed file operation and the path involved.
type FileError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ParseError is returned by strict loads for the first malformed line.
type ParseError struct {
	Path   string // empty when reading from a plain io.Reader
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// SkippedLine describes an input line a permissive load dropped.
type SkippedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// LoadResult reports what a load applied and what it dropped.
type LoadResult struct {
	Applied int           `json:"applied"`
	Skipped []SkippedLine `json:"skipped,omitempty"`
}
