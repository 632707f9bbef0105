package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Default file names.
const (
	DefaultGradesFile   = "grades_data.txt"
	DefaultStudentsFile = "students_data.txt"
	DefaultReportFile   = "report.txt"
)

// LoadOptions controls how input lines are applied.
type LoadOptions struct {
	// Strict fails the load on the first malformed line.
	Strict bool

	// RequireStudents skips grades of unknown students instead of
	// creating them.
	RequireStudents bool

	// Logger receives a warning per skipped line. Nil disables logging.
	Logger *slog.Logger
}

func (o LoadOptions) warnSkipped(skipped []SkippedLine) {
	if o.Logger == nil {
		return
	}
	for _, sk := range skipped {
		o.Logger.Warn("skipped line", "line", sk.Line, "reason", sk.Reason, "text", sk.Text)
	}
}

// line is one non-blank input line with its 1-based number.
type line struct {
	num  int
	text string
}

// scanLines returns all non-blank lines of r. Trailing carriage returns are
// dropped so files written on Windows load the same way.
func scanLines(r io.Reader) ([]line, error) {
	var lines []line
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, line{num: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// loadFile opens path and hands it to read. The file is closed on every path.
func loadFile(path string, read func(io.Reader) (LoadResult, error)) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return LoadResult{}, &FileError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	res, err := read(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return LoadResult{}, pe
		}
		return LoadResult{}, &FileError{Op: "load", Path: path, Err: err}
	}
	return res, nil
}

// saveFile creates (or truncates) path and hands it to write. A failed
// close is reported like a failed write.
func saveFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FileError{Op: "save", Path: path, Err: cerr}
		}
	}()

	if err := write(f); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	return nil
}
