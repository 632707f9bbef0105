package textfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/gradebook/internal/grade"
	"github.com/roach88/gradebook/internal/gradebook"
)

// fieldSep separates the fields of a grades line.
const fieldSep = ", "

// gradeEntry is one parsed grades line.
type gradeEntry struct {
	line    line
	student string
	course  string
	grade   grade.Value
}

// parseGradeLine splits "<student>, <course>, <grade>". The returned reason
// is empty when the line is well-formed.
func parseGradeLine(text string) (gradeEntry, string) {
	fields := strings.Split(text, fieldSep)
	if len(fields) != 3 {
		return gradeEntry{}, fmt.Sprintf("expected 3 fields, got %d", len(fields))
	}
	if fields[0] == "" || fields[1] == "" {
		return gradeEntry{}, "empty student or course"
	}
	g, err := grade.Parse(fields[2])
	if err != nil {
		return gradeEntry{}, fmt.Sprintf("unknown grade %q", fields[2])
	}
	return gradeEntry{student: fields[0], course: fields[1], grade: g}, ""
}

// ReadGrades loads grades lines from r into s.
func ReadGrades(r io.Reader, s *gradebook.Store, opts LoadOptions) (LoadResult, error) {
	lines, err := scanLines(r)
	if err != nil {
		return LoadResult{}, err
	}

	var res LoadResult
	entries := make([]gradeEntry, 0, len(lines))
	for _, l := range lines {
		e, reason := parseGradeLine(l.text)
		if reason == "" && opts.RequireStudents && !s.Has(e.student) {
			reason = "student not found"
		}
		if reason != "" {
			if opts.Strict {
				return LoadResult{}, &ParseError{Line: l.num, Text: l.text, Reason: reason}
			}
			res.Skipped = append(res.Skipped, SkippedLine{Line: l.num, Text: l.text, Reason: reason})
			continue
		}
		e.line = l
		entries = append(entries, e)
	}

	for _, e := range entries {
		if !s.Has(e.student) {
			if _, err := s.AddStudent(e.student); err != nil {
				res.Skipped = append(res.Skipped, SkippedLine{Line: e.line.num, Text: e.line.text, Reason: err.Error()})
				continue
			}
		}
		if _, err := s.AddGrade(e.student, e.course, e.grade); err != nil {
			res.Skipped = append(res.Skipped, SkippedLine{Line: e.line.num, Text: e.line.text, Reason: err.Error()})
			continue
		}
		res.Applied++
	}

	opts.warnSkipped(res.Skipped)
	return res, nil
}

// WriteGrades writes one line per grade: students in store order, courses
// in insertion order, grades in append order.
func WriteGrades(w io.Writer, s *gradebook.Store) error {
	bw := bufio.NewWriter(w)
	for _, rec := range s.Records() {
		for _, l := range rec.Courses {
			for _, g := range l.Grades {
				if _, err := fmt.Fprintf(bw, "%s%s%s%s%s\n", rec.Name, fieldSep, l.Course, fieldSep, g); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// LoadGrades reads a grades file into s.
func LoadGrades(path string, s *gradebook.Store, opts LoadOptions) (LoadResult, error) {
	return loadFile(path, func(r io.Reader) (LoadResult, error) {
		return ReadGrades(r, s, opts)
	})
}

// SaveGrades writes every grade of s to path.
func SaveGrades(path string, s *gradebook.Store) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteGrades(w, s)
	})
}
