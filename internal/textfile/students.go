package textfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/roach88/gradebook/internal/gradebook"
)

// ReadStudents adds one student per non-blank line of r. Names that already
// exist are reported as skipped.
func ReadStudents(r io.Reader, s *gradebook.Store, opts LoadOptions) (LoadResult, error) {
	lines, err := scanLines(r)
	if err != nil {
		return LoadResult{}, err
	}

	var res LoadResult
	for _, l := range lines {
		if _, err := s.AddStudent(l.text); err != nil {
			res.Skipped = append(res.Skipped, SkippedLine{Line: l.num, Text: l.text, Reason: err.Error()})
			continue
		}
		res.Applied++
	}

	opts.warnSkipped(res.Skipped)
	return res, nil
}

// WriteStudents writes one name per line in store order.
func WriteStudents(w io.Writer, s *gradebook.Store) error {
	bw := bufio.NewWriter(w)
	for _, name := range s.Names() {
		if _, err := fmt.Fprintln(bw, name); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadStudents reads a students file into s.
func LoadStudents(path string, s *gradebook.Store, opts LoadOptions) (LoadResult, error) {
	return loadFile(path, func(r io.Reader) (LoadResult, error) {
		return ReadStudents(r, s, opts)
	})
}

// SaveStudents writes every student name of s to path.
func SaveStudents(path string, s *gradebook.Store) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteStudents(w, s)
	})
}
