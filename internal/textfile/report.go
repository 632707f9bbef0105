package textfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/gradebook/internal/gradebook"
)

// WriteReport writes a human-readable dump of s:
//
//	Alice
//	- Math: great, good
//	- Physics: bad
//
// Students are separated by a blank line. The output is not meant to be
// loaded back.
func WriteReport(w io.Writer, s *gradebook.Store) error {
	bw := bufio.NewWriter(w)
	for i, rec := range s.Records() {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, rec.Name)
		for _, l := range rec.Courses {
			names := make([]string, len(l.Grades))
			for j, g := range l.Grades {
				names[j] = g.String()
			}
			fmt.Fprintf(bw, "- %s: %s\n", l.Course, strings.Join(names, ", "))
		}
	}
	return bw.Flush()
}

// SaveReport writes the report for s to path.
func SaveReport(path string, s *gradebook.Store) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteReport(w, s)
	})
}
