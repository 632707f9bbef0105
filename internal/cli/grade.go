package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
)

// FindResult is the output of grade find.
type FindResult struct {
	Grade    string   `json:"grade"`
	Students []string `json:"students"`
}

// NewGradeCommand creates the grade command group.
func NewGradeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Add grades and find students by grade",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <student> <course> <grade>",
		Short: "Append a grade to a student's course",
		Long: `Append a grade to a student's course. Grades are one of
bad, medium, good or great. The student must already exist.`,
		Example:       `  gradebook grade add Alice Math great`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseGrade(newFormatter(rootOpts, cmd), args[2])
			if err != nil {
				return err
			}
			return mutate(rootOpts, cmd, func(s *gradebook.Store) ([]gradebook.Change, error) {
				c, err := s.AddGrade(args[0], args[1], g)
				if err != nil {
					return nil, err
				}
				return []gradebook.Change{c}, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "find <grade>",
		Short:         "List students holding at least one given grade",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGradeFind(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runGradeFind(opts *RootOptions, arg string, cmd *cobra.Command) error {
	g, err := parseGrade(newFormatter(opts, cmd), arg)
	if err != nil {
		return err
	}
	s, err := loadSession(opts, cmd)
	if err != nil {
		return err
	}

	res := FindResult{Grade: g.String(), Students: s.store.FindStudentsWithGrade(g)}
	if res.Students == nil {
		res.Students = []string{}
	}
	return s.out.Emit(res, func(w io.Writer) {
		if len(res.Students) == 0 {
			fmt.Fprintf(w, "no students with grade %s\n", res.Grade)
			return
		}
		for _, name := range res.Students {
			fmt.Fprintln(w, name)
		}
	})
}
