package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
)

// StudentView is the show output for one student.
type StudentView struct {
	Name    string                   `json:"name"`
	Average float64                  `json:"average"`
	Courses []gradebook.CourseLedger `json:"courses"`
}

// NewStudentCommand creates the student command group.
func NewStudentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Add, remove, rename and show students",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a student with no grades",
		Example: `  gradebook student add Alice
  gradebook student add "Anna Maria"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(rootOpts, cmd, func(s *gradebook.Store) ([]gradebook.Change, error) {
				c, err := s.AddStudent(args[0])
				if err != nil {
					return nil, err
				}
				return []gradebook.Change{c}, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "remove <name>",
		Short:         "Remove a student and all of their grades",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(rootOpts, cmd, func(s *gradebook.Store) ([]gradebook.Change, error) {
				c, err := s.RemoveStudent(args[0])
				if err != nil {
					return nil, err
				}
				return []gradebook.Change{c}, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a student, keeping their grades",
		Long: `Rename a student. The student keeps their grades and their position
in the book. Fails when the new name is already taken.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(rootOpts, cmd, func(s *gradebook.Store) ([]gradebook.Change, error) {
				c, err := s.RenameStudent(args[0], args[1])
				if err != nil {
					return nil, err
				}
				return []gradebook.Change{c}, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "show <name>",
		Short:         "Show a student's grades by course and their average",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudentShow(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runStudentShow(opts *RootOptions, name string, cmd *cobra.Command) error {
	s, err := loadSession(opts, cmd)
	if err != nil {
		return err
	}

	rec, err := s.store.Record(name)
	if err != nil {
		return s.fail(err)
	}

	view := StudentView{Name: rec.Name, Average: rec.Average(), Courses: rec.Courses}
	if view.Courses == nil {
		view.Courses = []gradebook.CourseLedger{}
	}
	return s.out.Emit(view, func(w io.Writer) {
		fmt.Fprintf(w, "%s (average %.2f)\n", view.Name, view.Average)
		for _, l := range view.Courses {
			names := make([]string, len(l.Grades))
			for i, g := range l.Grades {
				names[i] = g.String()
			}
			fmt.Fprintf(w, "  %s: %s\n", l.Course, strings.Join(names, ", "))
		}
	})
}
