package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
)

// NewCourseCommand creates the course command group.
func NewCourseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses across all students",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <course>",
		Short: "Remove a course from every student",
		Long: `Remove a course and its grades from every student that has it.
Removing a course nobody takes is not an error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(rootOpts, cmd, func(s *gradebook.Store) ([]gradebook.Change, error) {
				return []gradebook.Change{s.RemoveCourse(args[0])}, nil
			})
		},
	})

	return cmd
}
