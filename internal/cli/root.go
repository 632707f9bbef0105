package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	ConfigPath   string
	GradesFile   string
	StudentsFile string
	ReportFile   string
	Strict       bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gradebook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gradebook",
		Short: "Student grade-book",
		Long: `Track students and their course grades in flat text files.

Every command loads the students file and the grades file, runs once and
writes the files back when it changed something. Missing files start an
empty book.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	defaults := config.Default()
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to YAML config")
	pf.StringVar(&opts.GradesFile, "grades", defaults.Files.Grades, "grades file")
	pf.StringVar(&opts.StudentsFile, "students", defaults.Files.Students, "students file")
	pf.StringVar(&opts.ReportFile, "report", defaults.Files.Report, "report file")
	pf.BoolVar(&opts.Strict, "strict", false, "fail on malformed lines instead of skipping them")

	cmd.AddCommand(NewStudentCommand(opts))
	cmd.AddCommand(NewGradeCommand(opts))
	cmd.AddCommand(NewCourseCommand(opts))
	cmd.AddCommand(NewTopCommand(opts))
	cmd.AddCommand(NewBestWorstCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}
