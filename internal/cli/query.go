package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/textfile"
)

// TopOptions holds flags for the top command.
type TopOptions struct {
	*RootOptions
	N int // 0 uses top_n from config
}

// BestWorstResult is the output of best-worst.
type BestWorstResult struct {
	Best  gradebook.Ranking `json:"best"`
	Worst gradebook.Ranking `json:"worst"`
}

// NewTopCommand creates the top command.
func NewTopCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TopOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the students with the highest averages",
		Long: `List students by descending average grade. Equal averages are
ordered by name.

Examples:
  gradebook top
  gradebook top --n 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.N, "n", "n", 0, "number of students (default top_n from config)")

	return cmd
}

func runTop(opts *TopOptions, cmd *cobra.Command) error {
	s, err := loadSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	n := opts.N
	if !cmd.Flags().Changed("n") {
		n = s.cfg.TopN
	}
	top := s.store.TopStudents(n)
	return s.out.Emit(top, func(w io.Writer) {
		for i, r := range top {
			fmt.Fprintf(w, "%d. %s %.2f\n", i+1, r.Name, r.Average)
		}
	})
}

// NewBestWorstCommand creates the best-worst command.
func NewBestWorstCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "best-worst",
		Short:         "Show the students with the highest and lowest averages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			best, worst, err := s.store.BestAndWorst()
			if err != nil {
				return s.fail(err)
			}
			res := BestWorstResult{Best: best, Worst: worst}
			return s.out.Emit(res, func(w io.Writer) {
				fmt.Fprintf(w, "best: %s %.2f\n", best.Name, best.Average)
				fmt.Fprintf(w, "worst: %s %.2f\n", worst.Name, worst.Average)
			})
		},
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show grade totals, mean and frequencies",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			st, err := s.store.SystemStats()
			if err != nil {
				return s.fail(err)
			}
			return s.out.Emit(st, func(w io.Writer) {
				fmt.Fprintf(w, "grades: %d\n", st.Total)
				fmt.Fprintf(w, "mean: %.2f\n", st.Mean)
				for _, c := range st.Counts {
					fmt.Fprintf(w, "%s: %d\n", c.Grade, c.Count)
				}
				fmt.Fprintf(w, "most frequent: %s\n", st.MostFrequent)
				fmt.Fprintf(w, "least frequent: %s\n", st.LeastFrequent)
			})
		},
	}
}

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Stdout bool
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the per-student report file",
		Long: `Write one block per student listing their grades by course to the
report file (--report or files.report in config).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "print the report instead of writing the file")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	s, err := loadSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	if opts.Stdout {
		var buf bytes.Buffer
		if err := textfile.WriteReport(&buf, s.store); err != nil {
			return s.fail(err)
		}
		return s.out.Emit(map[string]any{"report": buf.String()}, func(w io.Writer) {
			_, _ = buf.WriteTo(w)
		})
	}

	path := s.cfg.Files.Report
	if err := textfile.SaveReport(path, s.store); err != nil {
		return s.fail(err)
	}
	res := map[string]any{"path": path, "students": s.store.Len()}
	return s.out.Emit(res, func(w io.Writer) {
		fmt.Fprintf(w, "report for %d students written to %s\n", s.store.Len(), path)
	})
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo students and grades",
		Long: `Add the demo students Alexey, Maria and Ivan with six grades.
Students that already exist keep their grades and receive the demo
grades on top.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(rootOpts, cmd, gradebook.LoadSample)
		},
	}
}
