package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/archive"
)

// ArchiveOptions holds flags shared by the archive subcommands.
type ArchiveOptions struct {
	*RootOptions
	DB    string // empty uses archive from config
	Label string
}

// latestID selects the most recent snapshot in restore and find.
const latestID = "latest"

// NewArchiveCommand creates the archive command group.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Save and restore grade-book snapshots",
		Long: `Keep point-in-time copies of the grade-book in a SQLite database.

Examples:
  gradebook archive save --label "end of term"
  gradebook archive list
  gradebook archive restore latest`,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "archive database (default archive from config)")

	save := &cobra.Command{
		Use:           "save",
		Short:         "Archive the current grade-book",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveSave(opts, cmd)
		},
	}
	save.Flags().StringVar(&opts.Label, "label", "", "snapshot label")
	cmd.AddCommand(save)

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List snapshots, oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveList(opts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <id|latest>",
		Short: "Replace the grade-book files with a snapshot",
		Long: `Replace the students and grades files with the content of a snapshot.
The current files are overwritten; archive them first to keep them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveRestore(opts, args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "find <id|latest> <grade>",
		Short:         "List students of a snapshot holding a grade",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveFind(opts, args[0], args[1], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveDelete(opts, args[0], cmd)
		},
	})

	return cmd
}

// openArchive opens the database named by --db or the config.
func openArchive(opts *ArchiveOptions, s *session) (*archive.Archive, error) {
	path := opts.DB
	if path == "" {
		path = s.cfg.Archive
	}
	s.logger.Debug("opening archive", "path", path)
	a, err := archive.Open(path)
	if err != nil {
		return nil, s.fail(err)
	}
	return a, nil
}

// resolveSnapshotID maps "latest" to the newest snapshot ID.
func resolveSnapshotID(cmd *cobra.Command, a *archive.Archive, id string) (string, error) {
	if id != latestID {
		return id, nil
	}
	snap, err := a.Latest(cmd.Context())
	if err != nil {
		return "", err
	}
	return snap.ID, nil
}

func printSnapshot(w io.Writer, snap archive.Snapshot) {
	label := snap.Label
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(w, "%d  %s  %s  %d students  %d grades  %s\n",
		snap.Seq, snap.ID, snap.CreatedAt.Format(time.RFC3339), snap.Students, snap.Grades, label)
}

func runArchiveSave(opts *ArchiveOptions, cmd *cobra.Command) error {
	s, err := loadSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	a, err := openArchive(opts, s)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.Save(cmd.Context(), s.store, opts.Label)
	if err != nil {
		return s.fail(err)
	}
	return s.out.Emit(snap, func(w io.Writer) {
		fmt.Fprint(w, "archived ")
		printSnapshot(w, snap)
	})
}

func runArchiveList(opts *ArchiveOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	a, err := openArchive(opts, s)
	if err != nil {
		return err
	}
	defer a.Close()

	snaps, err := a.List(cmd.Context())
	if err != nil {
		return s.fail(err)
	}
	return s.out.Emit(snaps, func(w io.Writer) {
		if len(snaps) == 0 {
			fmt.Fprintln(w, "no snapshots")
			return
		}
		for _, snap := range snaps {
			printSnapshot(w, snap)
		}
	})
}

func runArchiveRestore(opts *ArchiveOptions, id string, cmd *cobra.Command) error {
	// The book is rebuilt from scratch, so the current files are not loaded.
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	a, err := openArchive(opts, s)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err = resolveSnapshotID(cmd, a, id)
	if err != nil {
		return s.fail(err)
	}
	snap, err := a.Get(cmd.Context(), id)
	if err != nil {
		return s.fail(err)
	}
	if err := a.Restore(cmd.Context(), id, s.store); err != nil {
		return s.fail(err)
	}
	if err := s.save(); err != nil {
		return s.fail(err)
	}
	return s.out.Emit(snap, func(w io.Writer) {
		fmt.Fprint(w, "restored ")
		printSnapshot(w, snap)
	})
}

func runArchiveFind(opts *ArchiveOptions, id, gradeArg string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	g, err := parseGrade(s.out, gradeArg)
	if err != nil {
		return err
	}
	a, err := openArchive(opts, s)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err = resolveSnapshotID(cmd, a, id)
	if err != nil {
		return s.fail(err)
	}
	names, err := a.FindStudentsWithGrade(cmd.Context(), id, g)
	if err != nil {
		return s.fail(err)
	}
	res := FindResult{Grade: g.String(), Students: names}
	return s.out.Emit(res, func(w io.Writer) {
		if len(names) == 0 {
			fmt.Fprintf(w, "no students with grade %s\n", res.Grade)
			return
		}
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
	})
}

func runArchiveDelete(opts *ArchiveOptions, id string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	a, err := openArchive(opts, s)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Delete(cmd.Context(), id); err != nil {
		return s.fail(err)
	}
	return s.out.Emit(map[string]string{"deleted": id}, func(w io.Writer) {
		fmt.Fprintf(w, "snapshot %s deleted\n", id)
	})
}
