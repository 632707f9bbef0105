package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/gradebook/internal/archive"
	"github.com/roach88/gradebook/internal/config"
	"github.com/roach88/gradebook/internal/grade"
	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/notify"
	"github.com/roach88/gradebook/internal/textfile"
)

// CLI error codes that do not come from the gradebook package.
const (
	CodeFileNotFound     = "FILE_NOT_FOUND"
	CodeParseError       = "PARSE_ERROR"
	CodeInvalidGrade     = "INVALID_GRADE"
	CodeSnapshotNotFound = "SNAPSHOT_NOT_FOUND"
	CodeConfigError      = "CONFIG_ERROR"
	CodeError            = "ERROR"
)

// session is one command invocation: resolved config, logger, the loaded
// store and the formatter every result goes through.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	store  *gradebook.Store
	out    *OutputFormatter
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// resolveConfig loads the YAML config and applies explicitly set flags on top.
// The default config path may be missing; an explicit --config may not.
func resolveConfig(opts *RootOptions, cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.Load(opts.ConfigPath, !flags.Changed("config"))
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("grades") {
		cfg.Files.Grades = opts.GradesFile
	}
	if flags.Changed("students") {
		cfg.Files.Students = opts.StudentsFile
	}
	if flags.Changed("report") {
		cfg.Files.Report = opts.ReportFile
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.Strict
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// openSession resolves config and builds an empty store without touching
// the grade-book files.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := newFormatter(opts, cmd)

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		_ = out.Error(CodeConfigError, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  gradebook.New(gradebook.WithLogger(logger)),
		out:    out,
	}, nil
}

// loadSession opens a session and reads the students file and then the
// grades file. Missing files leave the book empty. Notification sinks are
// subscribed after loading so only grades added by the command itself
// are announced.
func loadSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	s, err := openSession(opts, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, s.fail(err)
	}
	s.subscribe()
	return s, nil
}

func (s *session) load() error {
	loadOpts := s.cfg.LoadOptions(s.logger)
	files := []struct {
		path string
		load func(string, *gradebook.Store, textfile.LoadOptions) (textfile.LoadResult, error)
	}{
		{s.cfg.Files.Students, textfile.LoadStudents},
		{s.cfg.Files.Grades, textfile.LoadGrades},
	}

	for _, f := range files {
		res, err := f.load(f.path, s.store, loadOpts)
		if errors.Is(err, textfile.ErrFileNotFound) {
			s.logger.Debug("file not found, starting empty", "path", f.path)
			continue
		}
		if err != nil {
			return err
		}
		s.logger.Debug("file loaded", "path", f.path, "applied", res.Applied, "skipped", len(res.Skipped))
	}
	return nil
}

func (s *session) subscribe() {
	if s.out.Format == "json" {
		s.store.Subscribe(notify.NewLogSink(s.logger, slog.LevelInfo).OnGradeAdded)
		return
	}
	s.store.Subscribe(notify.NewSink(s.out.Writer, notify.WithErrorLogger(s.logger)).OnGradeAdded)
}

// save writes the students file and the grades file back.
func (s *session) save() error {
	if err := textfile.SaveStudents(s.cfg.Files.Students, s.store); err != nil {
		return err
	}
	if err := textfile.SaveGrades(s.cfg.Files.Grades, s.store); err != nil {
		return err
	}
	s.logger.Debug("grade-book saved", "students", s.cfg.Files.Students, "grades", s.cfg.Files.Grades)
	return nil
}

// fail reports err through the formatter and returns the matching ExitError.
func (s *session) fail(err error) error {
	return reportError(s.out, err)
}

func reportError(f *OutputFormatter, err error) error {
	code, exit := classify(err)
	var details any
	var pe *textfile.ParseError
	if errors.As(err, &pe) {
		details = map[string]any{"path": pe.Path, "line": pe.Line, "text": pe.Text}
	}
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}

// classify maps an error to its CLI error code and exit code. Domain
// failures exit with ExitFailure; bad input exits with ExitCommandError.
func classify(err error) (string, int) {
	if code := gradebook.CodeOf(err); code != "" {
		if code == gradebook.CodeInvalidName {
			return string(code), ExitCommandError
		}
		return string(code), ExitFailure
	}

	var pe *textfile.ParseError
	switch {
	case errors.Is(err, archive.ErrSnapshotNotFound):
		return CodeSnapshotNotFound, ExitFailure
	case errors.Is(err, textfile.ErrFileNotFound):
		return CodeFileNotFound, ExitCommandError
	case errors.Is(err, grade.ErrInvalidGrade):
		return CodeInvalidGrade, ExitCommandError
	case errors.As(err, &pe):
		return CodeParseError, ExitCommandError
	default:
		return CodeError, ExitCommandError
	}
}

// mutate runs fn against a loaded store, saves the files and prints the
// resulting changes.
func mutate(opts *RootOptions, cmd *cobra.Command, fn func(*gradebook.Store) ([]gradebook.Change, error)) error {
	s, err := loadSession(opts, cmd)
	if err != nil {
		return err
	}

	changes, err := fn(s.store)
	if err != nil {
		return s.fail(err)
	}
	if err := s.save(); err != nil {
		return s.fail(err)
	}

	if changes == nil {
		changes = []gradebook.Change{}
	}
	return s.out.Emit(changes, func(w io.Writer) {
		for _, c := range changes {
			fmt.Fprintln(w, c)
		}
	})
}

// parseGrade converts a grade argument, reporting bad input as a command error.
func parseGrade(f *OutputFormatter, arg string) (grade.Value, error) {
	g, err := grade.Parse(arg)
	if err != nil {
		return 0, reportError(f, err)
	}
	return g, nil
}
