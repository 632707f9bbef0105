// Package config loads grade-book settings from a YAML file.
//
// Every field has a default, so a missing default config file is not an
// error. Unknown keys are rejected to catch typos.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gradebook/internal/gradebook"
	"github.com/roach88/gradebook/internal/textfile"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "gradebook.yaml"

// DefaultArchive is the default SQLite archive path.
const DefaultArchive = "gradebook.db"

// Files holds the paths of the three text files.
type Files struct {
	Grades   string `yaml:"grades"`
	Students string `yaml:"students"`
	Report   string `yaml:"report"`
}

// Config is the full set of grade-book settings.
type Config struct {
	Files           Files  `yaml:"files"`
	Archive         string `yaml:"archive"`
	Strict          bool   `yaml:"strict"`
	RequireStudents bool   `yaml:"require_students"`
	TopN            int    `yaml:"top_n"`
	LogLevel        string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Files: Files{
			Grades:   textfile.DefaultGradesFile,
			Students: textfile.DefaultStudentsFile,
			Report:   textfile.DefaultReportFile,
		},
		Archive:  DefaultArchive,
		TopN:     gradebook.DefaultTopN,
		LogLevel: "info",
	}
}

// Load reads path over the defaults. If path does not exist and optional is
// true, the defaults are returned unchanged.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.Files.Grades == "" || c.Files.Students == "" || c.Files.Report == "" {
		return fmt.Errorf("files: grades, students and report paths must be set")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level value to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", s)
	}
}

// LoadOptions converts the parsing settings for textfile loads.
func (c Config) LoadOptions(logger *slog.Logger) textfile.LoadOptions {
	return textfile.LoadOptions{
		Strict:          c.Strict,
		RequireStudents: c.RequireStudents,
		Logger:          logger,
	}
}
