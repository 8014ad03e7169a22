// Package home manages the takeoff home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the takeoff home directory.
	DefaultDirName = ".takeoff"

	// ResultsDirName is the subdirectory for extraction results.
	ResultsDirName = "results"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// KeywordsFileName is the optional keyword-group override file.
	KeywordsFileName = "keywords.yaml"
)

// Dir represents the takeoff home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.takeoff).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ResultsPath returns the path to the results directory.
func (d *Dir) ResultsPath() string {
	return filepath.Join(d.path, ResultsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// KeywordsPath returns the path to the keyword override file.
func (d *Dir) KeywordsPath() string {
	return filepath.Join(d.path, KeywordsFileName)
}

// ResultPath returns the output path for one document's extraction result.
func (d *Dir) ResultPath(documentName string) string {
	return filepath.Join(d.ResultsPath(), documentName+".result.json")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.ResultsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// KeywordsExist returns true if a keyword override file exists.
func (d *Dir) KeywordsExist() bool {
	_, err := os.Stat(d.KeywordsPath())
	return err == nil
}
