package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-takeoff")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-takeoff" {
			t.Errorf("expected path /tmp/test-takeoff, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-takeoff")

	t.Run("ResultsPath", func(t *testing.T) {
		expected := "/tmp/test-takeoff/results"
		if dir.ResultsPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ResultsPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-takeoff/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})

	t.Run("KeywordsPath", func(t *testing.T) {
		expected := "/tmp/test-takeoff/keywords.yaml"
		if dir.KeywordsPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.KeywordsPath())
		}
	})

	t.Run("ResultPath", func(t *testing.T) {
		expected := "/tmp/test-takeoff/results/rfq-117.result.json"
		if dir.ResultPath("rfq-117") != expected {
			t.Errorf("expected %s, got %s", expected, dir.ResultPath("rfq-117"))
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	takeoffDir := filepath.Join(t.TempDir(), "takeoff-test")

	dir, err := New(takeoffDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("directory should not exist yet")
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dir.Exists() {
		t.Error("directory should exist")
	}
	if _, err := os.Stat(dir.ResultsPath()); err != nil {
		t.Errorf("results directory missing: %v", err)
	}
	if dir.ConfigExists() {
		t.Error("config file should not exist")
	}
}
