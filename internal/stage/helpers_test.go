package stage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recue/internal/services"
)

func TestRequireFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.vtt")
	if err := os.WriteFile(path, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := RequireFile("convert", "source track", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := RequireFile("convert", "source track", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty path: want validation error, got %v", err)
	}

	err = RequireFile("convert", "source track", filepath.Join(dir, "missing.vtt"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing file: want validation error, got %v", err)
	}

	err = RequireFile("convert", "source track", dir)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("directory: want validation error, got %v", err)
	}
}
