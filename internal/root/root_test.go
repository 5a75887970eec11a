package root

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindShadowBinFound(t *testing.T) {
	projectRoot := t.TempDir()
	binDir := filepath.Join(projectRoot, "node_modules", ".bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir .bin: %v", err)
	}
	shim := filepath.Join(binDir, "tsc")
	if err := os.WriteFile(shim, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write shim: %v", err)
	}
	sub := filepath.Join(projectRoot, "src", "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	got, found, err := FindShadowBin(sub, "tsc")
	if err != nil {
		t.Fatalf("FindShadowBin error: %v", err)
	}
	if !found {
		t.Fatalf("expected shadow bin to be found")
	}
	if got != shim {
		t.Fatalf("expected %s, got %s", shim, got)
	}
}

func TestFindShadowBinMissing(t *testing.T) {
	dir := t.TempDir()
	got, found, err := FindShadowBin(dir, "tsc")
	if err != nil {
		t.Fatalf("FindShadowBin error: %v", err)
	}
	if found {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestFindShadowBinSkipsDirectories(t *testing.T) {
	projectRoot := t.TempDir()
	// A directory named like the shim must not count as a match.
	if err := os.MkdirAll(filepath.Join(projectRoot, "node_modules", ".bin", "tsc"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, found, err := FindShadowBin(projectRoot, "tsc")
	if err != nil {
		t.Fatalf("FindShadowBin error: %v", err)
	}
	if found {
		t.Fatalf("expected directory entry to be ignored")
	}
}

func TestFindShadowBinEmptyArgs(t *testing.T) {
	if _, _, err := FindShadowBin("", "tsc"); err == nil {
		t.Fatalf("expected error for empty start")
	}
	if _, _, err := FindShadowBin(t.TempDir(), ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
