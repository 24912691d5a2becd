package state

import (
	"path/filepath"
	"testing"
)

func TestArtifactRootUnset(t *testing.T) {
	t.Setenv("PAIRLOG_ARTIFACT_ROOT", "")
	t.Setenv("TEST_ARTIFACTS_ROOT", "")

	if got := ArtifactRoot(); got != "" {
		t.Fatalf("root = %q, want empty", got)
	}
	if got := ArtifactPath("crash"); got != "" {
		t.Fatalf("path = %q, want empty", got)
	}
}

func TestArtifactRootPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAIRLOG_ARTIFACT_ROOT", dir)
	t.Setenv("TEST_ARTIFACTS_ROOT", filepath.Join(dir, "ignored"))

	if got := ArtifactRoot(); got != dir {
		t.Fatalf("root = %q, want %q", got, dir)
	}
}

func TestArtifactRootTestFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAIRLOG_ARTIFACT_ROOT", "  ")
	t.Setenv("TEST_ARTIFACTS_ROOT", dir)

	if got := ArtifactRoot(); got != dir {
		t.Fatalf("root = %q, want %q", got, dir)
	}
	want := filepath.Join(dir, "sweep", "last_run")
	if got := ArtifactPath("sweep", "last_run"); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}
