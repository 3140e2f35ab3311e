package main

import (
	"path/filepath"
	"testing"
)

func TestInspectBundle(t *testing.T) {
	base := t.TempDir()
	ws := seedWorkspace(t, base, "Night Train")
	bundle := filepath.Join(base, "night.scriv")
	if _, _, err := runCLI(t, "export", ws, "--format", "scriv", "-o", bundle); err != nil {
		t.Fatalf("export scriv: %v", err)
	}

	stdout, _, err := runCLI(t, "inspect", bundle)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, stdout, "Night Train (v3,")
	requireContains(t, stdout, "[DraftFolder]")
	requireContains(t, stdout, "ch1")
	requireContains(t, stdout, "ch2")
}

func TestInspectMissingBundle(t *testing.T) {
	_, _, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "nope.scriv"))
	if err == nil {
		t.Fatal("expected a missing bundle to fail")
	}
}
