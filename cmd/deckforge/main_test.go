package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("DECKFORGE_STORAGE", "file")
	t.Setenv("DECKFORGE_STORAGE_DIR", t.TempDir())
	t.Setenv("DECKFORGE_AI_PROVIDER", "offline")
	t.Setenv("DECKFORGE_SETTLE_DELAY", "1ms")
	// Prompt images fail fast instead of reaching the generator.
	t.Setenv("DECKFORGE_IMAGE_BASE", "http://127.0.0.1:1/prompt/")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("deckforge %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestTemplatesTable(t *testing.T) {
	out := run(t, "templates")
	for _, want := range []string{"TAG", "cover", "pricing_table", "native"} {
		if !strings.Contains(out, want) {
			t.Errorf("templates output lacks %q:\n%s", want, out)
		}
	}
}

func TestProfilesTable(t *testing.T) {
	out := run(t, "profiles")
	for _, want := range []string{"portrait-document", "595.28 x 841.89 pt", "10.00 x 5.62 in", "9:16"} {
		if !strings.Contains(out, want) {
			t.Errorf("profiles output lacks %q:\n%s", want, out)
		}
	}
}

func TestGenerateThenExportDeck(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(in, []byte("# Plan\n\nShip the deck on Friday."), 0o644); err != nil {
		t.Fatal(err)
	}
	docPath := filepath.Join(dir, "doc.json")
	run(t, "generate", in, "-o", docPath)

	deck := filepath.Join(dir, "plan.pptx")
	out := run(t, "export", docPath, "--format", "pptx", "--profile", "16:9", "-o", deck)
	if !strings.Contains(out, "plan.pptx (3 pages") {
		t.Fatalf("unexpected output: %s", out)
	}
	data, err := os.ReadFile(deck)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatal("deck is not a zip package")
	}
}
