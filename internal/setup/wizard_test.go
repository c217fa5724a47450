package setup

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/manifoldco/promptui"

	"github.com/edhuardotierrez/gcop/internal/types"
)

func TestProviderDisplayList_MarksCurrent(t *testing.T) {
	titles := sortedProviderTitles()
	if !slices.IsSorted(titles) {
		t.Fatalf("titles not sorted: %v", titles)
	}
	display := providerDisplayList(types.ModelConfig{ModelName: "ollama/llama3"}, titles)
	if !slices.Contains(display, "ollama [current]") {
		t.Fatalf("current provider not marked: %v", display)
	}
	if slices.Contains(display, "openai [current]") {
		t.Fatalf("only the current provider should be marked: %v", display)
	}
}

func TestFindProviderMetaByTitle(t *testing.T) {
	meta, ok := findProviderMetaByTitle("ollama")
	if !ok || !meta.NeedsAPIBase || meta.NeedsAPIKey {
		t.Fatalf("unexpected ollama meta %+v (found %v)", meta, ok)
	}
	if _, ok := findProviderMetaByTitle("acme"); ok {
		t.Fatalf("unknown provider should not be found")
	}
}

func TestMaskSecret(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"short":                 "*****",
		"sk-1234567890":         "sk-*******890",
		types.PlaceholderAPIKey: types.PlaceholderAPIKey,
	}
	for in, want := range cases {
		if got := MaskSecret(in); got != want {
			t.Fatalf("MaskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUsable(t *testing.T) {
	if got := usable(types.PlaceholderAPIBase, types.PlaceholderAPIBase); got != "" {
		t.Fatalf("placeholder should be dropped, got %q", got)
	}
	if got := usable("http://localhost:11434", types.PlaceholderAPIBase); got != "http://localhost:11434" {
		t.Fatalf("real value should be kept, got %q", got)
	}
}

func TestCancelled(t *testing.T) {
	if !errors.Is(cancelled(promptui.ErrInterrupt), ErrCancelled) {
		t.Fatalf("interrupt should cancel the wizard")
	}
	other := errors.New("boom")
	if !errors.Is(cancelled(other), other) {
		t.Fatalf("other errors should pass through")
	}
}

func TestResolveEditorCommand_UsesVisual(t *testing.T) {
	dir := t.TempDir()
	editor := filepath.Join(dir, "myeditor")
	if err := os.WriteFile(editor, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VISUAL", editor+" --wait")
	t.Setenv("EDITOR", "")

	name, args, err := resolveEditorCommand()
	if err != nil {
		t.Fatalf("resolveEditorCommand: %v", err)
	}
	if name != editor || len(args) != 1 || args[0] != "--wait" {
		t.Fatalf("got %s %v", name, args)
	}
}
