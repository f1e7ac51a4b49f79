package main

import (
	"os"
	"path/filepath"
	"testing"

	gotypst "typstcore"
	"typstcore/eval"
	"typstcore/kit"
)

func TestCompileFromProjectRoot(t *testing.T) {
	root := t.TempDir()
	main := filepath.Join(root, "main.typ")
	if err := os.WriteFile(main, []byte("= Title\nSome body text."), 0o644); err != nil {
		t.Fatal(err)
	}

	world, err := kit.NewFileWorld(root, "main.typ", kit.WithLibrary(eval.Library()))
	if err != nil {
		t.Fatalf("cannot create world: %v", err)
	}

	result := gotypst.Compile(world)
	if !result.Success() {
		for _, e := range result.Errors {
			t.Errorf("compile error: %s", e.Message)
		}
		t.Fatal("compilation failed")
	}
	if len(result.Document.Pages) == 0 {
		t.Error("expected at least one page")
	}
}

func TestCompileReportsMissingMain(t *testing.T) {
	root := t.TempDir()
	if _, err := kit.NewFileWorld(root, "missing.typ", kit.WithLibrary(eval.Library())); err == nil {
		t.Error("expected an error for a missing main file")
	}
}
