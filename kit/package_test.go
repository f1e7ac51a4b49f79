package kit

import (
	"os"
	"path/filepath"
	"testing"

	"typstcore/syntax"
)

func writePackage(t *testing.T, root, namespace, name, version, manifest string) string {
	t.Helper()
	dir := filepath.Join(root, namespace, name, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if manifest != "" {
		if err := os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestManifestResolverResolvesValidPackage(t *testing.T) {
	root := t.TempDir()
	dir := writePackage(t, root, "preview", "example", "1.0.0", `
[package]
name = "example"
version = "1.0.0"
entrypoint = "lib.typ"
authors = ["The Authors"]
`)
	if err := os.WriteFile(filepath.Join(dir, "lib.typ"), []byte("#let x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := NewManifestPackageResolver(root)
	spec := &syntax.PackageSpec{
		Namespace: "preview",
		Name:      "example",
		Version:   syntax.PackageVersion{Major: 1},
	}
	got, err := resolver.Resolve(spec)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != dir {
		t.Errorf("resolved %q, want %q", got, dir)
	}
}

func TestManifestResolverRejectsMismatchedName(t *testing.T) {
	root := t.TempDir()
	dir := writePackage(t, root, "preview", "example", "1.0.0", `
[package]
name = "other"
version = "1.0.0"
entrypoint = "lib.typ"
`)
	if err := os.WriteFile(filepath.Join(dir, "lib.typ"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := NewManifestPackageResolver(root)
	spec := &syntax.PackageSpec{
		Namespace: "preview",
		Name:      "example",
		Version:   syntax.PackageVersion{Major: 1},
	}
	if _, err := resolver.Resolve(spec); err == nil {
		t.Fatal("expected mismatched manifest name to be rejected")
	}
}

func TestManifestResolverRejectsMissingManifest(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "preview", "example", "1.0.0", "")

	resolver := NewManifestPackageResolver(root)
	spec := &syntax.PackageSpec{
		Namespace: "preview",
		Name:      "example",
		Version:   syntax.PackageVersion{Major: 1},
	}
	if _, err := resolver.Resolve(spec); err == nil {
		t.Fatal("expected missing manifest to be rejected")
	}
}

func TestManifestResolverRejectsEscapingEntrypoint(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "preview", "example", "1.0.0", `
[package]
name = "example"
version = "1.0.0"
entrypoint = "../outside.typ"
`)

	resolver := NewManifestPackageResolver(root)
	spec := &syntax.PackageSpec{
		Namespace: "preview",
		Name:      "example",
		Version:   syntax.PackageVersion{Major: 1},
	}
	if _, err := resolver.Resolve(spec); err == nil {
		t.Fatal("expected entrypoint escaping the package root to be rejected")
	}
}
