package kit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"typstcore/syntax"
)

// ManifestFileName is the name of the package manifest file.
const ManifestFileName = "typst.toml"

// manifestFile mirrors the on-disk layout of typst.toml.
type manifestFile struct {
	Package  syntax.PackageInfo   `toml:"package"`
	Template *syntax.TemplateInfo `toml:"template,omitempty"`
	Tool     syntax.ToolInfo      `toml:"tool"`
}

// LoadManifest reads and parses the typst.toml manifest in dir.
func LoadManifest(dir string) (*syntax.PackageManifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("package manifest missing: %s", path)
		}
		return nil, fmt.Errorf("cannot read package manifest: %w", err)
	}

	var file manifestFile
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("malformed package manifest %s: %w", path, err)
	}

	manifest := syntax.NewPackageManifest(file.Package)
	manifest.Template = file.Template
	manifest.Tool = file.Tool

	// Record unexpected keys under [package] so validation can surface
	// them as warnings rather than silently dropping them.
	for _, key := range meta.Undecoded() {
		parts := key.String()
		if manifest.Package.UnknownFields == nil {
			manifest.Package.UnknownFields = make(map[string]any)
		}
		manifest.Package.UnknownFields[parts] = nil
	}

	return manifest, nil
}

// ManifestPackageResolver resolves packages from a local directory
// structure and validates each package's typst.toml manifest against the
// requested spec before handing out its path.
//
// Packages are organized as <root>/<namespace>/<name>/<version>/, the
// same layout LocalPackageResolver uses; the difference is that a
// package with a missing, malformed, or mismatching manifest is rejected
// here instead of failing later during import evaluation.
type ManifestPackageResolver struct {
	local *LocalPackageResolver
}

// NewManifestPackageResolver creates a manifest-validating resolver
// rooted at root.
func NewManifestPackageResolver(root string) *ManifestPackageResolver {
	return &ManifestPackageResolver{local: NewLocalPackageResolver(root)}
}

// Resolve returns the root directory of the package identified by spec.
func (r *ManifestPackageResolver) Resolve(spec *syntax.PackageSpec) (string, error) {
	dir, err := r.local.Resolve(spec)
	if err != nil {
		return "", err
	}

	manifest, err := LoadManifest(dir)
	if err != nil {
		return "", err
	}
	if err := manifest.Validate(spec); err != nil {
		return "", fmt.Errorf("package %s: %w", spec.String(), err)
	}

	// The entrypoint must exist and stay inside the package root.
	entry := filepath.Join(dir, filepath.FromSlash(manifest.Package.Entrypoint))
	rel, err := filepath.Rel(dir, entry)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || (len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("package %s: entrypoint escapes the package root", spec.String())
	}
	if _, err := os.Stat(entry); err != nil {
		return "", fmt.Errorf("package %s: entrypoint %s does not exist", spec.String(), manifest.Package.Entrypoint)
	}

	return dir, nil
}
