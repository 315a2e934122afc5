package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/mod/semver"

	"github.com/cmmoran/nestgen/pkg/action/generate"
	"github.com/cmmoran/nestgen/pkg/manifest"
	"github.com/cmmoran/nestgen/pkg/parser"
)

// SnapshotDir holds versioned copies of generated files, relative to OutDir.
// The leading dot keeps the go tool from treating it as a package.
const SnapshotDir = ".snapshots"

// SnapshotPath is where the copy of a generated file for name@version lives.
func SnapshotPath(opts *parser.Options, name, version string) string {
	return filepath.Join(opts.OutDir, SnapshotDir, fmt.Sprintf("%s@%s.go.txt", name, version))
}

// Generate writes the generated file, keeps a versioned copy of it and
// records that copy in the manifest.
func Generate(opts *parser.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	version := semver.Canonical(snapshotVersion)
	if version == "" {
		return "", fmt.Errorf("%w: %q", manifest.ErrInvalidVersion, snapshotVersion)
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	par, src, err := generate.Render(opts)
	if err != nil {
		return "", err
	}
	*opts = par.Opts

	if snapshotName == "" {
		snapshotName = opts.Package
	}
	s := manifest.Snapshot{
		Name:    snapshotName,
		Version: version,
		File:    SnapshotPath(opts, snapshotName, version),
		Sources: make([]string, 0, len(par.Sources)),
		Types:   make([]string, 0, len(par.Decls)),
	}
	for _, in := range par.Sources {
		s.Sources = append(s.Sources, in.Name)
	}
	for _, d := range par.Decls {
		s.Types = append(s.Types, d.Name)
	}
	if err = m.AddSnapshot(s); err != nil {
		return "", err
	}

	if err = os.MkdirAll(filepath.Dir(s.File), 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}
	outFile := generate.OutputPath(opts)

	// files are staged next to their targets and only renamed into place
	// once the manifest recording them is saved
	staged := make(map[string]string, 2)
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()
	for _, target := range []string{outFile, s.File} {
		tmp, err := stage(target, src)
		if err != nil {
			return "", err
		}
		staged[target] = tmp
	}

	if err = saveManifest(m, manifestPath); err != nil {
		return "", err
	}
	for target, tmp := range staged {
		if err = os.Rename(tmp, target); err != nil {
			return "", fmt.Errorf("write %s: %w", target, err)
		}
		delete(staged, target)
	}

	return outFile, nil
}

var saveManifest = func(m *manifest.Manifest, path string) error {
	return m.Save(path)
}

// stage writes data to a temporary file in target's directory.
func stage(target string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", target, err)
	}
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("stage %s: %w", target, err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("stage %s: %w", target, err)
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("stage %s: %w", target, err)
	}
	return f.Name(), nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and previous
// snapshot files, and returns a textual diff of their contents.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", fmt.Errorf("no current/previous snapshots recorded")
	}

	currentPath := m.SnapshotFile(m.CurrentVersion)
	previousPath := m.SnapshotFile(m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", fmt.Errorf("snapshot files not found in manifest")
	}

	current, err := os.ReadFile(currentPath)
	if err != nil {
		return "", fmt.Errorf("read current snapshot: %w", err)
	}

	previous, err := os.ReadFile(previousPath)
	if err != nil {
		return "", fmt.Errorf("read previous snapshot: %w", err)
	}

	return cmp.Diff(string(previous), string(current)), nil
}
