package javamodules

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Schema version of descriptor snapshots - increment when Snapshot changes.
const snapshotSchemaVersion uint16 = 1

// snapshotExt is appended to the module staging directory path to name
// the descriptor snapshot file.
const snapshotExt = ".mp"

// distRefPrefix tags a module path reference that names a distribution
// rather than a platform module.
const distRefPrefix = "dist:"

// ErrNoDescriptor reports that no descriptor snapshot exists for a
// distribution that was expected to have one.
var ErrNoDescriptor = errors.New("module descriptor has not been created")

// Snapshot is the portable on-disk form of a Descriptor. Cross-references
// are stored by name only: module path members become either a platform
// module name or a distRefPrefix-tagged distribution name, and the origin
// becomes the distribution name. Paths are recomputed on load so snapshots
// survive a relocated output root.
type Snapshot struct {
	Schema            uint16
	Name              string
	Exports           map[string][]string
	Requires          map[string][]string
	ConcealedRequires map[string][]string
	Uses              []string
	Provides          map[string][]string
	Packages          []string
	Dist              string
	ModulePath        []string
}

// descriptorToSnapshot converts a descriptor to its portable form. The
// descriptor itself is left untouched.
func descriptorToSnapshot(jmd *Descriptor) *Snapshot {
	refs := make([]string, 0, len(jmd.ModulePath))
	for _, m := range jmd.ModulePath {
		if m.Origin != nil {
			refs = append(refs, distRefPrefix+m.Origin.Name())
		} else {
			refs = append(refs, m.Name)
		}
	}
	return &Snapshot{
		Schema:            snapshotSchemaVersion,
		Name:              jmd.Name,
		Exports:           jmd.Exports,
		Requires:          jmd.Requires,
		ConcealedRequires: jmd.ConcealedRequires,
		Uses:              sortedSet(jmd.Uses),
		Provides:          jmd.Provides,
		Packages:          sortedSet(jmd.Packages),
		Dist:              jmd.Origin.Name(),
		ModulePath:        refs,
	}
}

// Save writes the descriptor snapshot next to the module staging
// directory and returns its path. Platform modules are never persisted:
// saving a descriptor without an origin distribution is a no-op that
// returns an empty path.
func (s *Session) Save(jmd *Descriptor) (string, error) {
	if jmd.Origin == nil {
		return "", nil
	}
	info, ok, err := s.ModuleInfo(jmd.Origin)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s does not define a module", jmd.Origin.Name())
	}
	path := info.Dir + snapshotExt
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return "", err
	}
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(descriptorToSnapshot(jmd)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return path, nil
}

// Load reads the descriptor snapshot persisted for dist and rebuilds the
// descriptor, resolving module path references against the platform's
// modules and, through the session resolver, against other distributions.
// A missing or stale snapshot returns nil unless fatalIfMissing is set.
func (s *Session) Load(ctx context.Context, dist Archive, platform Platform, fatalIfMissing bool) (*Descriptor, error) {
	info, ok, err := s.ModuleInfo(dist)
	if err != nil {
		return nil, err
	}
	if !ok {
		if fatalIfMissing {
			return nil, fmt.Errorf("%s does not define a module", dist.Name())
		}
		return nil, nil
	}
	path := info.Dir + snapshotExt

	snap, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		if fatalIfMissing {
			return nil, fmt.Errorf("%s: %w", path, ErrNoDescriptor)
		}
		return nil, nil
	}
	if snap.Name != info.Name {
		return nil, fmt.Errorf("%s names module %s but distribution %s derives module %s", path, snap.Name, dist.Name(), info.Name)
	}

	platformModules, err := platform.Modules(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*Descriptor, len(platformModules))
	for _, m := range platformModules {
		byName[m.Name] = m
	}
	modulepath := make([]*Descriptor, 0, len(snap.ModulePath))
	for _, ref := range snap.ModulePath {
		distName, isDist := strings.CutPrefix(ref, distRefPrefix)
		if !isDist {
			m, ok := byName[ref]
			if !ok {
				return nil, fmt.Errorf("%s references unknown platform module %s", path, ref)
			}
			modulepath = append(modulepath, m)
			continue
		}
		if s.resolver == nil {
			return nil, fmt.Errorf("%s references distribution %s but the session has no artifact resolver", path, distName)
		}
		depDist, err := s.resolver.ResolveArtifact(distName)
		if err != nil {
			return nil, fmt.Errorf("resolving %s referenced by %s: %w", distName, path, err)
		}
		depJmd, err := s.ModuleFor(ctx, depDist, platform)
		if err != nil {
			return nil, err
		}
		if depJmd == nil {
			return nil, fmt.Errorf("%s referenced by %s does not define a module", distName, path)
		}
		modulepath = append(modulepath, depJmd)
	}

	uses := make(map[string]struct{}, len(snap.Uses))
	for _, service := range snap.Uses {
		uses[service] = struct{}{}
	}
	packages := make(map[string]struct{}, len(snap.Packages))
	for _, pkg := range snap.Packages {
		packages[pkg] = struct{}{}
	}
	return NewDescriptor(Descriptor{
		Name:              snap.Name,
		Exports:           snap.Exports,
		Requires:          snap.Requires,
		ConcealedRequires: snap.ConcealedRequires,
		Uses:              uses,
		Provides:          snap.Provides,
		Packages:          packages,
		ArchivePath:       info.Archive,
		Origin:            dist,
		ModulePath:        modulepath,
	})
}

// readSnapshot reads a snapshot file. Missing files and stale schemas are
// reported as a nil snapshot, not an error.
func readSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var snap Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, nil
	}
	return &snap, nil
}
