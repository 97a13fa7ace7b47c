package javamodules

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// ModuleDeps returns the artifacts whose contents make up the module
// derived from dist. In exhaustive mode that is the archived dependency
// closure. In legacy mode the declared module roots, which must be
// archives, are walked depth-first: platform-satisfiable artifacts are
// pruned, archives and unit groups are collected post-order without
// duplicates, and any other artifact kind fails the collection. The
// result excludes dist itself and is memoized on the session.
func (s *Session) ModuleDeps(dist Archive) ([]Artifact, error) {
	if dist.ModuleDepsEqualDistDeps() {
		return dist.ArchivedDeps(), nil
	}
	if deps, ok := s.cachedModuleDeps(dist.Name()); ok {
		return deps, nil
	}
	roots := dist.ModuleRoots()
	if len(roots) == 0 {
		return nil, nil
	}

	moduledeps := []Artifact{}
	seen := make(map[string]bool)
	var walk func(a Artifact) error
	walk = func(a Artifact) error {
		if _, ok := a.(PlatformSatisfied); ok {
			return nil
		}
		if seen[a.Name()] {
			return nil
		}
		seen[a.Name()] = true
		for _, dep := range a.Deps() {
			if err := walk(dep); err != nil {
				return err
			}
		}
		if a.Name() == dist.Name() {
			return nil
		}
		switch a.(type) {
		case Archive, UnitGroup:
			moduledeps = append(moduledeps, a)
		default:
			return fmt.Errorf("%s: modules can only include jar distributions and Java projects: %s", dist.Name(), a.Name())
		}
		return nil
	}
	for _, root := range roots {
		if _, ok := root.(Archive); !ok {
			return nil, fmt.Errorf("%s: module roots can only be jar distributions: %s", dist.Name(), root.Name())
		}
		if err := walk(root); err != nil {
			return nil, err
		}
	}

	s.storeModuleDeps(dist.Name(), moduledeps)
	return moduledeps, nil
}

// Info locates the on-disk artifacts of the module derived from a
// distribution, all under <output root>/modules.
type Info struct {
	// Name is the module name.
	Name string
	// Dir is the staging directory the module is assembled in. The
	// descriptor snapshot lives next to it at Dir + snapshotExt.
	Dir string
	// Archive is the path of the modular jar.
	Archive string
}

// ModuleInfo derives the module identity of dist. In exhaustive mode the
// distribution must declare a module name explicitly. In legacy mode the
// name is folded from the distribution name and a distribution without
// module roots defines no module. The second return is false when dist
// defines no module.
func (s *Session) ModuleInfo(dist Archive) (Info, bool, error) {
	var name string
	if dist.ModuleDepsEqualDistDeps() {
		declared, ok := dist.DeclaredModuleName()
		if !ok {
			return Info{}, false, nil
		}
		if declared == "" {
			return Info{}, false, fmt.Errorf("moduleName attribute of distribution %s cannot be empty", dist.Name())
		}
		name = declared
	} else {
		deps, err := s.ModuleDeps(dist)
		if err != nil {
			return Info{}, false, err
		}
		if len(deps) == 0 {
			return Info{}, false, nil
		}
		name = FoldModuleName(dist.Name())
	}
	modulesDir := filepath.Join(dist.OutputRoot(), "modules")
	return Info{
		Name:    name,
		Dir:     filepath.Join(modulesDir, name),
		Archive: filepath.Join(modulesDir, name+".jar"),
	}, true, nil
}

// FoldModuleName derives a dotted lower-case module name from a
// distribution name: "ACME_CORE" becomes "acme.core".
func FoldModuleName(distName string) string {
	return cases.Fold().String(strings.ReplaceAll(distName, "_", "."))
}
