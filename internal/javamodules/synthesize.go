package javamodules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mikepapadim/mx/internal/archive"
)

// Synthesize derives a fresh module descriptor from dist and assembles the
// modular jar: the staging directory is rebuilt from the distribution and
// its module dependency archives, module-info.java is rendered and
// compiled with the platform's javac, the staged tree is packed into the
// modular jar and the descriptor snapshot is saved. It returns nil without
// error when dist defines no module.
func (s *Session) Synthesize(ctx context.Context, dist Archive, platform Platform) (*Descriptor, error) {
	info, ok, err := s.ModuleInfo(dist)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	s.logger.Info("synthesizing module", "module", info.Name, "dist", dist.Name())

	runStage := func(st Stage, fn func() error) error {
		start := time.Now()
		s.emit(Event{Dist: dist.Name(), Module: info.Name, Stage: st, Status: StatusWorking})
		err := fn()
		status := StatusDone
		if err != nil {
			status = StatusError
		}
		s.emit(Event{Dist: dist.Name(), Module: info.Name, Stage: st, Status: status, Err: err, Elapsed: time.Since(start)})
		return err
	}

	exports := make(map[string][]string)
	requires := make(map[string][]string)
	concealedRequires := make(map[string][]string)
	uses := make(map[string]struct{})
	usedModules := make(map[string]struct{})
	var modulepath []*Descriptor
	var moduledeps []Artifact

	err = runStage(StageCollect, func() error {
		if !dist.ModuleDepsEqualDistDeps() {
			var err error
			moduledeps, err = s.ModuleDeps(dist)
			if err != nil {
				return err
			}
			modulepath, err = s.referencedModules(ctx, dist, moduledeps, platform)
			return err
		}
		// In exhaustive mode the module contains exactly the archived
		// closure; everything on the classpath must itself be a module
		// the platform or another distribution supplies.
		moduledeps = dist.ArchivedDeps()
		for _, dep := range dist.ClasspathDeps() {
			if depArchive, ok := dep.(Archive); ok {
				jmd, err := s.ModuleFor(ctx, depArchive, platform)
				if err != nil {
					return err
				}
				if jmd == nil {
					return fmt.Errorf("%s cannot depend on %s as it does not define a module", dist.Name(), dep.Name())
				}
				modulepath = append(modulepath, jmd)
				requires[jmd.Name] = []string{platform.TransitiveRequiresKeyword()}
				continue
			}
			if ps, ok := dep.(PlatformSatisfied); ok && ps.SatisfiedBy(platform) {
				continue
			}
			return fmt.Errorf("%s cannot depend on %s as it does not define a module", dist.Name(), dep.Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var jmd *Descriptor
	var platformModules []*Descriptor
	err = runStage(StageSynthesize, func() error {
		var err error
		platformModules, err = platform.Modules(ctx)
		if err != nil {
			return err
		}
		allModules := make([]*Descriptor, 0, len(modulepath)+len(platformModules))
		allModules = append(allModules, modulepath...)
		allModules = append(allModules, platformModules...)

		var groups []UnitGroup
		for _, dep := range moduledeps {
			if ug, ok := dep.(UnitGroup); ok {
				groups = append(groups, ug)
			}
		}
		packages := make(map[string]struct{})
		for _, ug := range groups {
			for _, pkg := range ug.DefinedPackages() {
				packages[pkg] = struct{}{}
			}
		}
		for _, ug := range groups {
			for _, service := range usedServices(ug) {
				uses[service] = struct{}{}
			}
			for _, mod := range runtimeDeps(ug) {
				if _, ok := requires[mod]; !ok {
					requires[mod] = []string{"static"}
				}
			}
			for _, pkg := range ug.ImportedPackages() {
				if _, own := packages[pkg]; own {
					// Import of a package in the module itself.
					continue
				}
				depModule, visibility := LookupPackage(allModules, pkg, info.Name)
				if depModule == nil || depModule.Name == info.Name {
					continue
				}
				if _, ok := requires[depModule.Name]; !ok {
					requires[depModule.Name] = nil
				}
				if visibility == VisibilityConcealed {
					concealedRequires[depModule.Name] = appendUnique(concealedRequires[depModule.Name], pkg)
				}
				usedModules[depModule.Name] = struct{}{}
			}
			for _, pkg := range expandExports(ug, declaredExports(ug)) {
				if _, ok := exports[pkg]; !ok {
					exports[pkg] = nil
				}
			}
		}
		if len(usedModules) != 0 {
			s.logger.Debug("module dependencies in use", "module", info.Name, "modules", sortedSet(usedModules))
		}

		if err := os.RemoveAll(info.Dir); err != nil {
			return err
		}
		if err := os.MkdirAll(info.Dir, 0o755); err != nil {
			return err
		}
		provides := make(map[string][]string)
		stageArchives := make([]Archive, 0, 1+len(moduledeps))
		stageArchives = append(stageArchives, dist)
		for _, dep := range moduledeps {
			if depArchive, ok := dep.(Archive); ok {
				stageArchives = append(stageArchives, depArchive)
			}
		}
		for _, a := range stageArchives {
			names, err := archive.Unpack(a.ArchivePath(), info.Dir)
			if err != nil {
				return fmt.Errorf("unpacking %s: %w", a.Name(), err)
			}
			if err := scanServices(info.Dir, a, names, provides, uses); err != nil {
				return err
			}
		}

		jmd, err = NewDescriptor(Descriptor{
			Name:              info.Name,
			Exports:           exports,
			Requires:          requires,
			ConcealedRequires: concealedRequires,
			Uses:              uses,
			Provides:          provides,
			Packages:          packages,
			ArchivePath:       info.Archive,
			Origin:            dist,
			ModulePath:        modulepath,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	err = runStage(StageCompile, func() error {
		return s.compileModuleInfo(ctx, jmd, info, platformModules, platform)
	})
	if err != nil {
		return nil, err
	}

	err = runStage(StagePackage, func() error {
		if err := archive.Pack(info.Dir, info.Archive); err != nil {
			return fmt.Errorf("packing %s: %w", info.Archive, err)
		}
		_, err := s.Save(jmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.storeDescriptor(dist.Name(), jmd)
	return jmd, nil
}

// referencedModules resolves the direct dependencies of dist that are
// modules in their own right rather than part of the module content.
// Artifacts folded into the module, platform-satisfiable libraries and
// non-archive dependencies are skipped, as are archives that define no
// module. The result preserves declaration order.
func (s *Session) referencedModules(ctx context.Context, dist Archive, moduledeps []Artifact, platform Platform) ([]*Descriptor, error) {
	folded := make(map[string]bool, len(moduledeps))
	for _, dep := range moduledeps {
		folded[dep.Name()] = true
	}
	var modulepath []*Descriptor
	for _, dep := range dist.Deps() {
		if folded[dep.Name()] || dep.Name() == dist.Name() {
			continue
		}
		if _, ok := dep.(PlatformSatisfied); ok {
			continue
		}
		depArchive, ok := dep.(Archive)
		if !ok {
			continue
		}
		jmd, err := s.ModuleFor(ctx, depArchive, platform)
		if err != nil {
			return nil, err
		}
		if jmd != nil {
			modulepath = append(modulepath, jmd)
		}
	}
	return modulepath, nil
}

// scanServices folds the service registrations one staged archive carries
// into provides. A service is also recorded as used when the same archive
// holds the service class itself.
func scanServices(stageDir string, a Archive, names []string, provides map[string][]string, uses map[string]struct{}) error {
	const servicesPrefix = "META-INF/services/"
	for _, name := range names {
		if !strings.HasPrefix(name, servicesPrefix) || strings.HasSuffix(name, "/") {
			continue
		}
		service := strings.TrimPrefix(name, servicesPrefix)
		if service == "" {
			continue
		}
		if strings.Contains(service, "/") {
			return fmt.Errorf("%s: unexpected service registration entry: %s", a.Name(), name)
		}
		data, err := os.ReadFile(filepath.Join(stageDir, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		for _, line := range strings.Split(string(data), "\n") {
			provider := strings.TrimSpace(line)
			if provider == "" {
				continue
			}
			provides[service] = appendUnique(provides[service], provider)
		}
		serviceClass := strings.ReplaceAll(service, ".", "/") + ".class"
		if slices.Contains(names, serviceClass) {
			uses[service] = struct{}{}
		}
	}
	return nil
}
