// Package suite loads suite.toml build manifests and exposes their
// projects, distributions and libraries as the artifact graph module
// synthesis runs over.
package suite

import (
	"fmt"

	"github.com/mikepapadim/mx/internal/javamodules"
)

// compatExhaustiveModules is the first suite compat level at which module
// membership equals the archived dependency closure of a distribution.
const compatExhaustiveModules = 5

// Suite is a loaded build manifest.
type Suite struct {
	// Name is the suite name.
	Name string
	// Dir is the directory holding suite.toml.
	Dir string
	// Compat is the declared compatibility level.
	Compat int
	// Output is the absolute build output root.
	Output string

	projects      []*Project
	distributions []*Distribution
	artifacts     map[string]javamodules.Artifact
}

// Projects returns the suite's projects in declaration order.
func (s *Suite) Projects() []*Project {
	return s.projects
}

// Distributions returns the suite's distributions in declaration order.
func (s *Suite) Distributions() []*Distribution {
	return s.distributions
}

// Distribution returns the named distribution.
func (s *Suite) Distribution(name string) (*Distribution, error) {
	d, ok := s.artifacts[name].(*Distribution)
	if !ok {
		return nil, fmt.Errorf("suite %s has no distribution named %s", s.Name, name)
	}
	return d, nil
}

// ResolveArtifact makes the suite a javamodules.ArtifactResolver so
// persisted descriptor snapshots can find their dependency distributions.
func (s *Suite) ResolveArtifact(name string) (javamodules.Archive, error) {
	return s.Distribution(name)
}

// exhaustiveModules reports whether distributions of this suite equate
// module membership with their archived dependency closure.
func (s *Suite) exhaustiveModules() bool {
	return s.Compat >= compatExhaustiveModules
}

// Project is a group of Java sources compiled together.
type Project struct {
	name  string
	suite *Suite
	deps  []javamodules.Artifact

	definedPackages  []string
	importedPackages []string
	packageInfoPkgs  []string
	// exports is the declared exports attribute; exportsDeclared tells an
	// absent attribute from a declared empty one.
	exports         []string
	exportsDeclared bool
	uses            []string
	runtimeDeps     []string
}

func (p *Project) Name() string                      { return p.name }
func (p *Project) Deps() []javamodules.Artifact      { return p.deps }
func (p *Project) DefinedPackages() []string         { return p.definedPackages }
func (p *Project) ImportedPackages() []string        { return p.importedPackages }
func (p *Project) PackageInfoPackages() []string     { return p.packageInfoPkgs }
func (p *Project) DeclaredExports() ([]string, bool) { return p.exports, p.exportsDeclared }
func (p *Project) UsedServices() []string            { return p.uses }
func (p *Project) RuntimeDeps() []string             { return p.runtimeDeps }

// Distribution is a pre-built jar archive assembled from projects.
type Distribution struct {
	name  string
	suite *Suite
	path  string
	deps  []javamodules.Artifact

	// moduleName is the declared module name attribute.
	moduleName         string
	moduleNameDeclared bool
	moduleRoots        []javamodules.Artifact

	archived  []javamodules.Artifact
	classpath []javamodules.Artifact
}

func (d *Distribution) Name() string                          { return d.name }
func (d *Distribution) Deps() []javamodules.Artifact          { return d.deps }
func (d *Distribution) ArchivePath() string                   { return d.path }
func (d *Distribution) OutputRoot() string                    { return d.suite.Output }
func (d *Distribution) ModuleRoots() []javamodules.Artifact   { return d.moduleRoots }
func (d *Distribution) ArchivedDeps() []javamodules.Artifact  { return d.archived }
func (d *Distribution) ClasspathDeps() []javamodules.Artifact { return d.classpath }

func (d *Distribution) DeclaredModuleName() (string, bool) {
	return d.moduleName, d.moduleNameDeclared
}

func (d *Distribution) ModuleDepsEqualDistDeps() bool {
	return d.suite.exhaustiveModules()
}

// computeParts splits the declared dependency graph into the projects
// archived inside the jar and the external classpath entries. Projects
// are followed transitively; any distribution or library stops the
// descent and lands on the classpath.
func (d *Distribution) computeParts() {
	seen := make(map[string]bool)
	var visit func(dep javamodules.Artifact)
	visit = func(dep javamodules.Artifact) {
		if seen[dep.Name()] {
			return
		}
		seen[dep.Name()] = true
		if p, ok := dep.(*Project); ok {
			d.archived = append(d.archived, p)
			for _, pd := range p.deps {
				visit(pd)
			}
			return
		}
		d.classpath = append(d.classpath, dep)
	}
	for _, dep := range d.deps {
		visit(dep)
	}
}

// Library is a plain jar on the classpath, typically fetched from a
// repository. It defines no module of its own.
type Library struct {
	name string
	path string
}

func (l *Library) Name() string                 { return l.name }
func (l *Library) Deps() []javamodules.Artifact { return nil }

// ArchivePath is the location of the library jar.
func (l *Library) ArchivePath() string { return l.path }

// JDKLibrary is a library folded into the platform at some release. Once
// the target platform carries it, it vanishes from module dependencies.
type JDKLibrary struct {
	name       string
	jdkVersion int
}

func (l *JDKLibrary) Name() string                 { return l.name }
func (l *JDKLibrary) Deps() []javamodules.Artifact { return nil }

// SatisfiedBy reports whether the platform supplies this library itself.
func (l *JDKLibrary) SatisfiedBy(p javamodules.Platform) bool {
	return p.Release() >= l.jdkVersion
}
