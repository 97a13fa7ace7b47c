package javamodules

import (
	"context"
	"fmt"
)

// fakeDist is a minimal Archive for exercising collection and synthesis.
type fakeDist struct {
	name          string
	out           string
	jar           string
	moduleName    string
	hasModuleName bool
	roots         []Artifact
	deps          []Artifact
	archived      []Artifact
	classpath     []Artifact
	exhaustive    bool
}

func (d *fakeDist) Name() string                       { return d.name }
func (d *fakeDist) Deps() []Artifact                   { return d.deps }
func (d *fakeDist) ArchivePath() string                { return d.jar }
func (d *fakeDist) OutputRoot() string                 { return d.out }
func (d *fakeDist) DeclaredModuleName() (string, bool) { return d.moduleName, d.hasModuleName }
func (d *fakeDist) ModuleRoots() []Artifact            { return d.roots }
func (d *fakeDist) ArchivedDeps() []Artifact           { return d.archived }
func (d *fakeDist) ClasspathDeps() []Artifact          { return d.classpath }
func (d *fakeDist) ModuleDepsEqualDistDeps() bool      { return d.exhaustive }

// fakeProject is a minimal UnitGroup with all optional attributes.
type fakeProject struct {
	name            string
	deps            []Artifact
	defined         []string
	imported        []string
	pkgInfo         []string
	exports         []string
	declaredExports bool
	uses            []string
	runtime         []string
}

func (p *fakeProject) Name() string                      { return p.name }
func (p *fakeProject) Deps() []Artifact                  { return p.deps }
func (p *fakeProject) DefinedPackages() []string         { return p.defined }
func (p *fakeProject) ImportedPackages() []string        { return p.imported }
func (p *fakeProject) PackageInfoPackages() []string     { return p.pkgInfo }
func (p *fakeProject) DeclaredExports() ([]string, bool) { return p.exports, p.declaredExports }
func (p *fakeProject) UsedServices() []string            { return p.uses }
func (p *fakeProject) RuntimeDeps() []string             { return p.runtime }

// fakeJDKLib is pruned from module walks and satisfied by platforms at or
// above its release.
type fakeJDKLib struct {
	name string
	min  int
}

func (l *fakeJDKLib) Name() string                { return l.name }
func (l *fakeJDKLib) Deps() []Artifact            { return nil }
func (l *fakeJDKLib) SatisfiedBy(p Platform) bool { return p.Release() >= l.min }

// fakeLib is a plain classpath jar that defines no module.
type fakeLib struct {
	name string
}

func (l *fakeLib) Name() string     { return l.name }
func (l *fakeLib) Deps() []Artifact { return nil }

type fakePlatform struct {
	modules []*Descriptor
	javac   string
	release int
}

func (p *fakePlatform) Modules(context.Context) ([]*Descriptor, error) { return p.modules, nil }
func (p *fakePlatform) TransitiveRequiresKeyword() string              { return "transitive" }
func (p *fakePlatform) Release() int                                   { return p.release }
func (p *fakePlatform) Javac() string                                  { return p.javac }

type mapResolver map[string]Archive

func (r mapResolver) ResolveArtifact(name string) (Archive, error) {
	dist, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown artifact: %s", name)
	}
	return dist, nil
}

// platformModule builds a platform descriptor exporting the given packages
// to everyone.
func platformModule(name string, exported ...string) *Descriptor {
	exports := make(map[string][]string, len(exported))
	for _, pkg := range exported {
		exports[pkg] = nil
	}
	jmd, err := NewDescriptor(Descriptor{Name: name, Exports: exports, Platform: true})
	if err != nil {
		panic(err)
	}
	return jmd
}
