package javamodules

import "context"

// Artifact is a node of the host build graph. The synthesizer never mutates
// artifacts; everything it learns about them is memoized on the Session.
type Artifact interface {
	// Name returns the build-graph-unique artifact name.
	Name() string
	// Deps returns the direct dependencies in declaration order.
	Deps() []Artifact
}

// Archive is an artifact packaged as a jar-style archive, i.e. a
// distribution. Distributions are the only artifacts modules are
// synthesized for.
type Archive interface {
	Artifact
	// ArchivePath is the location of the pre-built archive on disk.
	ArchivePath() string
	// OutputRoot is the build output root under which module staging
	// directories, snapshots and modular jars are created.
	OutputRoot() string
	// DeclaredModuleName returns the explicitly declared module name and
	// whether one was declared.
	DeclaredModuleName() (string, bool)
	// ModuleRoots returns the declared module dependency roots. Empty
	// means the distribution does not define a module in legacy mode.
	ModuleRoots() []Artifact
	// ArchivedDeps returns the dependency closure folded into the
	// archive itself.
	ArchivedDeps() []Artifact
	// ClasspathDeps returns the dependencies the archive was compiled
	// against but which live outside it.
	ClasspathDeps() []Artifact
	// ModuleDepsEqualDistDeps reports whether the owning suite equates
	// module membership with the archived dependency closure
	// (exhaustive mode) instead of the declared module roots
	// (legacy mode).
	ModuleDepsEqualDistDeps() bool
}

// UnitGroup is an artifact owning compiled source units, i.e. a project.
// Its package sets drive export and requires derivation.
type UnitGroup interface {
	Artifact
	// DefinedPackages returns the packages defined by the group's units.
	DefinedPackages() []string
	// ImportedPackages returns the packages imported by the group's units.
	ImportedPackages() []string
	// PackageInfoPackages returns the defined packages that carry a
	// package-info.java unit.
	PackageInfoPackages() []string
}

// PlatformSatisfied marks artifacts a target platform can satisfy by
// itself, such as JDK libraries. They are pruned from module dependency
// walks instead of contributing packages.
type PlatformSatisfied interface {
	Artifact
	SatisfiedBy(Platform) bool
}

// Platform is the target Java platform modules are synthesized against.
type Platform interface {
	// Modules returns the platform's own module descriptors.
	Modules(ctx context.Context) ([]*Descriptor, error)
	// TransitiveRequiresKeyword is the modifier marking a re-exported
	// requires directive, "transitive" on any modular platform.
	TransitiveRequiresKeyword() string
	// Release is the platform feature release, e.g. 21.
	Release() int
	// Javac is the path of the platform's compiler executable.
	Javac() string
}

// ArtifactResolver maps persisted artifact references back to live
// archives when a descriptor snapshot is loaded.
type ArtifactResolver interface {
	ResolveArtifact(name string) (Archive, error)
}

// PackageInfoMarker in a declared exports attribute expands to every
// package of the declaring unit group that carries a package-info.java.
const PackageInfoMarker = "<package-info>"

// ExportsDeclarer is implemented by unit groups carrying an explicit
// exports attribute.
type ExportsDeclarer interface {
	// DeclaredExports returns the attribute value and whether it was
	// declared at all. An undeclared attribute exports every defined
	// package; a declared empty one exports nothing.
	DeclaredExports() ([]string, bool)
}

// ServiceUser is implemented by artifacts declaring service types they
// consume via ServiceLoader.
type ServiceUser interface {
	UsedServices() []string
}

// RuntimeDepender is implemented by artifacts declaring module names they
// need at run time only. Such modules become static requires.
type RuntimeDepender interface {
	RuntimeDeps() []string
}

// declaredExports resolves the effective export entries of a unit group,
// applying the undeclared-attribute default.
func declaredExports(u UnitGroup) []string {
	if decl, ok := u.(ExportsDeclarer); ok {
		if entries, declared := decl.DeclaredExports(); declared {
			return entries
		}
	}
	return u.DefinedPackages()
}

func usedServices(a Artifact) []string {
	if su, ok := a.(ServiceUser); ok {
		return su.UsedServices()
	}
	return nil
}

func runtimeDeps(a Artifact) []string {
	if rd, ok := a.(RuntimeDepender); ok {
		return rd.RuntimeDeps()
	}
	return nil
}

// expandExports resolves export entries of u to concrete packages,
// expanding PackageInfoMarker to the packages with a package-info.java.
func expandExports(u UnitGroup, entries []string) []string {
	var out []string
	for _, entry := range entries {
		if entry == PackageInfoMarker {
			for _, pkg := range u.PackageInfoPackages() {
				out = appendUnique(out, pkg)
			}
			continue
		}
		out = appendUnique(out, entry)
	}
	return out
}
