// Package javamodules synthesizes Java platform module descriptors for
// pre-built distribution archives. A descriptor is derived from the
// distribution's dependency graph and archive contents, rendered to
// module-info.java, compiled with the target platform's javac and packed
// back into a modular jar. Descriptors persist across sessions as msgpack
// snapshots next to the module staging directory.
package javamodules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Descriptor describes a single Java module: its name, package sets and
// directives. Platform modules carry no Origin and no ArchivePath; synthesized
// modules point back at the distribution they were derived from.
type Descriptor struct {
	// Name is the module name, e.g. "com.acme.core".
	Name string
	// Exports maps an exported package to its qualified-export targets.
	// An empty target list means the package is exported to everyone.
	Exports map[string][]string
	// Requires maps a required module name to its modifiers
	// ("transitive", "static", ...). An empty modifier list is a plain
	// requires directive.
	Requires map[string][]string
	// ConcealedRequires maps a required module name to the concealed
	// packages of that module this module reaches into.
	ConcealedRequires map[string][]string
	// Uses is the set of fully qualified service types consumed via
	// java.util.ServiceLoader.
	Uses map[string]struct{}
	// Provides maps a service type to its implementation classes in
	// registration order.
	Provides map[string][]string
	// Packages is the set of all packages in the module, exported or not.
	Packages map[string]struct{}
	// ArchivePath is the modular jar the module lives in, if any.
	ArchivePath string
	// Origin is the distribution the module was synthesized from.
	// It is nil for platform modules.
	Origin Archive
	// ModulePath holds the descriptors of non-platform modules this
	// module was compiled against.
	ModulePath []*Descriptor
	// Platform marks modules supplied by the target platform itself.
	Platform bool
}

// NewDescriptor normalizes cfg into a Descriptor the package owns. Maps and
// slices are copied, nil collections become empty ones, and an absent
// Packages set defaults to the exported packages. Every exported package
// must be a member of Packages.
func NewDescriptor(cfg Descriptor) (*Descriptor, error) {
	if cfg.Name == "" {
		return nil, errors.New("module name cannot be empty")
	}
	d := &Descriptor{
		Name:              cfg.Name,
		Exports:           copyListMap(cfg.Exports),
		Requires:          copyListMap(cfg.Requires),
		ConcealedRequires: copyListMap(cfg.ConcealedRequires),
		Uses:              copySet(cfg.Uses),
		Provides:          copyListMap(cfg.Provides),
		ArchivePath:       cfg.ArchivePath,
		Origin:            cfg.Origin,
		ModulePath:        append([]*Descriptor(nil), cfg.ModulePath...),
		Platform:          cfg.Platform,
	}
	if cfg.Packages == nil {
		d.Packages = make(map[string]struct{}, len(d.Exports))
		for pkg := range d.Exports {
			d.Packages[pkg] = struct{}{}
		}
		return d, nil
	}
	d.Packages = copySet(cfg.Packages)
	for _, pkg := range sortedKeys(d.Exports) {
		if _, ok := d.Packages[pkg]; !ok {
			return nil, fmt.Errorf("module %s: exported package %s is not a member of the module", d.Name, pkg)
		}
	}
	return d, nil
}

func (d *Descriptor) String() string {
	return "module:" + d.Name
}

// Conceals returns the packages of the module that are not exported,
// sorted lexicographically.
func (d *Descriptor) Conceals() []string {
	conceals := make([]string, 0, len(d.Packages))
	for pkg := range d.Packages {
		if _, exported := d.Exports[pkg]; !exported {
			conceals = append(conceals, pkg)
		}
	}
	sort.Strings(conceals)
	return conceals
}

// ModuleInfoSource renders the descriptor as module-info.java source. The
// output is deterministic: directives are sorted by their subject, only
// provider lists keep registration order. Facts javac would reject as
// directives (concealed packages, the archive path, the origin distribution,
// the module path, concealed requires) are emitted as trailing comments so
// the source round-trips the whole descriptor.
func (d *Descriptor) ModuleInfoSource() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s {\n", d.Name)
	for _, dep := range sortedKeys(d.Requires) {
		modifiers := append([]string(nil), d.Requires[dep]...)
		sort.Strings(modifiers)
		prefix := strings.Join(modifiers, " ")
		if prefix != "" {
			prefix += " "
		}
		fmt.Fprintf(&b, "    requires %s%s;\n", prefix, dep)
	}
	for _, pkg := range sortedKeys(d.Exports) {
		targets := append([]string(nil), d.Exports[pkg]...)
		sort.Strings(targets)
		clause := ""
		if len(targets) != 0 {
			clause = " to " + strings.Join(targets, ", ")
		}
		fmt.Fprintf(&b, "    exports %s%s;\n", pkg, clause)
	}
	for _, service := range sortedSet(d.Uses) {
		fmt.Fprintf(&b, "    uses %s;\n", service)
	}
	for _, service := range sortedKeys(d.Provides) {
		fmt.Fprintf(&b, "    provides %s with %s;\n", service, strings.Join(d.Provides[service], ", "))
	}
	for _, pkg := range d.Conceals() {
		fmt.Fprintf(&b, "    // conceals: %s\n", pkg)
	}
	if d.ArchivePath != "" {
		fmt.Fprintf(&b, "    // jarpath: %s\n", d.ArchivePath)
	}
	if d.Origin != nil {
		fmt.Fprintf(&b, "    // dist: %s\n", d.Origin.Name())
	}
	if len(d.ModulePath) != 0 {
		names := make([]string, 0, len(d.ModulePath))
		for _, m := range d.ModulePath {
			names = append(names, m.Name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "    // modulepath: %s\n", strings.Join(names, ", "))
	}
	for _, dep := range sortedKeys(d.ConcealedRequires) {
		pkgs := append([]string(nil), d.ConcealedRequires[dep]...)
		sort.Strings(pkgs)
		for _, pkg := range pkgs {
			fmt.Fprintf(&b, "    // concealed-requires: %s/%s\n", dep, pkg)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func copyListMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func copySet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(s map[string]struct{}) []string {
	return sortedKeys(s)
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
