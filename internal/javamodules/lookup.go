package javamodules

import "slices"

// Visibility classifies how a package is visible to an importing module.
type Visibility uint8

const (
	// VisibilityNone means no module on the path defines the package.
	VisibilityNone Visibility = iota
	// VisibilityExported means the defining module exports the package to
	// the importer.
	VisibilityExported
	// VisibilityConcealed means the defining module holds the package but
	// does not export it to the importer.
	VisibilityConcealed
)

func (v Visibility) String() string {
	switch v {
	case VisibilityExported:
		return "exported"
	case VisibilityConcealed:
		return "concealed"
	default:
		return "none"
	}
}

// LookupPackage finds the module defining pkg on an ordered module path.
// The first module defining the package wins regardless of visibility.
// A qualified export is visible only when importer is among its targets;
// an unqualified export is visible to everyone. A package that is a member
// of the module but not exported to the importer is concealed.
func LookupPackage(modulepath []*Descriptor, pkg, importer string) (*Descriptor, Visibility) {
	for _, m := range modulepath {
		if targets, ok := m.Exports[pkg]; ok {
			if len(targets) == 0 || slices.Contains(targets, importer) {
				return m, VisibilityExported
			}
			return m, VisibilityConcealed
		}
		if _, ok := m.Packages[pkg]; ok {
			return m, VisibilityConcealed
		}
	}
	return nil, VisibilityNone
}
