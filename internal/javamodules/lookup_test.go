package javamodules

import "testing"

func TestLookupPackage(t *testing.T) {
	open, err := NewDescriptor(Descriptor{
		Name:    "acme.base",
		Exports: map[string][]string{"com.acme.base": nil},
		Packages: map[string]struct{}{
			"com.acme.base":          {},
			"com.acme.base.internal": {},
		},
	})
	if err != nil {
		t.Fatalf("NewDescriptor returned error: %v", err)
	}
	qualified, err := NewDescriptor(Descriptor{
		Name:    "acme.spi",
		Exports: map[string][]string{"com.acme.spi": {"acme.ext", "acme.tools"}},
	})
	if err != nil {
		t.Fatalf("NewDescriptor returned error: %v", err)
	}
	shadow, err := NewDescriptor(Descriptor{
		Name:    "acme.shadow",
		Exports: map[string][]string{"com.acme.base": nil},
	})
	if err != nil {
		t.Fatalf("NewDescriptor returned error: %v", err)
	}

	tests := []struct {
		name       string
		modulepath []*Descriptor
		pkg        string
		importer   string
		wantModule string
		wantVis    Visibility
	}{
		{
			name:       "unqualified export",
			modulepath: []*Descriptor{open, qualified},
			pkg:        "com.acme.base",
			importer:   "anyone",
			wantModule: "acme.base",
			wantVis:    VisibilityExported,
		},
		{
			name:       "qualified export visible to target",
			modulepath: []*Descriptor{open, qualified},
			pkg:        "com.acme.spi",
			importer:   "acme.tools",
			wantModule: "acme.spi",
			wantVis:    VisibilityExported,
		},
		{
			name:       "qualified export concealed from non-target",
			modulepath: []*Descriptor{open, qualified},
			pkg:        "com.acme.spi",
			importer:   "acme.stranger",
			wantModule: "acme.spi",
			wantVis:    VisibilityConcealed,
		},
		{
			name:       "unexported member package is concealed",
			modulepath: []*Descriptor{open},
			pkg:        "com.acme.base.internal",
			importer:   "anyone",
			wantModule: "acme.base",
			wantVis:    VisibilityConcealed,
		},
		{
			name:       "first module on the path wins",
			modulepath: []*Descriptor{shadow, open},
			pkg:        "com.acme.base",
			importer:   "anyone",
			wantModule: "acme.shadow",
			wantVis:    VisibilityExported,
		},
		{
			name:       "unknown package",
			modulepath: []*Descriptor{open, qualified},
			pkg:        "com.acme.nowhere",
			importer:   "anyone",
			wantModule: "",
			wantVis:    VisibilityNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, vis := LookupPackage(tt.modulepath, tt.pkg, tt.importer)
			if tt.wantModule == "" {
				if m != nil {
					t.Fatalf("LookupPackage = %v, want nil", m)
				}
			} else {
				if m == nil {
					t.Fatal("LookupPackage returned nil module")
				}
				if m.Name != tt.wantModule {
					t.Fatalf("module = %s, want %s", m.Name, tt.wantModule)
				}
			}
			if vis != tt.wantVis {
				t.Fatalf("visibility = %s, want %s", vis, tt.wantVis)
			}
		})
	}
}

func TestVisibilityString(t *testing.T) {
	if VisibilityExported.String() != "exported" || VisibilityConcealed.String() != "concealed" || VisibilityNone.String() != "none" {
		t.Fatal("unexpected Visibility string values")
	}
}
