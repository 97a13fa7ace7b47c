package javamodules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandExports(t *testing.T) {
	proj := &fakeProject{
		name:    "com.acme.doc",
		defined: []string{"com.acme.doc", "com.acme.doc.api", "com.acme.doc.impl"},
		pkgInfo: []string{"com.acme.doc", "com.acme.doc.api"},
	}
	tests := []struct {
		name    string
		entries []string
		want    []string
	}{
		{
			name:    "marker expands to package-info packages",
			entries: []string{PackageInfoMarker, "com.pub"},
			want:    []string{"com.acme.doc", "com.acme.doc.api", "com.pub"},
		},
		{
			name:    "marker overlap is deduplicated",
			entries: []string{"com.acme.doc", PackageInfoMarker},
			want:    []string{"com.acme.doc", "com.acme.doc.api"},
		},
		{
			name:    "no marker passes entries through",
			entries: []string{"com.pub", "com.pub"},
			want:    []string{"com.pub"},
		},
		{
			name:    "empty",
			entries: nil,
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, expandExports(proj, tt.entries)); diff != "" {
				t.Fatalf("expandExports mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeclaredExportsDefault(t *testing.T) {
	all := &fakeProject{name: "p", defined: []string{"com.a", "com.b"}}
	if diff := cmp.Diff([]string{"com.a", "com.b"}, declaredExports(all)); diff != "" {
		t.Fatalf("undeclared attribute must export every defined package (-want +got):\n%s", diff)
	}
	none := &fakeProject{name: "p", defined: []string{"com.a"}, declaredExports: true}
	if got := declaredExports(none); len(got) != 0 {
		t.Fatalf("declared empty attribute must export nothing, got %v", got)
	}
}
