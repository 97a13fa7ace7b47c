package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		in     bool
		want   string
		wantIn bool
	}{
		{name: "line comment", line: "code // tail", want: "code "},
		{name: "block within line", line: "a /* x */ b", want: "a  b"},
		{name: "block opens", line: "a /* x", want: "a ", wantIn: true},
		{name: "block closes", line: "x */ b // c", in: true, want: " b "},
		{name: "still inside", line: "still inside", in: true, want: "", wantIn: true},
		{name: "two blocks", line: "/*a*/code/*b*/", want: "code"},
		{name: "line comment hides opener", line: "int x = 1; // set /* not a block", want: "int x = 1; "},
		{name: "line comment inside block", line: "y /* a // b */ z", want: "y  z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotIn := stripComments(tt.line, tt.in)
			if got != tt.want || gotIn != tt.wantIn {
				t.Fatalf("stripComments(%q, %v) = (%q, %v), want (%q, %v)",
					tt.line, tt.in, got, gotIn, tt.want, tt.wantIn)
			}
		})
	}
}

func TestImportedPackage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"java.util.List", "java.util"},
		{"java.util.Map.Entry", "java.util"},
		{"com.acme.util.Strings.trim", "com.acme.util"},
		{"com.acme.spi.*", "com.acme.spi"},
		{"com.acme.Foo.*", "com.acme"},
		{"lowercase.only.pkg", "lowercase.only"},
		{"Single", ""},
		{"single", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := importedPackage(tt.path); got != tt.want {
				t.Fatalf("importedPackage(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func writeSource(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestScanSources(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "src/com/acme/scan/Scan.java", `// entry point
package com.acme.scan;

import java.util.List;
import static com.acme.util.Strings.trim;
import com.acme.spi.*;
/* commented out:
import not.real.Thing;
*/

public class Scan {}
`)
	writeSource(t, dir, "src/com/acme/scan/package-info.java", `/** Scanner internals. */
package com.acme.scan;
`)
	writeSource(t, dir, "src/com/acme/scan/sub/Extra.java", `package com.acme.scan.sub;

import com.acme.scan.Scan;

class Extra {}
`)
	writeSource(t, dir, "src/com/acme/scan/notes.txt", "import ignored.by.Extension;\n")

	defined, imported, pkgInfo, err := scanSources([]string{
		filepath.Join(dir, "src"),
		filepath.Join(dir, "does-not-exist"),
	})
	if err != nil {
		t.Fatalf("scanSources returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"com.acme.scan", "com.acme.scan.sub"}, defined); diff != "" {
		t.Fatalf("defined packages mismatch (-want +got):\n%s", diff)
	}
	wantImported := []string{"com.acme.scan", "com.acme.spi", "com.acme.util", "java.util"}
	if diff := cmp.Diff(wantImported, imported); diff != "" {
		t.Fatalf("imported packages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"com.acme.scan"}, pkgInfo); diff != "" {
		t.Fatalf("package-info packages mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectScanMergesDeclared(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "com.acme.gen/src/com/acme/gen/Gen.java", `package com.acme.gen;

import org.acme.ext.Helper;

class Gen {}
`)
	writeManifest(t, dir, `
[suite]
name = "s"

[[project]]
name = "com.acme.gen"
packages = ["com.acme.gen.generated"]
imports = ["org.acme.extra"]
`)

	s, err := Load(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	p := s.Projects()[0]
	if diff := cmp.Diff([]string{"com.acme.gen", "com.acme.gen.generated"}, p.DefinedPackages()); diff != "" {
		t.Fatalf("DefinedPackages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"org.acme.ext", "org.acme.extra"}, p.ImportedPackages()); diff != "" {
		t.Fatalf("ImportedPackages mismatch (-want +got):\n%s", diff)
	}
}
