package jdk

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const describeOutput = `java.base@17.0.2
exports java.io
exports java.lang
exports java.util
qualified exports jdk.internal.misc to java.logging jdk.unsupported
requires jdk.internal.vm.ci static
uses java.nio.file.spi.FileSystemProvider
provides java.nio.file.spi.FileSystemProvider with jdk.internal.jrtfs.JrtFileSystemProvider
contains jdk.internal.vm
platform linux-amd64

java.logging@17.0.2
exports java.util.logging
requires java.base mandated
provides jdk.internal.logger.DefaultLoggerFinder with sun.util.logging.internal.LoggingProviderImpl

jdk.scripting@17.0.2 open
requires java.base mandated
contains jdk.scripting.internal
`

func TestParseModuleList(t *testing.T) {
	got := parseModuleList("java.base@17.0.2\njava.logging@17.0.2\n\njdk.scripting\n")
	want := []string{"java.base", "java.logging", "jdk.scripting"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("module list mismatch (-want +got):\n%s", diff)
	}
}

func TestParseModuleDescriptions(t *testing.T) {
	modules, err := parseModuleDescriptions(describeOutput)
	if err != nil {
		t.Fatalf("parseModuleDescriptions returned error: %v", err)
	}
	if len(modules) != 3 {
		t.Fatalf("parsed %d modules, want 3", len(modules))
	}

	base := modules[0]
	if base.Name != "java.base" || !base.Platform {
		t.Fatalf("first module = %s platform %v", base.Name, base.Platform)
	}
	if targets, ok := base.Exports["java.io"]; !ok || len(targets) != 0 {
		t.Fatalf("java.io export = (%v, %v), want unqualified", targets, ok)
	}
	wantTargets := []string{"java.logging", "jdk.unsupported"}
	if diff := cmp.Diff(wantTargets, base.Exports["jdk.internal.misc"]); diff != "" {
		t.Fatalf("qualified export targets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"static"}, base.Requires["jdk.internal.vm.ci"]); diff != "" {
		t.Fatalf("requires modifiers mismatch (-want +got):\n%s", diff)
	}
	if _, ok := base.Uses["java.nio.file.spi.FileSystemProvider"]; !ok {
		t.Fatal("uses directive not parsed")
	}
	impls := base.Provides["java.nio.file.spi.FileSystemProvider"]
	if diff := cmp.Diff([]string{"jdk.internal.jrtfs.JrtFileSystemProvider"}, impls); diff != "" {
		t.Fatalf("provides mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"jdk.internal.vm"}, base.Conceals()); diff != "" {
		t.Fatalf("concealed packages mismatch (-want +got):\n%s", diff)
	}

	if modules[1].Name != "java.logging" {
		t.Fatalf("second module = %s", modules[1].Name)
	}
	scripting := modules[2]
	if scripting.Name != "jdk.scripting" {
		t.Fatalf("open module parsed as %s", scripting.Name)
	}
	if _, ok := scripting.Packages["jdk.scripting.internal"]; !ok {
		t.Fatal("contains package of open module not parsed")
	}
}

func TestParseModuleDescriptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{
			name: "directive before header",
			out:  "exports java.io\n",
			want: "starts with directive",
		},
		{
			name: "malformed provides",
			out:  "m@1\nprovides a.Service\n",
			want: "malformed describe-module line",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseModuleDescriptions(tt.out)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}
