package jdk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFakeJDK(t *testing.T, dir, version string) {
	t.Helper()
	release := "IMPLEMENTOR=\"Acme\"\nJAVA_VERSION=\"" + version + "\"\nOS_ARCH=\"x86_64\"\n"
	if err := os.WriteFile(filepath.Join(dir, "release"), []byte(release), 0o644); err != nil {
		t.Fatalf("write release: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	c := Config{Home: dir}
	if err := os.WriteFile(c.Java(), []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write launcher: %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	writeFakeJDK(t, dir, "17.0.2")

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if c.Release() != 17 {
		t.Fatalf("Release = %d, want 17", c.Release())
	}
	if c.Version() != "17.0.2" {
		t.Fatalf("Version = %q", c.Version())
	}
	if c.TransitiveRequiresKeyword() != "transitive" {
		t.Fatalf("TransitiveRequiresKeyword = %q", c.TransitiveRequiresKeyword())
	}
	if filepath.Dir(c.Javac()) != filepath.Join(dir, "bin") {
		t.Fatalf("Javac = %q, want it under bin", c.Javac())
	}
}

func TestOpenErrors(t *testing.T) {
	t.Run("not a jdk home", func(t *testing.T) {
		if _, err := Open(t.TempDir()); err == nil || !strings.Contains(err.Error(), "not a JDK home") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("pre-module release", func(t *testing.T) {
		dir := t.TempDir()
		writeFakeJDK(t, dir, "1.8.0_302")
		if _, err := Open(dir); err == nil || !strings.Contains(err.Error(), "need 9 or later") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("no version entry", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "release"), []byte("OS_ARCH=\"x86_64\"\n"), 0o644); err != nil {
			t.Fatalf("write release: %v", err)
		}
		if _, err := Open(dir); err == nil || !strings.Contains(err.Error(), "no JAVA_VERSION") {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("no launcher", func(t *testing.T) {
		dir := t.TempDir()
		writeFakeJDK(t, dir, "17.0.2")
		if err := os.Remove((&Config{Home: dir}).Java()); err != nil {
			t.Fatalf("remove launcher: %v", err)
		}
		if _, err := Open(dir); err == nil || !strings.Contains(err.Error(), "no launcher") {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestFeatureRelease(t *testing.T) {
	tests := []struct {
		version string
		want    int
		wantErr bool
	}{
		{version: "9", want: 9},
		{version: "11.0.1", want: 11},
		{version: "17.0.2", want: 17},
		{version: "23-ea", want: 23},
		{version: "1.8.0_302", want: 8},
		{version: "garbage", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := featureRelease(tt.version)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("featureRelease returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("featureRelease(%q) = %d, want %d", tt.version, got, tt.want)
			}
		})
	}
}
