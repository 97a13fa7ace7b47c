// Package jdk locates JDK installations and exposes their platform-module
// inventories to module synthesis.
package jdk

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/mikepapadim/mx/internal/javamodules"
)

// minRelease is the first feature release with a module system.
const minRelease = 9

// Config is an installed JDK. The probed platform-module inventory is
// held on the Config, so every synthesis against one target shares a
// single probe.
type Config struct {
	// Home is the installation root.
	Home string
	// CacheDir overrides where the platform-module inventory cache is
	// kept. Empty means the user cache dir.
	CacheDir string

	version string
	release int

	mu      sync.Mutex
	modules []*javamodules.Descriptor
}

// Open reads the release metadata of the JDK installed at home. The
// installation must be release 9 or later; earlier releases have no
// module system to synthesize against.
func Open(home string) (*Config, error) {
	home, err := filepath.Abs(home)
	if err != nil {
		return nil, err
	}
	version, err := readReleaseFile(filepath.Join(home, "release"))
	if err != nil {
		return nil, err
	}
	release, err := featureRelease(version)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", home, err)
	}
	if release < minRelease {
		return nil, fmt.Errorf("JDK at %s is release %d, need %d or later", home, release, minRelease)
	}
	c := &Config{Home: home, version: version, release: release}
	if _, err := os.Stat(c.Java()); err != nil {
		return nil, fmt.Errorf("JDK at %s has no launcher: %w", home, err)
	}
	return c, nil
}

// Release returns the feature release, e.g. 21.
func (c *Config) Release() int { return c.release }

// Version returns the full JAVA_VERSION value from the release file.
func (c *Config) Version() string { return c.version }

// Javac returns the path of the installation's compiler.
func (c *Config) Javac() string { return c.tool("javac") }

// Java returns the path of the installation's launcher.
func (c *Config) Java() string { return c.tool("java") }

// TransitiveRequiresKeyword returns the modifier marking re-exported
// requires directives.
func (c *Config) TransitiveRequiresKeyword() string { return "transitive" }

func (c *Config) String() string {
	return fmt.Sprintf("JDK %s at %s", c.version, c.Home)
}

func (c *Config) tool(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(c.Home, "bin", name)
}

// readReleaseFile extracts JAVA_VERSION from a JDK release file, a
// properties file of KEY="value" lines.
func readReleaseFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("not a JDK home: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "JAVA_VERSION=")
		if !ok {
			continue
		}
		return strings.Trim(value, `"`), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s has no JAVA_VERSION", path)
}

// featureRelease maps a JAVA_VERSION value to its feature release:
// "17.0.2" is 17, an early-access "23-ea" is 23 and the legacy
// "1.8.0_302" scheme is 8.
func featureRelease(version string) (int, error) {
	segs := strings.SplitN(version, ".", 3)
	n, err := strconv.Atoi(leadingDigits(segs[0]))
	if err != nil {
		return 0, fmt.Errorf("unparsable JAVA_VERSION %q", version)
	}
	if n == 1 && len(segs) > 1 {
		n, err = strconv.Atoi(leadingDigits(segs[1]))
		if err != nil {
			return 0, fmt.Errorf("unparsable JAVA_VERSION %q", version)
		}
	}
	return n, nil
}

func leadingDigits(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return s[:i]
		}
	}
	return s
}
