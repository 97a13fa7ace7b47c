package jdk

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mikepapadim/mx/internal/javamodules"
)

// runJava invokes the installation's launcher and captures its stdout.
// Failures carry the full command line, like compiler invocations do.
func (c *Config) runJava(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.Java(), args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &javamodules.ToolError{
			Args:   append([]string{c.Java()}, args...),
			Output: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}

// probeModules asks the installation for its module inventory: one
// --list-modules run for the names, then one --describe-module run for
// all descriptors at once.
func (c *Config) probeModules(ctx context.Context) ([]*javamodules.Descriptor, error) {
	out, err := c.runJava(ctx, "--list-modules")
	if err != nil {
		return nil, err
	}
	names := parseModuleList(out)
	if len(names) == 0 {
		return nil, fmt.Errorf("%s --list-modules reported no modules", c.Java())
	}
	out, err = c.runJava(ctx, append([]string{"--describe-module"}, names...)...)
	if err != nil {
		return nil, err
	}
	return parseModuleDescriptions(out)
}

// parseModuleList extracts module names from --list-modules output, one
// name@version per line.
func parseModuleList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, _, _ := strings.Cut(line, "@")
		names = append(names, name)
	}
	return names
}

// description accumulates the directives of one module while its
// --describe-module block is parsed.
type description struct {
	name     string
	packages map[string]struct{}
	exports  map[string][]string
	requires map[string][]string
	uses     map[string]struct{}
	provides map[string][]string
}

func newDescription(name string) *description {
	return &description{
		name:     name,
		packages: make(map[string]struct{}),
		exports:  make(map[string][]string),
		requires: make(map[string][]string),
		uses:     make(map[string]struct{}),
		provides: make(map[string][]string),
	}
}

func (d *description) build() (*javamodules.Descriptor, error) {
	return javamodules.NewDescriptor(javamodules.Descriptor{
		Name:     d.name,
		Packages: d.packages,
		Exports:  d.exports,
		Requires: d.requires,
		Uses:     d.uses,
		Provides: d.provides,
		Platform: true,
	})
}

// parseModuleDescriptions parses --describe-module output. Each module
// starts with a name@version header, optionally suffixed with a location
// and the "open" or "automatic" markers, followed by one directive per
// line. Packages come from exports and contains lines; opens, platform
// and main-class lines carry nothing a visibility lookup needs.
func parseModuleDescriptions(out string) ([]*javamodules.Descriptor, error) {
	var modules []*javamodules.Descriptor
	var cur *description

	flush := func() error {
		if cur == nil {
			return nil
		}
		jmd, err := cur.build()
		if err != nil {
			return err
		}
		modules = append(modules, jmd)
		cur = nil
		return nil
	}

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		directive := fields[0]
		if !knownDirective(directive) {
			if err := flush(); err != nil {
				return nil, err
			}
			name, _, _ := strings.Cut(directive, "@")
			cur = newDescription(name)
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("describe-module output starts with directive %q", line)
		}
		switch directive {
		case "exports":
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed describe-module line %q", line)
			}
			cur.packages[fields[1]] = struct{}{}
			cur.exports[fields[1]] = nil
		case "qualified":
			// "qualified exports <pkg> to <module>..."; qualified opens
			// are ignored like plain ones.
			if len(fields) >= 4 && fields[1] == "exports" && fields[3] == "to" {
				cur.packages[fields[2]] = struct{}{}
				cur.exports[fields[2]] = trimCommas(fields[4:])
			}
		case "requires":
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed describe-module line %q", line)
			}
			cur.requires[fields[1]] = trimCommas(fields[2:])
		case "uses":
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed describe-module line %q", line)
			}
			cur.uses[fields[1]] = struct{}{}
		case "provides":
			if len(fields) < 4 || fields[2] != "with" {
				return nil, fmt.Errorf("malformed describe-module line %q", line)
			}
			cur.provides[fields[1]] = trimCommas(fields[3:])
		case "contains":
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed describe-module line %q", line)
			}
			cur.packages[fields[1]] = struct{}{}
		case "opens", "platform", "main-class":
			// Not relevant to package visibility.
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return modules, nil
}

func knownDirective(s string) bool {
	switch s {
	case "exports", "qualified", "requires", "uses", "provides", "contains",
		"opens", "platform", "main-class":
		return true
	}
	return false
}

// trimCommas cleans a directive's trailing operand list: the
// describe-module printer separates some lists with ", ".
func trimCommas(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.Trim(f, ","); f != "" {
			out = append(out, f)
		}
	}
	return out
}
