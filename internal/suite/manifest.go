package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mikepapadim/mx/internal/javamodules"
)

// ManifestName is the file name suites are declared in.
const ManifestName = "suite.toml"

// defaultOutput is the build output root relative to the suite directory.
const defaultOutput = "mxbuild"

type manifest struct {
	Suite         suiteSection          `toml:"suite"`
	Projects      []projectSection      `toml:"project"`
	Distributions []distributionSection `toml:"distribution"`
	Libraries     []librarySection      `toml:"library"`
	JDKLibraries  []jdkLibrarySection   `toml:"jdklibrary"`
}

type suiteSection struct {
	Name   string `toml:"name"`
	Compat int    `toml:"compat"`
	Output string `toml:"output"`
}

type projectSection struct {
	Name       string   `toml:"name"`
	Dir        string   `toml:"dir"`
	SourceDirs []string `toml:"sourceDirs"`
	Deps       []string `toml:"deps"`
	Packages   []string `toml:"packages"`
	Imports    []string `toml:"imports"`
	// Exports is a pointer so a declared empty list reads differently
	// from an absent attribute.
	Exports     *[]string `toml:"exports"`
	Uses        []string  `toml:"uses"`
	RuntimeDeps []string  `toml:"runtimeDeps"`
}

type distributionSection struct {
	Name       string   `toml:"name"`
	Path       string   `toml:"path"`
	ModuleName *string  `toml:"moduleName"`
	Deps       []string `toml:"deps"`
	ModuleDeps []string `toml:"moduledeps"`
}

type librarySection struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type jdkLibrarySection struct {
	Name       string `toml:"name"`
	JDKVersion int    `toml:"jdkVersion"`
}

// Find walks from startDir towards the filesystem root looking for a
// suite.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses and resolves the manifest at path: every artifact gets
// created, dependency names become references, project sources are
// scanned for package metadata and the dependency graph is checked for
// cycles.
func Load(path string) (*Suite, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("suite") {
		return nil, fmt.Errorf("%s: missing [suite]", path)
	}
	if !meta.IsDefined("suite", "name") || strings.TrimSpace(m.Suite.Name) == "" {
		return nil, fmt.Errorf("%s: missing [suite].name", path)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	output := m.Suite.Output
	if output == "" {
		output = defaultOutput
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(dir, output)
	}
	s := &Suite{
		Name:      m.Suite.Name,
		Dir:       dir,
		Compat:    m.Suite.Compat,
		Output:    output,
		artifacts: make(map[string]javamodules.Artifact),
	}

	register := func(name string, a javamodules.Artifact) error {
		if name == "" {
			return fmt.Errorf("%s: artifact with empty name", path)
		}
		if _, dup := s.artifacts[name]; dup {
			return fmt.Errorf("%s: duplicate artifact name %s", path, name)
		}
		s.artifacts[name] = a
		return nil
	}

	for _, sec := range m.Projects {
		p := &Project{name: sec.Name, suite: s, uses: sec.Uses, runtimeDeps: sec.RuntimeDeps}
		if sec.Exports != nil {
			p.exports = *sec.Exports
			p.exportsDeclared = true
		}
		if err := register(p.name, p); err != nil {
			return nil, err
		}
		s.projects = append(s.projects, p)
	}
	for _, sec := range m.Distributions {
		d := &Distribution{name: sec.Name, suite: s}
		if sec.ModuleName != nil {
			d.moduleName = *sec.ModuleName
			d.moduleNameDeclared = true
		}
		d.path = sec.Path
		if d.path == "" {
			d.path = filepath.Join(s.Output, "dists", d.name+".jar")
		} else if !filepath.IsAbs(d.path) {
			d.path = filepath.Join(dir, d.path)
		}
		if err := register(d.name, d); err != nil {
			return nil, err
		}
		s.distributions = append(s.distributions, d)
	}
	for _, sec := range m.Libraries {
		libPath := sec.Path
		if libPath != "" && !filepath.IsAbs(libPath) {
			libPath = filepath.Join(dir, libPath)
		}
		if err := register(sec.Name, &Library{name: sec.Name, path: libPath}); err != nil {
			return nil, err
		}
	}
	for _, sec := range m.JDKLibraries {
		if err := register(sec.Name, &JDKLibrary{name: sec.Name, jdkVersion: sec.JDKVersion}); err != nil {
			return nil, err
		}
	}

	resolve := func(owner string, names []string) ([]javamodules.Artifact, error) {
		if len(names) == 0 {
			return nil, nil
		}
		deps := make([]javamodules.Artifact, 0, len(names))
		for _, name := range names {
			dep, ok := s.artifacts[name]
			if !ok {
				return nil, fmt.Errorf("%s: unknown dependency %q of %s", path, name, owner)
			}
			deps = append(deps, dep)
		}
		return deps, nil
	}

	for i, sec := range m.Projects {
		p := s.projects[i]
		if p.deps, err = resolve(p.name, sec.Deps); err != nil {
			return nil, err
		}
		if err := p.scan(sec); err != nil {
			return nil, err
		}
	}
	for i, sec := range m.Distributions {
		d := s.distributions[i]
		if d.deps, err = resolve(d.name, sec.Deps); err != nil {
			return nil, err
		}
		if d.moduleRoots, err = resolve(d.name, sec.ModuleDeps); err != nil {
			return nil, err
		}
	}

	if err := s.checkAcyclic(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, d := range s.distributions {
		d.computeParts()
	}
	return s, nil
}

// scan fills the project's package metadata by scanning its source dirs
// and merging in the explicitly declared packages and imports.
func (p *Project) scan(sec projectSection) error {
	projectDir := sec.Dir
	if projectDir == "" {
		projectDir = p.name
	}
	if !filepath.IsAbs(projectDir) {
		projectDir = filepath.Join(p.suite.Dir, projectDir)
	}
	sourceDirs := sec.SourceDirs
	if len(sourceDirs) == 0 {
		sourceDirs = []string{"src"}
	}
	dirs := make([]string, 0, len(sourceDirs))
	for _, sd := range sourceDirs {
		if !filepath.IsAbs(sd) {
			sd = filepath.Join(projectDir, sd)
		}
		dirs = append(dirs, sd)
	}

	defined, imported, pkgInfo, err := scanSources(dirs)
	if err != nil {
		return fmt.Errorf("scanning sources of %s: %w", p.name, err)
	}
	p.definedPackages = mergeSorted(defined, sec.Packages)
	p.importedPackages = mergeSorted(imported, sec.Imports)
	p.packageInfoPkgs = mergeSorted(pkgInfo, nil)
	return nil
}

// checkAcyclic rejects dependency cycles across all artifact kinds.
// Module roots are not graph edges: a distribution may name itself as a
// root to fold its own contents into the module.
func (s *Suite) checkAcyclic() error {
	const (
		white = iota
		grey
		black
	)
	state := make(map[string]int, len(s.artifacts))
	var stack []string
	var visit func(a javamodules.Artifact) error
	visit = func(a javamodules.Artifact) error {
		switch state[a.Name()] {
		case grey:
			return fmt.Errorf("dependency cycle: %s -> %s", strings.Join(stack, " -> "), a.Name())
		case black:
			return nil
		}
		state[a.Name()] = grey
		stack = append(stack, a.Name())
		for _, dep := range a.Deps() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[a.Name()] = black
		return nil
	}
	for _, p := range s.projects {
		if err := visit(p); err != nil {
			return err
		}
	}
	for _, d := range s.distributions {
		if err := visit(d); err != nil {
			return err
		}
	}
	return nil
}
