package jdk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mikepapadim/mx/internal/javamodules"
)

// inventorySchema is bumped when the cache file layout changes; stale
// files read as missing.
const inventorySchema = 1

type inventoryFile struct {
	Schema  int             `yaml:"schema"`
	Release int             `yaml:"release"`
	Modules []inventoryItem `yaml:"modules"`
}

type inventoryItem struct {
	Name     string              `yaml:"name"`
	Packages []string            `yaml:"packages,omitempty"`
	Exports  map[string][]string `yaml:"exports,omitempty"`
	Requires map[string][]string `yaml:"requires,omitempty"`
	Uses     []string            `yaml:"uses,omitempty"`
	Provides map[string][]string `yaml:"provides,omitempty"`
}

// Modules returns the platform-module inventory, probing the installation
// on first use. Probed inventories are cached on disk per release, so
// later sessions skip the launcher runs.
func (c *Config) Modules(ctx context.Context) ([]*javamodules.Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modules != nil {
		return c.modules, nil
	}

	path, err := c.inventoryPath()
	if err != nil {
		return nil, err
	}
	if modules := readInventory(path, c.release); modules != nil {
		c.modules = modules
		return modules, nil
	}

	modules, err := c.probeModules(ctx)
	if err != nil {
		return nil, err
	}
	// Cache write is best effort; the probe result stands either way.
	_ = writeInventory(path, c.release, modules)
	c.modules = modules
	return modules, nil
}

func (c *Config) inventoryPath() (string, error) {
	dir := c.CacheDir
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "mx")
	}
	return filepath.Join(dir, fmt.Sprintf("jdk%d-modules.yaml", c.release)), nil
}

// readInventory loads a cached inventory. Any miss (no file, stale
// schema, another release, undecodable content) returns nil and the
// platform gets probed again.
func readInventory(path string, release int) []*javamodules.Descriptor {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var file inventoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil
	}
	if file.Schema != inventorySchema || file.Release != release || len(file.Modules) == 0 {
		return nil
	}
	modules := make([]*javamodules.Descriptor, 0, len(file.Modules))
	for _, item := range file.Modules {
		jmd, err := javamodules.NewDescriptor(javamodules.Descriptor{
			Name:     item.Name,
			Packages: listToSet(item.Packages),
			Exports:  item.Exports,
			Requires: item.Requires,
			Uses:     listToSet(item.Uses),
			Provides: item.Provides,
			Platform: true,
		})
		if err != nil {
			return nil
		}
		modules = append(modules, jmd)
	}
	return modules
}

func writeInventory(path string, release int, modules []*javamodules.Descriptor) error {
	file := inventoryFile{
		Schema:  inventorySchema,
		Release: release,
		Modules: make([]inventoryItem, 0, len(modules)),
	}
	for _, jmd := range modules {
		file.Modules = append(file.Modules, inventoryItem{
			Name:     jmd.Name,
			Packages: setToList(jmd.Packages),
			Exports:  jmd.Exports,
			Requires: jmd.Requires,
			Uses:     setToList(jmd.Uses),
			Provides: jmd.Provides,
		})
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}

func setToList(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func listToSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	return set
}
