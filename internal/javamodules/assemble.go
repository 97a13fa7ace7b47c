package javamodules

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// compileModuleInfo renders the descriptor to module-info.java inside the
// staging directory and compiles it there with the platform's javac. Jars
// of module path members that shadow a platform module go on the upgrade
// module path so javac resolves against the shadowing version.
func (s *Session) compileModuleInfo(ctx context.Context, jmd *Descriptor, info Info, platformModules []*Descriptor, platform Platform) error {
	moduleInfo := filepath.Join(info.Dir, "module-info.java")
	if err := os.WriteFile(moduleInfo, []byte(jmd.ModuleInfoSource()), 0o644); err != nil {
		return err
	}

	platformNames := make([]string, 0, len(platformModules))
	for _, m := range platformModules {
		platformNames = append(platformNames, m.Name)
	}
	var modulepathJars, upgradeJars []string
	for _, m := range jmd.ModulePath {
		if m.ArchivePath == "" {
			continue
		}
		if slices.Contains(platformNames, m.Name) {
			upgradeJars = append(upgradeJars, m.ArchivePath)
		} else {
			modulepathJars = append(modulepathJars, m.ArchivePath)
		}
	}

	args := []string{"-d", info.Dir}
	if len(modulepathJars) != 0 {
		args = append(args, "--module-path", strings.Join(modulepathJars, string(os.PathListSeparator)))
	}
	if len(upgradeJars) != 0 {
		args = append(args, "--upgrade-module-path", strings.Join(upgradeJars, string(os.PathListSeparator)))
	}
	args = append(args, moduleInfo)
	return RunTool(ctx, platform.Javac(), args...)
}
