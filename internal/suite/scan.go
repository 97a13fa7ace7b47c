package suite

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	packageRe = regexp.MustCompile(`^\s*package\s+([\w.]+)\s*;`)
	importRe  = regexp.MustCompile(`^\s*import\s+(static\s+)?([\w.]+(\.\*)?)\s*;`)
)

// scanSources walks Java source dirs and extracts the packages they
// define, the packages their imports reach into and the packages carrying
// a package-info.java. Missing dirs are skipped.
func scanSources(dirs []string) (defined, imported, pkgInfo []string, err error) {
	definedSet := make(map[string]struct{})
	importedSet := make(map[string]struct{})
	pkgInfoSet := make(map[string]struct{})

	for _, dir := range dirs {
		if _, statErr := os.Stat(dir); errors.Is(statErr, os.ErrNotExist) {
			continue
		}
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || filepath.Ext(path) != ".java" {
				return nil
			}
			return scanJavaFile(path, definedSet, importedSet, pkgInfoSet)
		})
		if walkErr != nil {
			return nil, nil, nil, walkErr
		}
	}
	return setToSorted(definedSet), setToSorted(importedSet), setToSorted(pkgInfoSet), nil
}

func scanJavaFile(path string, defined, imported, pkgInfo map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	isPackageInfo := filepath.Base(path) == "package-info.java"
	scanner := bufio.NewScanner(f)
	inComment := false
	for scanner.Scan() {
		line := scanner.Text()
		line, inComment = stripComments(line, inComment)
		if m := packageRe.FindStringSubmatch(line); m != nil {
			defined[m[1]] = struct{}{}
			if isPackageInfo {
				pkgInfo[m[1]] = struct{}{}
			}
			continue
		}
		if m := importRe.FindStringSubmatch(line); m != nil {
			if pkg := importedPackage(m[2]); pkg != "" {
				imported[pkg] = struct{}{}
			}
		}
	}
	return scanner.Err()
}

// stripComments removes // and /* */ comment text from one line, tracking
// whether a block comment continues onto the next line.
func stripComments(line string, inComment bool) (string, bool) {
	var b strings.Builder
	i := 0
	for i < len(line) {
		if inComment {
			end := strings.Index(line[i:], "*/")
			if end < 0 {
				return b.String(), true
			}
			i += end + 2
			inComment = false
			continue
		}
		lineIdx := strings.Index(line[i:], "//")
		blockIdx := strings.Index(line[i:], "/*")
		if lineIdx >= 0 && (blockIdx < 0 || lineIdx < blockIdx) {
			b.WriteString(line[i : i+lineIdx])
			return b.String(), false
		}
		if blockIdx >= 0 {
			b.WriteString(line[i : i+blockIdx])
			i += blockIdx + 2
			inComment = true
			continue
		}
		b.WriteString(line[i:])
		break
	}
	return b.String(), inComment
}

// importedPackage maps an import declaration to the package it reaches
// into. Segments from the first capitalized one belong to a type, so
// "a.b.C" and "static a.b.C.d" both resolve to "a.b"; a wildcard without
// a type segment names the package itself.
func importedPackage(path string) string {
	path, wildcard := strings.CutSuffix(path, ".*")
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		r, _ := utf8.DecodeRuneInString(seg)
		if unicode.IsUpper(r) {
			return strings.Join(segs[:i], ".")
		}
	}
	if wildcard {
		return path
	}
	if len(segs) <= 1 {
		return ""
	}
	return strings.Join(segs[:len(segs)-1], ".")
}

func setToSorted(set map[string]struct{}) []string {
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

// mergeSorted combines scanned values with explicitly declared ones into
// one sorted, deduplicated list.
func mergeSorted(scanned, declared []string) []string {
	if len(declared) == 0 {
		return scanned
	}
	set := make(map[string]struct{}, len(scanned)+len(declared))
	for _, v := range scanned {
		set[v] = struct{}{}
	}
	for _, v := range declared {
		set[v] = struct{}{}
	}
	return setToSorted(set)
}
