// Package archive packs and unpacks the jar-style zip archives module
// synthesis works with.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// Unpack extracts src into dstDir and returns the entry names in archive
// order, slash-separated. Extracting several archives into the same
// directory overwrites earlier contents entry by entry. An entry that
// would escape dstDir fails the extraction.
func Unpack(src, dstDir string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
		destPath := filepath.Join(dstDir, filepath.FromSlash(f.Name))
		relPath, err := filepath.Rel(dstDir, destPath)
		if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(os.PathSeparator)) {
			return nil, fmt.Errorf("%s: entry escapes the target directory: %s", src, f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return nil, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return nil, err
		}
		if err := extractFile(f, destPath); err != nil {
			return nil, fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return names, nil
}

func extractFile(f *zip.File, destPath string) error {
	if _, err := safecast.Conv[int64](f.UncompressedSize64); err != nil {
		return fmt.Errorf("entry too large: %w", err)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		// Entries written without unix metadata.
		mode = 0o644
	}
	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, rc); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Pack archives the contents of srcDir into a zip file at dst, walking
// the tree in lexical order. The archive is staged as a temp file next to
// dst and promoted with a rename, so a failed pack never leaves a
// truncated archive behind.
func Pack(srcDir, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "tmp-*")
	if err != nil {
		return err
	}
	zw := zip.NewWriter(tmp)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		zipPath := filepath.ToSlash(relPath)
		if d.IsDir() {
			_, err := zw.Create(zipPath + "/")
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = zipPath
		header.Method = zip.Deflate
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		closeErr := src.Close()
		if err != nil {
			return err
		}
		return closeErr
	})
	if walkErr != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmp.Name())
		return walkErr
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
