// Package fsys provides the filesystem access used by tag validation and
// dispatch. It wraps go-billy so the release flow can run against the real
// working tree in production and an in-memory tree in tests.
package fsys

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FS wraps a go-billy filesystem with the operations the release flow needs.
type FS struct {
	fs billy.Filesystem
}

// NewFS creates an FS over the given go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{fs: fsys}
}

// NewOSFS creates an FS rooted at the given OS path.
func NewOSFS(root string) *FS {
	return &FS{fs: osfs.New(root)}
}

// NewInMemoryFS creates an in-memory FS, used by tests.
func NewInMemoryFS() *FS {
	return &FS{fs: memfs.New()}
}

// Exists reports whether the path exists.
func (f *FS) Exists(p string) (bool, error) {
	_, err := f.fs.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("fsys: stat %q: %w", p, err)
	}
}

// DirExists reports whether the path exists and is a directory.
func (f *FS) DirExists(p string) (bool, error) {
	info, err := f.fs.Stat(p)
	switch {
	case err == nil:
		return info.IsDir(), nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("fsys: stat %q: %w", p, err)
	}
}

// MkdirAll creates the directory and any missing parents. Creating an
// existing directory succeeds.
func (f *FS) MkdirAll(p string, perm os.FileMode) error {
	if err := f.fs.MkdirAll(p, perm); err != nil {
		return fmt.Errorf("fsys: mkdirall %q: %w", p, err)
	}
	return nil
}

// RemoveAll removes the path and any children it contains.
func (f *FS) RemoveAll(p string) error {
	if err := util.RemoveAll(f.fs, p); err != nil {
		return fmt.Errorf("fsys: removeall %q: %w", p, err)
	}
	return nil
}

// WriteFile writes data to the named file, creating parent directories as
// needed. Used by tests to lay out fixture trees.
func (f *FS) WriteFile(p string, data []byte, perm os.FileMode) error {
	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("fsys: mkdirall %q: %w", dir, err)
		}
	}
	if err := util.WriteFile(f.fs, p, data, perm); err != nil {
		return fmt.Errorf("fsys: writefile %q: %w", p, err)
	}
	return nil
}

// ListWithExt returns the names of regular files directly inside dir whose
// name ends with ext, in lexical order. The listing is non-recursive;
// subdirectories are ignored.
func (f *FS) ListWithExt(dir, ext string) ([]string, error) {
	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fsys: readdir %q: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ext) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
