package fs

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OSFileSystem reads and writes below a root directory.
type OSFileSystem struct {
	root string
}

func NewOSFileSystem(root string) *OSFileSystem {
	if root == "" {
		root = "."
	}
	return &OSFileSystem{root: root}
}

func (fs *OSFileSystem) Root() string {
	return fs.root
}

// resolve rejects paths that would leave the root.
func (fs *OSFileSystem) resolve(path string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if !iofs.ValidPath(filepath.ToSlash(rel)) {
		return "", fmt.Errorf("invalid path %q", path)
	}
	return filepath.Join(fs.root, rel), nil
}

func (fs *OSFileSystem) ReadFile(path string) ([]byte, error) {
	full, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

func (fs *OSFileSystem) ReadDir(path string) ([]iofs.DirEntry, error) {
	full, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(full)
}

func (fs *OSFileSystem) FileExists(path string) bool {
	full, err := fs.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

func (fs *OSFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	return os.WriteFile(full, data, perm)
}

func (fs *OSFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, perm)
}

func (fs *OSFileSystem) Remove(path string) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// CopyFile copies src, a path outside the root, to dst below it.
func (fs *OSFileSystem) CopyFile(src, dst string) error {
	target, err := fs.resolve(dst)
	if err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.Chmod(target, srcInfo.Mode())
}
