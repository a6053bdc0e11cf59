package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"strings"
)

var errReadOnly = errors.New("embedded filesystem is read-only")

// EmbedFileSystem serves a read-only fs.FS, usually an embed.FS holding the
// built client.
type EmbedFileSystem struct {
	fs iofs.FS
}

// NewEmbedFileSystem roots fsys at dir; an empty dir keeps it as is.
func NewEmbedFileSystem(fsys iofs.FS, dir string) (*EmbedFileSystem, error) {
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return &EmbedFileSystem{fs: fsys}, nil
	}
	sub, err := iofs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("embedded dir %s: %w", dir, err)
	}
	return &EmbedFileSystem{fs: sub}, nil
}

func (fs *EmbedFileSystem) ReadFile(path string) ([]byte, error) {
	return iofs.ReadFile(fs.fs, clean(path))
}

func (fs *EmbedFileSystem) ReadDir(path string) ([]iofs.DirEntry, error) {
	return iofs.ReadDir(fs.fs, clean(path))
}

func (fs *EmbedFileSystem) FileExists(path string) bool {
	info, err := iofs.Stat(fs.fs, clean(path))
	return err == nil && !info.IsDir()
}

func (fs *EmbedFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	return errReadOnly
}

func (fs *EmbedFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	return errReadOnly
}

func (fs *EmbedFileSystem) Remove(path string) error {
	return errReadOnly
}

func clean(path string) string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "."
	}
	return path
}
