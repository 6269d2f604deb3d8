package graphstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// FileStore keeps objects as plain files under Dir. An empty Dir treats
// object names as paths relative to the working directory, which is the
// default for exports named at the call site.
type FileStore struct {
	Dir string
}

func (f *FileStore) path(name string) string {
	if f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// Put writes a file, creating parent directories as needed.
func (f *FileStore) Put(_ context.Context, name string) (io.WriteCloser, error) {
	p := f.path(name)
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(p)
}

// Get opens a file for reading. A missing file maps to
// ErrObjectNotFound.
func (f *FileStore) Get(_ context.Context, name string) (ReadSizeCloser, error) {
	fh, err := os.Open(f.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, err
	}
	return &fileReader{File: fh, size: info.Size()}, nil
}

type fileReader struct {
	*os.File
	size int64
}

func (f *fileReader) Size() int64 {
	return f.size
}
