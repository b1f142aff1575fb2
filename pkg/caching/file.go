package caching

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/qgc-crawler/models"
)

const entryExt = ".yaml"

// FileStore keeps one YAML file per fingerprint in a directory. Entries do
// not expire.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore.
// The cache path will be created if it doesn't exist.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, models.CacheIOError("create cache directory", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) file(fingerprint string) (string, error) {
	if fingerprint == "" || strings.ContainsAny(fingerprint, `/\.`) {
		return "", models.CacheIOError(fmt.Sprintf("invalid fingerprint %q", fingerprint), nil)
	}
	return filepath.Join(f.path, fingerprint+entryExt), nil
}

// Get retrieves an entry. A missing file is a miss, not an error.
func (f *FileStore) Get(ctx context.Context, fingerprint string) (Entry, bool, error) {
	filePath, err := f.file(fingerprint)
	if err != nil {
		return Entry{}, false, err
	}

	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, models.CacheIOError("read cache entry", err)
	}

	var e Entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return Entry{}, false, models.CacheIOError("decode cache entry", err)
	}
	return e, true, nil
}

// Put writes the entry to a temp file and links it into place, so concurrent
// writers of the same fingerprint cannot clobber the first one.
func (f *FileStore) Put(ctx context.Context, fingerprint string, e Entry) error {
	filePath, err := f.file(fingerprint)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filePath); err == nil {
		return nil
	}

	data, err := yaml.Marshal(e)
	if err != nil {
		return models.CacheIOError("encode cache entry", err)
	}

	tmp, err := os.CreateTemp(f.path, fingerprint+".*.tmp")
	if err != nil {
		return models.CacheIOError("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return models.CacheIOError("write cache entry", err)
	}
	if err := tmp.Close(); err != nil {
		return models.CacheIOError("close cache entry", err)
	}

	if err := os.Link(tmp.Name(), filePath); err != nil && !errors.Is(err, os.ErrExist) {
		return models.CacheIOError("publish cache entry", err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, fingerprint string) error {
	filePath, err := f.file(fingerprint)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.CacheIOError("delete cache entry", err)
	}
	return nil
}

// Clear removes every entry file; other files in the directory are left alone.
func (f *FileStore) Clear(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(f.path, "*"+entryExt))
	if err != nil {
		return models.CacheIOError("list cache entries", err)
	}
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return models.CacheIOError("delete cache entry", err)
		}
	}
	return nil
}
