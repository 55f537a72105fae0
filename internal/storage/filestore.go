package storage

import (
	"fmt"
	"io"
	"path"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
)

// Prefixes under which uploads are kept
const (
	StructuresPrefix = "structures"
	DocumentsPrefix  = "documents"
)

// FileStore persists raw uploaded bytes and hands back a relative path
type FileStore struct {
	fs billy.Filesystem
}

// NewFileStore creates a store on top of an existing filesystem
func NewFileStore(fs billy.Filesystem) *FileStore {
	return &FileStore{fs: fs}
}

// NewDiskStore creates a store rooted at a directory on disk
func NewDiskStore(root string) *FileStore {
	return NewFileStore(osfs.New(root))
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore() *FileStore {
	return NewFileStore(memfs.New())
}

// Save writes content to <prefix>/<uuid>_<basename> and returns that path
func (s *FileStore) Save(prefix, filename string, content []byte) (string, error) {
	if err := s.fs.MkdirAll(prefix, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", prefix, err)
	}

	name := path.Join(prefix, uuid.NewString()+"_"+baseName(filename))
	if err := util.WriteFile(s.fs, name, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	return name, nil
}

// Open opens a stored file for reading
func (s *FileStore) Open(name string) (io.ReadCloser, error) {
	return s.fs.Open(name)
}

// Remove deletes a stored file
func (s *FileStore) Remove(name string) error {
	return s.fs.Remove(name)
}

// baseName strips any client-supplied directories, including Windows ones
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload.xml"
	}
	return name
}
