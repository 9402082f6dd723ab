// Package blob is the boundary to the external image store. The server only
// ever saves, removes and links blobs; everything else about storage is the
// collaborator's problem.
package blob

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store interface {
	// Save persists the content under a fresh name (keeping ext) and returns
	// the stored reference.
	Save(r io.Reader, ext string) (string, error)
	// Remove deletes a stored reference. Removing an unknown reference is
	// not an error.
	Remove(ref string) error
	// URL returns the public path for a stored reference.
	URL(ref string) string
}

// DiskStore keeps blobs in a local directory and serves them under baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(r io.Reader, ext string) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := uuid.New().String() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

func (s *DiskStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	// refs are bare names; never let one climb out of the directory
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DiskStore) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.baseURL + "/" + ref
}

var _ Store = (*DiskStore)(nil)
