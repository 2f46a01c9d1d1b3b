package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DiskStore implements Store on the local filesystem.
// Entries live under baseDir/<version>/<key>.
type DiskStore struct {
	baseDir string
	version string
}

// NewDisk creates a new disk store for the given version tag
func NewDisk(baseDir, version string) *DiskStore {
	return &DiskStore{
		baseDir: baseDir,
		version: version,
	}
}

func (d *DiskStore) path(key string) string {
	return filepath.Join(d.baseDir, d.version, filepath.FromSlash(key))
}

// Init ensures the version directory exists
func (d *DiskStore) Init(ctx context.Context) error {
	return os.MkdirAll(filepath.Join(d.baseDir, d.version), 0755)
}

// Get retrieves stored data if the key is present
func (d *DiskStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores data under a key
func (d *DiskStore) Set(ctx context.Context, key string, data []byte) error {
	path := d.path(key)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	logrus.Debugf("Stored entry: %s", path)
	return nil
}

// Clear removes every entry of this version. Other versions under the same
// base directory are left untouched.
func (d *DiskStore) Clear(ctx context.Context) error {
	return os.RemoveAll(filepath.Join(d.baseDir, d.version))
}

// Version returns the version tag
func (d *DiskStore) Version() string {
	return d.version
}
