package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalProvisioner maps catalogs, schemas and volumes onto a directory tree
// under a volumes root, mirroring the /Volumes/<catalog>/<schema>/<volume>
// layout the workshop notebooks read from.
type LocalProvisioner struct {
	root string
}

func NewLocalProvisioner(root string) *LocalProvisioner {
	return &LocalProvisioner{root: root}
}

func (p *LocalProvisioner) EnsureCatalog(catalog string) error {
	return p.ensureDir(filepath.Join(p.root, catalog), "catalog", catalog)
}

func (p *LocalProvisioner) EnsureSchema(catalog, schema string) error {
	return p.ensureDir(filepath.Join(p.root, catalog, schema), "schema", schema)
}

func (p *LocalProvisioner) EnsureVolume(catalog, schema, volume string) error {
	return p.ensureDir(filepath.Join(p.root, catalog, schema, volume), "volume", volume)
}

func (p *LocalProvisioner) VolumePath(catalog, schema, volume string) string {
	return filepath.Join(p.root, catalog, schema, volume)
}

func (p *LocalProvisioner) ensureDir(path, kind, name string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create %s %s: %w", kind, name, err)
	}
	return nil
}
