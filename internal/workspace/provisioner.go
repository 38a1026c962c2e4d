package workspace

// Provisioner creates the storage objects a namespace needs. All three
// operations are create-if-absent and safe to repeat.
type Provisioner interface {
	EnsureCatalog(catalog string) error
	EnsureSchema(catalog, schema string) error
	EnsureVolume(catalog, schema, volume string) error

	// VolumePath returns the directory datasets are written under.
	VolumePath(catalog, schema, volume string) string
}
