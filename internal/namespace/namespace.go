package namespace

import (
	"errors"
	"fmt"
	"regexp"
)

// Namespace scopes all storage objects to one workshop attendee: a dedicated
// catalog, a schema inside it, and a file volume inside that.
type Namespace struct {
	User    string
	Catalog string
	Schema  string
	Volume  string
}

const (
	DefaultCatalogPrefix = "dlt_workshop"
	DefaultSchema        = "finance"
	DefaultVolume        = "_files"
)

var unsafeChars = regexp.MustCompile(`[^0-9a-zA-Z]`)

// Sanitize maps an opaque identity string onto a catalog-safe identifier:
// every character outside [0-9a-zA-Z] becomes a single underscore.
func Sanitize(identity string) string {
	return unsafeChars.ReplaceAllString(identity, "_")
}

// Resolve derives the attendee namespace from an identity string. Every
// downstream storage path hangs off the result, so a missing identity is
// fatal to the whole run.
func Resolve(identity, catalogPrefix, schema, volume string) (*Namespace, error) {
	if identity == "" {
		return nil, errors.New("caller identity is required and could not be resolved")
	}
	if catalogPrefix == "" {
		catalogPrefix = DefaultCatalogPrefix
	}
	if schema == "" {
		schema = DefaultSchema
	}
	if volume == "" {
		volume = DefaultVolume
	}

	user := Sanitize(identity)
	return &Namespace{
		User:    user,
		Catalog: fmt.Sprintf("%s_%s", catalogPrefix, user),
		Schema:  schema,
		Volume:  volume,
	}, nil
}
