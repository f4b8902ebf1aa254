// Package schema resolves logical column names to the concrete field
// identifiers declared on remote object types.
package schema

import (
	"context"
	"errors"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrUnknownType   = errors.New("unknown object type")
)

// Catalog lists the fields declared directly on a remote object type, in
// declaration order. It returns ErrUnknownType for types it does not know.
type Catalog interface {
	Fields(ctx context.Context, typeName string) ([]string, error)
}

// StaticCatalog is an in-memory Catalog keyed by type name.
type StaticCatalog map[string][]string

// Fields implements Catalog.
func (c StaticCatalog) Fields(ctx context.Context, typeName string) ([]string, error) {
	fields, ok := c[typeName]
	if !ok {
		return nil, ErrUnknownType
	}
	return fields, nil
}
