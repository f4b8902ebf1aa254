package schema

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Resolver maps logical column names onto declared field identifiers.
// Lookup tables are built once per type and cached. Without a TTL they are
// kept until Invalidate is called.
type Resolver struct {
	catalog Catalog
	ttl     time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	tables map[string]*fieldTable
}

// fieldTable indexes a type's fields by lower-cased name. Each name keeps
// the position of its first declaration.
type fieldTable struct {
	fields    []string
	index     map[string]int
	expiresAt time.Time
}

// ResolverOption is a functional option for configuring a Resolver.
type ResolverOption func(*Resolver)

// WithTableTTL reloads a type's fields from the catalog once its table is
// older than ttl. Use it with catalogs whose contents change, such as the
// Supabase catalog.
func WithTableTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.ttl = ttl
	}
}

// NewResolver creates a Resolver backed by catalog.
func NewResolver(catalog Catalog, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		catalog: catalog,
		now:     time.Now,
		tables:  make(map[string]*fieldTable),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns the naming conventions tried for column: the name
// itself, its camel-cased form and its lower-cased custom field form.
func Candidates(column string) []string {
	return []string{column, Camelize(column), strings.ToLower(column + "__c")}
}

// Resolve returns the field on typeName matching column. When more than one
// field matches, the first one declared wins.
func (r *Resolver) Resolve(ctx context.Context, typeName, column string) (string, error) {
	table, err := r.table(ctx, typeName)
	if err != nil {
		return "", err
	}

	candidates := Candidates(column)
	best := -1
	for _, c := range candidates {
		pos, ok := table.index[strings.ToLower(c)]
		if ok && (best < 0 || pos < best) {
			best = pos
		}
	}
	if best < 0 {
		return "", fmt.Errorf("%w: you specified %s as a field, but neither %s exist; "+
			"either specify the field name explicitly, or check that the field name is correct",
			ErrFieldNotFound, column, strings.Join(candidates, " or "))
	}
	return table.fields[best], nil
}

// Invalidate drops the cached table for typeName.
func (r *Resolver) Invalidate(typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tables, typeName)
}

func (r *Resolver) table(ctx context.Context, typeName string) (*fieldTable, error) {
	r.mu.RLock()
	t, ok := r.tables[typeName]
	r.mu.RUnlock()
	if ok && (t.expiresAt.IsZero() || r.now().Before(t.expiresAt)) {
		return t, nil
	}

	fields, err := r.catalog.Fields(ctx, typeName)
	if err != nil {
		return nil, fmt.Errorf("failed to load fields for %s: %w", typeName, err)
	}

	t = &fieldTable{
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	if r.ttl > 0 {
		t.expiresAt = r.now().Add(r.ttl)
	}
	for i, f := range fields {
		key := strings.ToLower(f)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}

	r.mu.Lock()
	r.tables[typeName] = t
	r.mu.Unlock()
	return t, nil
}

// Camelize converts an underscored name to UpperCamelCase:
// "first_name" becomes "FirstName". The first character and every character
// following an underscore are upper-cased and the underscore is dropped.
func Camelize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	var b strings.Builder
	b.WriteRune(unicode.ToUpper(runes[0]))
	for i := 1; i < len(runes); i++ {
		if runes[i] == '_' && i+1 < len(runes) {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}
