// Package supabase provides a schema.Catalog that reads declared object
// fields from a Supabase table.
package supabase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/creastat/forceconn/schema"
	"github.com/supabase-community/supabase-go"
)

const defaultTable = "object_fields"

// Config holds Supabase connection configuration.
// CacheTTL only bounds this client's cache; a schema.Resolver in front of it
// keeps its own tables unless built with schema.WithTableTTL.
type Config struct {
	URL      string
	APIKey   string
	Table    string        // Default: "object_fields"
	CacheTTL time.Duration // Default: 5 minutes
}

// FieldRow is one declared field of a remote object type.
type FieldRow struct {
	TypeName  string `json:"type_name"`
	FieldName string `json:"field_name"`
	Position  int    `json:"position"`
}

// Client implements schema.Catalog using Supabase
type Client struct {
	client   *supabase.Client
	table    string
	cache    *cache
	cacheTTL time.Duration
}

// cache provides thread-safe caching of field lists per type
type cache struct {
	mu     sync.RWMutex
	byType map[string]*cacheEntry
}

type cacheEntry struct {
	fields    []string
	expiresAt time.Time
}

// New creates a new Supabase catalog client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	if cfg.Table == "" {
		cfg.Table = defaultTable
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		client:   client,
		table:    cfg.Table,
		cacheTTL: cfg.CacheTTL,
		cache: &cache{
			byType: make(map[string]*cacheEntry),
		},
	}, nil
}

// Fields implements schema.Catalog. Fields are returned in declared position order.
func (c *Client) Fields(ctx context.Context, typeName string) ([]string, error) {
	if cached := c.getFromCache(typeName); cached != nil {
		return cached, nil
	}

	var rows []FieldRow
	_, err := c.client.From(c.table).
		Select("type_name,field_name,position", "", false).
		Eq("type_name", typeName).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get fields for %s: %w", typeName, err)
	}

	if len(rows) == 0 {
		return nil, schema.ErrUnknownType
	}

	fields := FieldNames(rows)
	c.addToCache(typeName, fields)
	return fields, nil
}

// Close closes the Supabase client
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// FieldNames orders rows by position and returns their field names.
// Rows sharing a position keep their original order.
func FieldNames(rows []FieldRow) []string {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b FieldRow) int {
		return a.Position - b.Position
	})

	fields := make([]string, len(sorted))
	for i, r := range sorted {
		fields[i] = r.FieldName
	}
	return fields
}

// getFromCache retrieves a field list from cache by type name
func (c *Client) getFromCache(typeName string) []string {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	if e, ok := c.cache.byType[typeName]; ok {
		if time.Now().Before(e.expiresAt) {
			return e.fields
		}
	}
	return nil
}

// addToCache adds a field list to cache
func (c *Client) addToCache(typeName string, fields []string) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.byType[typeName] = &cacheEntry{
		fields:    fields,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}

// Compile-time check that Client implements schema.Catalog
var _ schema.Catalog = (*Client)(nil)
