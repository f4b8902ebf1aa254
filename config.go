package forceconn

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/creastat/forceconn/schema"
	"github.com/creastat/forceconn/session"
	"gopkg.in/yaml.v3"
)

// Config holds the credentials and schema locations of a Connection.
type Config struct {
	// Username may be percent-encoded; it is decoded before login.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// OrganizationID scopes the login to one organization. Optional.
	OrganizationID string `yaml:"organization_id"`

	// WSDLPath and APIDir locate the schema definition and the generated
	// bindings the Driver was built from.
	WSDLPath string `yaml:"wsdl_path"`
	APIDir   string `yaml:"api_dir"`
}

// Validate checks that the required fields are set.
func (c Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidConfig)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a YAML config file. ${VAR} references are expanded from
// the environment before parsing.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Option is a functional option for configuring a Connection.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	store   session.Store
	catalog schema.Catalog
	ttl     time.Duration
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSessionStore caches sessions in store so that later connections for
// the same user can skip the login round trip.
func WithSessionStore(store session.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCatalog sets the catalog used to resolve field names.
func WithCatalog(catalog schema.Catalog) Option {
	return func(o *options) {
		o.catalog = catalog
	}
}

// WithFieldCacheTTL makes resolved field tables expire after ttl so that
// catalog changes are picked up. Without it tables are cached for the life of
// the Connection.
func WithFieldCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}
