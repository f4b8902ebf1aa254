// Package forceconn is a session-managing client for a session-authenticated
// CRM RPC service. A Connection logs in once, injects session headers into
// every call, and transparently re-authenticates and retries calls when the
// service reports that the session expired.
package forceconn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/creastat/forceconn/schema"
)

// Connection is an authenticated connection to the remote service.
// It is safe for concurrent use; calls on the Driver are serialized.
type Connection struct {
	cfg      Config
	driver   Driver
	sessions *sessionManager
	resolver *schema.Resolver
	builder  *ObjectBuilder
}

// New creates a Connection and logs in immediately. It fails with
// ErrLoginFailed when the service rejects the credentials.
func New(ctx context.Context, cfg Config, driver Driver, opts ...Option) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, fmt.Errorf("%w: driver is required", ErrInvalidConfig)
	}

	username, err := url.PathUnescape(cfg.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode username: %v", ErrInvalidConfig, err)
	}
	cfg.Username = username

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.catalog == nil {
		o.catalog = schema.StaticCatalog{}
	}

	resolver := schema.NewResolver(o.catalog, schema.WithTableTTL(o.ttl))
	c := &Connection{
		cfg:    cfg,
		driver: driver,
		sessions: &sessionManager{
			driver:         driver,
			username:       cfg.Username,
			password:       cfg.Password,
			organizationID: cfg.OrganizationID,
			store:          o.store,
			logger:         o.logger,
		},
		resolver: resolver,
		builder:  NewObjectBuilder(resolver),
	}

	if _, err := c.sessions.ensureSession(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Query runs a query. Faults other than an expired session are returned as
// an *Error of kind ErrQuery with no results.
func (c *Connection) Query(ctx context.Context, queryString string) (*QueryResult, error) {
	var result *QueryResult
	err := c.sessions.withReconnection(ctx, func(ctx context.Context) error {
		r, err := c.driver.Query(ctx, queryString)
		result = r
		return err
	})
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			return nil, err
		}
		var f *Fault
		if errors.As(err, &f) {
			return nil, &Error{Kind: ErrQuery, Message: f.Message, Results: []Result{}, Err: err}
		}
		return nil, err
	}
	return result, nil
}

// Create creates objects. If any item fails the whole batch is reported as
// an *Error of kind ErrCreate.
func (c *Connection) Create(ctx context.Context, objects []*Object) ([]Result, error) {
	return c.callAPI(ctx, ErrCreate, "creating", func(ctx context.Context) ([]Result, error) {
		return c.driver.Create(ctx, objects)
	})
}

// Update updates objects. If any item fails the whole batch is reported as
// an *Error of kind ErrUpdate.
func (c *Connection) Update(ctx context.Context, objects []*Object) ([]Result, error) {
	return c.callAPI(ctx, ErrUpdate, "updating", func(ctx context.Context) ([]Result, error) {
		return c.driver.Update(ctx, objects)
	})
}

// Delete deletes the objects with the given ids. If any item fails the whole
// batch is reported as an *Error of kind ErrDelete.
func (c *Connection) Delete(ctx context.Context, ids []string) ([]Result, error) {
	return c.callAPI(ctx, ErrDelete, "deleting", func(ctx context.Context) ([]Result, error) {
		return c.driver.Delete(ctx, ids)
	})
}

func (c *Connection) callAPI(ctx context.Context, kind error, verb string, call func(context.Context) ([]Result, error)) ([]Result, error) {
	var results []Result
	err := c.sessions.withReconnection(ctx, func(ctx context.Context) error {
		r, err := call(ctx)
		if err != nil {
			return err
		}
		results, err = Aggregate(r, fmt.Sprintf("got some errors while %s objects", verb), kind)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MakeObject builds an object of typeName from logical field names.
func (c *Connection) MakeObject(ctx context.Context, typeName string, values []Field) (*Object, error) {
	return c.builder.Build(ctx, typeName, values)
}

// FieldNameFor resolves a logical column name to a field of typeName.
func (c *Connection) FieldNameFor(ctx context.Context, typeName, column string) (string, error) {
	return c.resolver.Resolve(ctx, typeName, column)
}

// Session returns the current session, or nil after a failed re-login.
func (c *Connection) Session() *Session {
	return c.sessions.snapshot()
}

// UserID returns the id of the logged-in user.
func (c *Connection) UserID() string {
	if s := c.Session(); s != nil {
		return s.UserID
	}
	return ""
}

// UserDetails returns details of the logged-in user.
func (c *Connection) UserDetails() UserInfo {
	if s := c.Session(); s != nil {
		return s.UserDetails
	}
	return UserInfo{}
}

// OrganizationID returns the organization of the logged-in user.
func (c *Connection) OrganizationID() string {
	return c.UserDetails().OrganizationID
}

// WSDLPath returns the location of the schema definition.
func (c *Connection) WSDLPath() string { return c.cfg.WSDLPath }

// APIDir returns the directory of the generated schema bindings.
func (c *Connection) APIDir() string { return c.cfg.APIDir }

// Close releases the session store, if any. The remote session is left to
// expire so that it can be reused from the cache.
func (c *Connection) Close() error {
	if c.sessions.store == nil {
		return nil
	}
	return c.sessions.store.Close()
}
