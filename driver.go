package forceconn

import "context"

// Header names installed on outbound calls.
const (
	HeaderLoginScope  = "LoginScopeHeader"
	HeaderSession     = "SessionHeader"
	HeaderCallOptions = "CallOptions"

	clientName = "client"
)

// Header is a named outbound header with typed fields.
type Header struct {
	Name   string
	Fields map[string]string
}

// LoginResult is returned by a successful Driver login.
type LoginResult struct {
	SessionID string
	ServerURL string
	UserID    string
	UserInfo  UserInfo
}

// UserInfo describes the logged-in user.
type UserInfo struct {
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name,omitempty"`
	UserName         string `json:"user_name,omitempty"`
	UserEmail        string `json:"user_email,omitempty"`
}

// QueryResult is the record set returned by a query.
type QueryResult struct {
	Size         int
	Done         bool
	QueryLocator string
	Records      []*Object
}

// Result is the outcome of one item in a batch create, update or delete.
type Result struct {
	ID      string
	Success bool
	Errors  []ResultError
}

// ResultError is a diagnostic attached to a failed Result.
type ResultError struct {
	StatusCode string
	Message    string
	Fields     []string
}

// Driver is the RPC transport the Connection sits on. Implementations
// marshal calls to the remote service and report remote failures as *Fault.
//
// SetHeaders replaces the full header set sent on every subsequent call.
// SetEndpoint replaces the target endpoint URL.
type Driver interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Query(ctx context.Context, queryString string) (*QueryResult, error)
	Create(ctx context.Context, objects []*Object) ([]Result, error)
	Update(ctx context.Context, objects []*Object) ([]Result, error)
	Delete(ctx context.Context, ids []string) ([]Result, error)

	SetHeaders(headers []Header)
	SetEndpoint(url string)
}
