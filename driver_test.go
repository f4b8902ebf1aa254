package forceconn

import (
	"context"
	"fmt"
)

// fakeDriver is a scripted Driver. faults[i] is returned by the i-th
// non-login call; calls past the end of faults succeed.
type fakeDriver struct {
	loginErrs    []error
	loginCalls   int
	loginUser    string
	loginHeaders [][]Header

	headers  []Header
	endpoint string

	faults       []error
	calls        int
	callSessions []string

	results     []Result
	queryResult *QueryResult
	created     [][]*Object
	deleted     [][]string
}

func (d *fakeDriver) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	n := d.loginCalls
	d.loginCalls++
	d.loginUser = username
	d.loginHeaders = append(d.loginHeaders, d.headers)
	if n < len(d.loginErrs) && d.loginErrs[n] != nil {
		return nil, d.loginErrs[n]
	}
	return &LoginResult{
		SessionID: fmt.Sprintf("session-%d", d.loginCalls),
		ServerURL: fmt.Sprintf("https://na%d.example.com/services/Soap/c/20.0", d.loginCalls),
		UserID:    "005xx0000012345",
		UserInfo:  UserInfo{OrganizationID: "00Dxx0000001gEF", UserName: username},
	}, nil
}

func (d *fakeDriver) next() error {
	i := d.calls
	d.calls++
	d.callSessions = append(d.callSessions, d.sessionID())
	if i < len(d.faults) {
		return d.faults[i]
	}
	return nil
}

func (d *fakeDriver) sessionID() string {
	for _, h := range d.headers {
		if h.Name == HeaderSession {
			return h.Fields["sessionId"]
		}
	}
	return ""
}

func (d *fakeDriver) Query(ctx context.Context, queryString string) (*QueryResult, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	return d.queryResult, nil
}

func (d *fakeDriver) Create(ctx context.Context, objects []*Object) ([]Result, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	d.created = append(d.created, objects)
	return d.results, nil
}

func (d *fakeDriver) Update(ctx context.Context, objects []*Object) ([]Result, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	return d.results, nil
}

func (d *fakeDriver) Delete(ctx context.Context, ids []string) ([]Result, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	d.deleted = append(d.deleted, ids)
	return d.results, nil
}

func (d *fakeDriver) SetHeaders(headers []Header) { d.headers = headers }

func (d *fakeDriver) SetEndpoint(url string) { d.endpoint = url }

func headerNames(headers []Header) []string {
	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = h.Name
	}
	return names
}

func invalidSession() error {
	return &Fault{Code: "sf:INVALID_SESSION_ID", Message: "Invalid Session ID found in SessionHeader: Illegal Session"}
}

func repeat(err error, n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = err
	}
	return errs
}
