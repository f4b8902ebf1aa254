package forceconn

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrLoginFailed    = errors.New("login failed")
	ErrSessionTimeout = errors.New("session timeout")
	ErrQuery          = errors.New("query error")
	ErrCreate         = errors.New("create error")
	ErrUpdate         = errors.New("update error")
	ErrDelete         = errors.New("delete error")
)

// Fault codes reported by the remote service.
const (
	FaultInvalidLogin     = "INVALID_LOGIN"
	FaultInvalidSessionID = "INVALID_SESSION_ID"
)

// Fault is a structured remote-call failure returned by a Driver.
// Code usually carries a namespace prefix, e.g. "sf:INVALID_SESSION_ID".
type Fault struct {
	Code    string
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func hasFaultCode(err error, code string) bool {
	var f *Fault
	if !errors.As(err, &f) {
		return false
	}
	return strings.Contains(f.Code, code)
}

// IsInvalidSession reports whether err is a fault signalling an expired or
// invalid session id.
func IsInvalidSession(err error) bool {
	return hasFaultCode(err, FaultInvalidSessionID)
}

// IsInvalidLogin reports whether err is a fault signalling bad credentials.
func IsInvalidLogin(err error) bool {
	return hasFaultCode(err, FaultInvalidLogin)
}

// Error is the structured error returned by Connection operations.
// Results holds every per-item result of a batch call, in request order.
type Error struct {
	Kind    error
	Message string
	Results []Result
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Failed returns the results that did not succeed.
func (e *Error) Failed() []Result {
	var failed []Result
	for _, r := range e.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
