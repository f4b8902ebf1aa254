package forceconn

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/creastat/forceconn/session"
)

// maxReconnects is the number of times a call is retried after the
// service reports an invalid session.
const maxReconnects = 5

// Session is an authenticated session issued by the remote service.
// A Session is never modified; re-login replaces it.
type Session struct {
	ID          string
	ServerURL   string
	UserID      string
	UserDetails UserInfo
}

// sessionManager owns the session of one Connection. mu serializes every
// call on the Driver, since login rewrites the Driver's endpoint and headers.
type sessionManager struct {
	driver         Driver
	username       string
	password       string
	organizationID string
	store          session.Store
	logger         *slog.Logger

	mu      sync.Mutex
	current *Session
}

// ensureSession returns the current session, logging in if there is none.
func (m *sessionManager) ensureSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ensureLocked(ctx)
}

// snapshot returns the current session without logging in.
func (m *sessionManager) snapshot() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// withReconnection runs op, re-logging in and retrying it while the service
// reports an invalid session. Any other error is returned unchanged.
func (m *sessionManager) withReconnection(ctx context.Context, op func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.ensureLocked(ctx); err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil || !IsInvalidSession(err) {
			return err
		}
		if attempt == maxReconnects {
			return &Error{
				Kind:    ErrSessionTimeout,
				Message: "the session could not be established",
				Err:     err,
			}
		}

		m.logger.Debug("invalid session id; reconnecting", "attempt", attempt+1, "user", m.username)
		m.invalidateLocked(ctx)
		if _, err := m.loginLocked(ctx); err != nil {
			return err
		}
	}
}

func (m *sessionManager) ensureLocked(ctx context.Context) (*Session, error) {
	if m.current != nil {
		return m.current, nil
	}
	if s := m.cachedLocked(ctx); s != nil {
		m.install(s)
		return s, nil
	}
	return m.loginLocked(ctx)
}

func (m *sessionManager) loginLocked(ctx context.Context) (*Session, error) {
	var headers []Header
	if m.organizationID != "" {
		headers = append(headers, m.loginScopeHeader())
	}
	m.driver.SetHeaders(headers)

	result, err := m.driver.Login(ctx, m.username, m.password)
	if err != nil {
		var f *Fault
		if errors.As(err, &f) && IsInvalidLogin(err) {
			return nil, &Error{Kind: ErrLoginFailed, Message: f.Message, Err: err}
		}
		return nil, err
	}

	s := &Session{
		ID:          result.SessionID,
		ServerURL:   result.ServerURL,
		UserID:      result.UserID,
		UserDetails: result.UserInfo,
	}
	m.install(s)
	m.logger.Debug("logged in", "user", m.username, "user_id", s.UserID, "endpoint", s.ServerURL)

	if m.store != nil {
		if err := m.store.Create(ctx, m.storeKey(), sessionData(s)); err != nil {
			m.logger.Warn("failed to cache session", "user", m.username, "error", err)
		}
	}
	return s, nil
}

// install points the Driver at s and swaps it in as the current session.
func (m *sessionManager) install(s *Session) {
	m.driver.SetEndpoint(s.ServerURL)
	m.driver.SetHeaders(m.headers(s))
	m.current = s
}

func (m *sessionManager) invalidateLocked(ctx context.Context) {
	m.current = nil
	if m.store == nil {
		return
	}
	if err := m.store.Delete(ctx, m.storeKey()); err != nil {
		m.logger.Warn("failed to drop cached session", "user", m.username, "error", err)
	}
}

func (m *sessionManager) cachedLocked(ctx context.Context) *Session {
	if m.store == nil {
		return nil
	}

	data, err := m.store.Get(ctx, m.storeKey())
	if err != nil {
		m.logger.Warn("failed to read cached session", "user", m.username, "error", err)
		return nil
	}
	if data == nil || data.SessionID == "" {
		m.logger.Debug("session cache miss", "user", m.username)
		return nil
	}

	m.logger.Debug("session cache hit", "user", m.username, "endpoint", data.ServerURL)
	return &Session{
		ID:        data.SessionID,
		ServerURL: data.ServerURL,
		UserID:    data.UserID,
		UserDetails: UserInfo{
			OrganizationID:   data.OrganizationID,
			OrganizationName: data.UserDetails["organization_name"],
			UserName:         data.UserDetails["user_name"],
			UserEmail:        data.UserDetails["user_email"],
		},
	}
}

// headers returns the outbound headers for s: the login scope (only when an
// organization id was configured), the session, then the call options.
func (m *sessionManager) headers(s *Session) []Header {
	var headers []Header
	if m.organizationID != "" {
		headers = append(headers, m.loginScopeHeader())
	}
	return append(headers,
		Header{Name: HeaderSession, Fields: map[string]string{"sessionId": s.ID}},
		Header{Name: HeaderCallOptions, Fields: map[string]string{"client": clientName}},
	)
}

func (m *sessionManager) loginScopeHeader() Header {
	return Header{Name: HeaderLoginScope, Fields: map[string]string{"organizationId": m.organizationID}}
}

func (m *sessionManager) storeKey() string {
	return session.Key(m.username, m.organizationID, m.password)
}

func sessionData(s *Session) *session.SessionData {
	details := map[string]string{}
	for k, v := range map[string]string{
		"organization_name": s.UserDetails.OrganizationName,
		"user_name":         s.UserDetails.UserName,
		"user_email":        s.UserDetails.UserEmail,
	} {
		if v != "" {
			details[k] = v
		}
	}
	return &session.SessionData{
		SessionID:      s.ID,
		ServerURL:      s.ServerURL,
		UserID:         s.UserID,
		OrganizationID: s.UserDetails.OrganizationID,
		UserDetails:    details,
	}
}
