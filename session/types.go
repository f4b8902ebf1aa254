// Package session caches authenticated remote sessions so that a login can
// be reused across connections and processes.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"time"
)

// Common errors for session store operations.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
)

// SessionData represents all serializable session state.
// The session id is a secret; stores must not log it.
type SessionData struct {
	SessionID      string            `json:"session_id"`
	ServerURL      string            `json:"server_url"`
	UserID         string            `json:"user_id"`
	OrganizationID string            `json:"organization_id"`
	UserDetails    map[string]string `json:"user_details,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Key builds the cache key for a login. The key is an HMAC of the username
// and organization scope keyed by the password, so an entry is only found
// with the credentials that created it. Each part is length-prefixed.
func Key(username, organizationID, password string) string {
	mac := hmac.New(sha256.New, []byte(password))
	for _, part := range []string{username, organizationID} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		mac.Write(n[:])
		mac.Write([]byte(part))
	}
	return hex.EncodeToString(mac.Sum(nil))
}
