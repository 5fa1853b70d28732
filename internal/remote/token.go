package remote

import (
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"
)

// AuthToken is the Remote-Access Server's path-prefix secret. Held behind a
// reader/writer lock per spec.md §3's RwLock invariant: readers (the request
// gate) far outnumber writers (regeneration), and a regeneration takes
// effect immediately for every subsequent comparison.
type AuthToken struct {
	mu    sync.RWMutex
	value string
}

// NewAuthToken constructs a token with a freshly generated UUID v4 value,
// matching spec.md §3's "fresh token is a UUID v4-shaped string".
func NewAuthToken() *AuthToken {
	return &AuthToken{value: uuid.NewString()}
}

// String returns the current token value.
func (t *AuthToken) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// Regenerate replaces the token with a new UUID v4 value and returns it.
func (t *AuthToken) Regenerate() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = uuid.NewString()
	return t.value
}

// Equal performs spec.md §4.3's constant-time comparison: a length mismatch
// short-circuits to false without comparing content, but equal-length
// mismatches never leak how many leading bytes matched.
func (t *AuthToken) Equal(candidate string) bool {
	t.mu.RLock()
	want := t.value
	t.mu.RUnlock()

	if len(candidate) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(want)) == 1
}
