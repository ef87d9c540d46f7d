package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

const (
	// ActionDelete confirms removal of a single transaction.
	ActionDelete ActionKind = "delete"
	// ActionClear confirms removal of all transactions.
	ActionClear ActionKind = "clear"
)

// ActionKind names a destructive action awaiting confirmation.
type ActionKind string

// ErrUnknownConfirmation is returned when a token is missing, already
// consumed, or expired.
var ErrUnknownConfirmation = errors.New("unknown or expired confirmation token")

// PendingAction is a destructive action that was requested but not yet
// confirmed.
type PendingAction struct {
	Kind      ActionKind
	ID        int64 // transaction id, zero for ActionClear
	expiresAt time.Time
}

// Confirmations issues single-use tokens for destructive actions, decoupling
// the confirmation dialog from the mutation contract. Tokens expire after a
// fixed window.
type Confirmations struct {
	mu      sync.Mutex
	pending map[string]PendingAction
	ttl     time.Duration
	now     func() time.Time
}

func NewConfirmations(ttl time.Duration) *Confirmations {
	return &Confirmations{
		pending: make(map[string]PendingAction),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Request registers a pending action and returns its confirmation token.
func (c *Confirmations) Request(kind ActionKind, id int64) string {
	token := newToken()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[token] = PendingAction{
		Kind:      kind,
		ID:        id,
		expiresAt: c.now().Add(c.ttl),
	}
	return token
}

// Take consumes the token and returns its pending action. A token can be
// taken once; expired and unknown tokens fail identically.
func (c *Confirmations) Take(token string) (PendingAction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	action, ok := c.pending[token]
	if !ok {
		return PendingAction{}, ErrUnknownConfirmation
	}
	delete(c.pending, token)
	if c.now().After(action.expiresAt) {
		return PendingAction{}, ErrUnknownConfirmation
	}
	return action, nil
}

// Prune drops expired tokens. Called opportunistically by the facade.
func (c *Confirmations) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for token, action := range c.pending {
		if now.After(action.expiresAt) {
			delete(c.pending, token)
		}
	}
}

func newToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
