package auth

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/brizzai/tubenotes/internal/auth/constants"
)

const stateAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newState returns constants.StateLength random base-36 characters
func newState() (string, error) {
	var b strings.Builder
	b.Grow(constants.StateLength)
	base := big.NewInt(int64(len(stateAlphabet)))
	for range constants.StateLength {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		b.WriteByte(stateAlphabet[n.Int64()])
	}
	return b.String(), nil
}

type stateEntry struct {
	returnTo  string
	expiresAt time.Time
}

// StateCache remembers issued state values until they are consumed or expire
type StateCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]stateEntry
	now     func() time.Time
}

// NewStateCache creates a StateCache with the given ttl
func NewStateCache(ttl time.Duration) *StateCache {
	if ttl <= 0 {
		ttl = constants.DefaultStateTTL
	}
	return &StateCache{
		ttl:     ttl,
		entries: make(map[string]stateEntry),
		now:     time.Now,
	}
}

// Put records state with the location to return to after login
func (c *StateCache) Put(state, returnTo string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[state] = stateEntry{returnTo: returnTo, expiresAt: now.Add(c.ttl)}
}

// Consume removes state and reports whether it was issued and still valid
func (c *StateCache) Consume(state string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[state]
	if !ok {
		return "", false
	}
	delete(c.entries, state)
	if c.now().After(e.expiresAt) {
		return "", false
	}
	return e.returnTo, true
}

// Len returns the number of outstanding states
func (c *StateCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
