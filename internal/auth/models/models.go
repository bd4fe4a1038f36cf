package models

import "time"

// TokenGrant is a successful token endpoint response
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"` // empty when the issuer omitted it
	ExpiresIn    int64  `json:"expires_in"`              // seconds
}

// TokenRecord is the persisted credential. ExpiryInstant is epoch milliseconds.
type TokenRecord struct {
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	ExpiryInstant int64  `json:"expiry_instant"`
}

// ExpiryFor computes the stored expiry for a grant issued at issuedAt
func ExpiryFor(issuedAt time.Time, expiresIn int64) int64 {
	return issuedAt.UnixMilli() + expiresIn*1000
}

// Expired reports whether now is strictly past the expiry instant
func (r *TokenRecord) Expired(now time.Time) bool {
	return now.UnixMilli() > r.ExpiryInstant
}

// ExpiresAt returns the expiry as a time
func (r *TokenRecord) ExpiresAt() time.Time {
	return time.UnixMilli(r.ExpiryInstant)
}

// AuthStatus is what status endpoints report. Tokens are never included.
type AuthStatus struct {
	Authenticated bool       `json:"authenticated" yaml:"authenticated"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired       bool       `json:"expired" yaml:"expired"`
}
