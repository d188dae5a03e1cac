package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrEmptySecret = errors.New("identity hasher requires a non-empty secret")

// IdentityHasher derives a pseudonymous token from a raw network address. The
// token is what gets stored for rate limiting, reactions and deletion grants;
// the raw address never is.
type IdentityHasher struct {
	secret []byte
}

// NewIdentityHasher fails closed: an empty secret is a configuration error,
// never a reason to fall back to an unkeyed hash.
func NewIdentityHasher(secret string) (*IdentityHasher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &IdentityHasher{secret: []byte(secret)}, nil
}

// Identify maps the same address to the same token on every call.
func (h *IdentityHasher) Identify(rawAddress string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(rawAddress))
	return hex.EncodeToString(mac.Sum(nil))
}
