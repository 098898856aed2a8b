// Copyright (c) 2026 Folioworks. All rights reserved.

/*
Package sec holds the security primitives for the folio admin surface.

The entire write API is protected by a single shared admin token. There is no
user model, no sessions, and no role hierarchy: a request either carries the
token or it does not.
*/
package sec

import "crypto/subtle"

// TokenGuard performs constant-time comparison of the admin token.
//
// # Why constant time
//
// A naive string comparison short-circuits on the first mismatching byte,
// which leaks token prefixes through response timing. subtle.ConstantTimeCompare
// always touches every byte.
type TokenGuard struct {
	expected []byte
}

// NewTokenGuard creates a guard for the configured admin token.
// An empty expected token disables the guard entirely: Verify always fails,
// so a misconfigured deployment locks the admin surface rather than opening it.
func NewTokenGuard(expected string) *TokenGuard {
	return &TokenGuard{expected: []byte(expected)}
}

// Verify reports whether the presented token matches the configured one.
func (g *TokenGuard) Verify(presented string) bool {
	if len(g.expected) == 0 || presented == "" {
		return false
	}

	p := []byte(presented)
	if len(p) != len(g.expected) {
		return false
	}

	return subtle.ConstantTimeCompare(p, g.expected) == 1
}
