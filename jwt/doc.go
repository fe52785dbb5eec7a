// Package jwt is the swappable signing primitive behind the nonce scheme: it
// signs and verifies HS256 tokens against caller-supplied keys and can peek
// at claims without verification so the manager can locate the counters a
// token was signed under.
//
// # Architecture boundaries
//
// This package owns token encoding only. It never derives keys, never talks
// to a store, and never decides whether a token is revoked — those
// responsibilities belong to the Manager.
package jwt
