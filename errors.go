package nonceauth

import "errors"

var (
	// ErrTokenInvalid is returned when a token is absent, malformed, or does
	// not verify against the key derived from the live counters. Revocation
	// surfaces through this error: it is the expected common-path outcome,
	// never a fault.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrManagerNotReady is returned when a Manager is used before Build
	// completed or after a nil receiver slipped through.
	ErrManagerNotReady = errors.New("manager not initialized")
	// ErrReservedClaim is returned when caller data collides with a claim
	// name the manager owns (uid, lid, jti, exp, iss, iat).
	ErrReservedClaim = errors.New("reserved claim name in user data")
)
