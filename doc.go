// Package nonceauth provides blacklist-free revocation for signed bearer tokens.
//
// No issued token is ever stored. Instead, four small integer counters
// ("nonces") are woven into the symmetric key used to sign every token:
// a system-wide global nonce, a per-user nonce, a per-user monotonic login ID,
// and a per-session login nonce. Incrementing a counter invalidates every
// token signed under its previous value, which gives four revocation
// granularities without a blacklist:
//
//   - [Manager.LogoutEveryone] bumps the global nonce — every token ever
//     issued stops verifying.
//   - [Manager.LogoutAllDevices] bumps one user's nonce — all of that user's
//     sessions stop verifying.
//   - [Manager.Logout] deletes one session's login nonce — that session's
//     token stops verifying, everything else is untouched.
//   - [Manager.Refresh] bumps one session's login nonce and re-signs — the
//     presented token stops verifying the moment the new one is issued.
//
// # Architecture boundaries
//
// nonceauth is the public surface. It exposes [Manager], [Builder], [Config],
// the [CounterStore] and [NonceRegistry] capability interfaces, and audit and
// metrics value types. The signing primitive lives in the jwt subpackage and
// the reference Redis collaborator in redisstore; both are swappable.
//
// All counter state is externalized to the injected store so that multiple
// server instances share revocation state consistently. Manager itself holds
// no mutable state beyond in-process metrics and is safe for concurrent use
// after initialization through [Builder.Build].
//
// # Consistency contract
//
// Counter increments must be atomic at the store level; a lost increment on a
// login nonce would leave two tokens verifying under the same key. Plain
// reads are not linearized against concurrent increments: a validation racing
// a revocation may accept a token for a brief window. That trade-off is
// accepted and should be weighed when choosing a backend.
package nonceauth
