// Package redisstore backs both nonce store capabilities — atomic counters
// and the read/write registry — with a single Redis client. INCR serves the
// counter role, plain GET/SET/DEL the registry role; both operate on one
// shared keyspace under a configurable prefix, so a value incremented through
// one capability is readable through the other.
//
// # Architecture boundaries
//
// This package owns Redis operations and key namespacing only. It does NOT
// derive keys, interpret tokens, or know which counter plays which role in
// the revocation scheme — those responsibilities belong to the Manager.
package redisstore
