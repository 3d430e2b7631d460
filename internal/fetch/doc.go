// Package fetch is the rate-limited access path to the external metadata and
// artwork services.
//
// One Limiter spaces all metadata requests at a global minimum interval,
// admitting waiters by priority; one Gate bounds concurrent artwork
// downloads with FIFO admission. The Gateway in front of both caches every
// response, definitive misses included, for the life of the process.
// Transient service failures degrade to soft not-found results so a batch of
// independent lookups never aborts on one bad call.
package fetch
