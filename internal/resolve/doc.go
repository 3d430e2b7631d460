// Package resolve decides which list-entry field values are worth storing
// and which should inherit from the referenced canonical record.
//
// The Resolver returns an explicit Inherit/Override decision per field. Text
// fields compare after sanitization, the cover image by exact bytes, and the
// track list by its canonical serialized form. Canonical records are read
// through a batch-scoped Cache with negative caching; the cache must be
// cleared between independent batches.
package resolve
