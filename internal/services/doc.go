// Package services defines the shared error taxonomy used across crate.
//
// Sentinel errors classify failures into the categories the CLI cares about:
// expected misses (ErrNotFound), operator mistakes (ErrValidation), storage
// invariant breaches (ErrIntegrity), and remote-service trouble (ErrTransient,
// ErrExternalService). Wrap attaches component and operation context while
// preserving errors.Is classification.
package services
