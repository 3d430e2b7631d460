// Command crate curates shared music lists: it scans the album catalog for
// duplicates, reconciles manual entries, imports lists with canonical-value
// resolution, and enriches records from the external metadata and artwork
// services through a rate-limited gateway.
package main
