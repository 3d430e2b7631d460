// Package catalog persists albums, lists, list entries, and distinct-pair
// exclusions in SQLite.
//
// An Album is either a canonical catalog record (with an external release id)
// or a manual entry awaiting reconciliation. List entries reference albums
// and store only the override values that differ from them; NULL columns
// inherit. Merge and exclusion writes are transactional so a failed merge can
// never leave an entry pointing at a deleted album.
package catalog
