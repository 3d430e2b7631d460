// Package coverart downloads release artwork from the Cover Art Archive.
package coverart
