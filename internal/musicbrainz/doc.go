// Package musicbrainz is a minimal client for the MusicBrainz web service,
// covering release search and release lookup. Rate limiting is not this
// package's concern; callers go through the fetch gateway.
package musicbrainz
