package musicbrainz_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"crate/internal/musicbrainz"
	"crate/internal/services"
)

func TestSearchRelease(t *testing.T) {
	var gotUserAgent, gotQuery, gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/release" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotUserAgent = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("query")
		gotFormat = r.URL.Query().Get("fmt")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"count": 1,
			"offset": 0,
			"releases": [{
				"id": "6e335887-60ba-38f0-95af-fae4774336a3",
				"title": "OK Computer",
				"date": "1997-06-16",
				"country": "GB",
				"score": 100,
				"artist-credit": [{"name": "Radiohead", "joinphrase": ""}]
			}]
		}`))
	}))
	defer server.Close()

	client, err := musicbrainz.New(server.URL, "crate/test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	resp, err := client.SearchRelease(context.Background(), `artist:"Radiohead" AND release:"OK Computer"`, 5)
	if err != nil {
		t.Fatalf("SearchRelease failed: %v", err)
	}
	if gotUserAgent != "crate/test" {
		t.Errorf("user agent %q not sent", gotUserAgent)
	}
	if gotQuery == "" || gotFormat != "json" {
		t.Errorf("query params not forwarded: query=%q fmt=%q", gotQuery, gotFormat)
	}
	if resp.Count != 1 || len(resp.Releases) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	release := resp.Releases[0]
	if release.Title != "OK Computer" || release.Country != "GB" {
		t.Errorf("unexpected release: %+v", release)
	}
	if release.Artist() != "Radiohead" {
		t.Errorf("Artist() = %q, want Radiohead", release.Artist())
	}
}

func TestSearchReleaseEmptyQuery(t *testing.T) {
	client, err := musicbrainz.New("http://localhost", "crate/test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := client.SearchRelease(context.Background(), "   ", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestLookupReleaseNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := musicbrainz.New(server.URL, "crate/test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = client.LookupRelease(context.Background(), "missing-id")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSearchReleaseRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := musicbrainz.New(server.URL, "crate/test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = client.SearchRelease(context.Background(), "anything", 5)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error for 503, got %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := musicbrainz.New("", "crate/test"); err == nil {
		t.Error("expected error for empty base url")
	}
	if _, err := musicbrainz.New("http://localhost", "  "); err == nil {
		t.Error("expected error for empty user agent")
	}
}

func TestArtistJoinPhrase(t *testing.T) {
	release := musicbrainz.Release{
		ArtistCredit: []musicbrainz.ArtistCredit{
			{Name: "David Byrne", JoinPhrase: " & "},
			{Name: "Brian Eno", JoinPhrase: ""},
		},
	}
	if got := release.Artist(); got != "David Byrne & Brian Eno" {
		t.Errorf("Artist() = %q", got)
	}
}
