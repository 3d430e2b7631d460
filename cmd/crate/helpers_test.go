package main

import "testing"

func TestParseID(t *testing.T) {
	if _, err := parseID("abc", "album"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := parseID("-3", "album"); err == nil {
		t.Error("expected error for negative id")
	}
	id, err := parseID(" 42 ", "album")
	if err != nil || id != 42 {
		t.Errorf("parseID(\" 42 \") = %d, %v", id, err)
	}
}

func TestAlbumLabel(t *testing.T) {
	cases := []struct {
		artist, title, want string
	}{
		{"Radiohead", "OK Computer", "Radiohead - OK Computer"},
		{"", "OK Computer", "OK Computer"},
		{"Radiohead", "", "Radiohead"},
		{"", "", "(untitled)"},
	}
	for _, tc := range cases {
		if got := albumLabel(tc.artist, tc.title); got != tc.want {
			t.Errorf("albumLabel(%q, %q) = %q, want %q", tc.artist, tc.title, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := "a very long album title that keeps going"
	got := truncate(long, 10)
	if len(got) != 10 || got[7:] != "..." {
		t.Errorf("truncate long = %q", got)
	}
}

func TestCoverExtension(t *testing.T) {
	if got := coverExtension("image/png"); got != ".png" {
		t.Errorf("png extension = %q", got)
	}
	if got := coverExtension("image/jpeg"); got != ".jpg" {
		t.Errorf("jpeg extension = %q", got)
	}
	if got := coverExtension(""); got != ".jpg" {
		t.Errorf("default extension = %q", got)
	}
}
