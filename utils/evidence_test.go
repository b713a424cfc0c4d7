package utils

import (
	"testing"

	"github.com/gewnthar/sitetrack/models"
)

func strPtr(s string) *string { return &s }

func TestExtractDriveFileID(t *testing.T) {
	cases := map[string]string{
		"https://drive.google.com/file/d/1AbC-_xyz/view?usp=sharing": "1AbC-_xyz",
		"https://drive.google.com/open?id=OPEN_id-1":                  "OPEN_id-1",
		"https://drive.google.com/uc?id=UC123&export=download":        "UC123",
		"https://docs.google.com/a/b?usp=x&id=AMP42":                  "AMP42",
		"https://example.com/photos/42.jpg":                           "",
		"":                                                            "",
	}
	for url, want := range cases {
		if got := ExtractDriveFileID(url); got != want {
			t.Errorf("ExtractDriveFileID(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestResolveEvidenceURL(t *testing.T) {
	t.Run("direct wins", func(t *testing.T) {
		got, status := ResolveEvidenceURL(strPtr("https://cdn.example/x.jpg"), strPtr("https://drive.google.com/file/d/abc/view"))
		if status != models.PhotoDirectOK || got == nil || *got != "https://cdn.example/x.jpg" {
			t.Errorf("got (%v, %s), want direct-ok", got, status)
		}
	})

	t.Run("resolved from share", func(t *testing.T) {
		got, status := ResolveEvidenceURL(strPtr("  "), strPtr("https://drive.google.com/file/d/abc123/view"))
		if status != models.PhotoResolvedFromShare {
			t.Fatalf("status = %s, want resolved-from-share", status)
		}
		if got == nil || *got != "https://drive.google.com/uc?export=view&id=abc123" {
			t.Errorf("resolved = %v", got)
		}
	})

	t.Run("unresolvable share", func(t *testing.T) {
		got, status := ResolveEvidenceURL(nil, strPtr("https://example.com/album"))
		if status != models.PhotoUnresolvable || got != nil {
			t.Errorf("got (%v, %s), want (nil, unresolvable)", got, status)
		}
	})

	t.Run("missing", func(t *testing.T) {
		got, status := ResolveEvidenceURL(nil, strPtr(""))
		if status != models.PhotoMissing || got != nil {
			t.Errorf("got (%v, %s), want (nil, missing)", got, status)
		}
	})
}
