// backend/utils/evidence.go
package utils

import (
	"regexp"
	"strings"

	"github.com/gewnthar/sitetrack/models"
)

// Share-link shapes that carry a Drive file ID, tried in order.
var driveFileIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([-\w]+)`),
	regexp.MustCompile(`[?&]id=([-\w]+)`),
	regexp.MustCompile(`/open\?id=([-\w]+)`),
	regexp.MustCompile(`/uc\?id=([-\w]+)`),
}

const driveDirectViewURL = "https://drive.google.com/uc?export=view&id="

// ExtractDriveFileID pulls the file identifier out of a Drive share link.
// Returns "" when the link has no recognizable shape.
func ExtractDriveFileID(url string) string {
	for _, re := range driveFileIDPatterns {
		if m := re.FindStringSubmatch(url); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// ResolveEvidenceURL picks a displayable URL for one evidence photo.
// A non-empty direct URL wins; otherwise the share URL is converted to a
// direct-view link when a file ID can be extracted.
func ResolveEvidenceURL(directURL, shareURL *string) (*string, models.PhotoStatus) {
	if directURL != nil && strings.TrimSpace(*directURL) != "" {
		resolved := *directURL
		return &resolved, models.PhotoDirectOK
	}

	if shareURL != nil && strings.TrimSpace(*shareURL) != "" {
		if id := ExtractDriveFileID(*shareURL); id != "" {
			resolved := driveDirectViewURL + id
			return &resolved, models.PhotoResolvedFromShare
		}
		return nil, models.PhotoUnresolvable
	}

	return nil, models.PhotoMissing
}
