package sanitize

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// DefaultSlugLength applies when Slug is called without a positive cap.
	DefaultSlugLength = 50
	maxURLLength      = 500
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// FormatError reports a value that is present but not well formed.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// URL cleans v as plain text and accepts only absolute http(s) URLs.
func URL(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &FormatError{Message: "URL is required"}
	}

	clean := PlainText(s, maxURLLength)
	if !strings.HasPrefix(clean, "http://") && !strings.HasPrefix(clean, "https://") {
		return "", &FormatError{Message: "URL must use HTTP or HTTPS protocol"}
	}

	u, err := url.Parse(clean)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", &FormatError{Message: "Invalid URL format"}
	}
	return clean, nil
}

// Slug cleans v as plain text and requires lowercase letters, digits and
// hyphens only.
func Slug(v any, maxLength int) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &FormatError{Message: "Slug is required"}
	}
	if maxLength <= 0 {
		maxLength = DefaultSlugLength
	}

	clean := PlainText(s, maxLength)
	if !slugPattern.MatchString(clean) {
		return "", &FormatError{Message: "Slug can only contain lowercase letters, numbers, and hyphens"}
	}
	if clean == "" {
		return "", &FormatError{Message: "Slug cannot be empty"}
	}
	return clean, nil
}
