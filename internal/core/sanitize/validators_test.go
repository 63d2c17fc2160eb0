package sanitize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr string
	}{
		{name: "https", in: "https://example.com/path?q=1", want: "https://example.com/path?q=1"},
		{name: "http", in: "http://example.com", want: "http://example.com"},
		{name: "markup stripped", in: "https://example.com/<b>x</b>", want: "https://example.com/x"},
		{name: "nil", in: nil, wantErr: "URL is required"},
		{name: "number", in: 12, wantErr: "URL is required"},
		{name: "javascript", in: "javascript:alert(1)", wantErr: "URL must use HTTP or HTTPS protocol"},
		{name: "ftp", in: "ftp://example.com", wantErr: "URL must use HTTP or HTTPS protocol"},
		{name: "no host", in: "http://", wantErr: "Invalid URL format"},
		{name: "bad escape", in: "https://example.com/%zz", wantErr: "Invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := URL(tt.in)
			if tt.wantErr != "" {
				var fe *FormatError
				require.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
				assert.Equal(t, tt.wantErr, fe.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugAcceptsOnlyLowercaseAlphanumericAndHyphen(t *testing.T) {
	accepted := []string{"vilnius", "kaunas-2025", "a", "0-0"}
	for _, in := range accepted {
		got, err := Slug(in, 0)
		require.NoError(t, err, in)
		assert.Regexp(t, `^[a-z0-9-]+$`, got)
		assert.Equal(t, in, got)
	}

	rejected := []string{"Vilnius", "new york", "a_b", "slug!", "ąžuolas", "a.b"}
	for _, in := range rejected {
		_, err := Slug(in, 0)
		var fe *FormatError
		require.True(t, errors.As(err, &fe), "expected rejection for %q", in)
		assert.Equal(t, "Slug can only contain lowercase letters, numbers, and hyphens", fe.Message)
	}
}

func TestSlugMessages(t *testing.T) {
	_, err := Slug(nil, 0)
	assert.EqualError(t, err, "Slug is required")

	_, err = Slug("", 0)
	assert.EqualError(t, err, "Slug is required")

	_, err = Slug("<b></b>", 0)
	assert.EqualError(t, err, "Slug can only contain lowercase letters, numbers, and hyphens")
}

func TestSlugTruncatesToMaxLength(t *testing.T) {
	got, err := Slug("abcdefghij", 4)
	require.NoError(t, err)
	assert.Equal(t, "abcd", got)
}
