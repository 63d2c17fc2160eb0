package schema

import (
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/sanitize"
	"github.com/google/uuid"
)

// PlainText strips all markup from a string value.
func PlainText(maxLength int) TransformFunc {
	return func(v any) (any, error) {
		return sanitize.Value(v, sanitize.Config{RemoveHTMLCompletely: true, MaxLength: maxLength}), nil
	}
}

// RichText keeps basic formatting tags.
func RichText(maxLength int) TransformFunc {
	return func(v any) (any, error) {
		return sanitize.Value(v, sanitize.Config{AllowedTags: sanitize.RichTextTags, MaxLength: maxLength}), nil
	}
}

func Slug(maxLength int) TransformFunc {
	return func(v any) (any, error) {
		return sanitize.Slug(v, maxLength)
	}
}

func URL() TransformFunc {
	return func(v any) (any, error) {
		return sanitize.URL(v)
	}
}

// UUID accepts any textual UUID form and normalizes it to lowercase hyphenated.
func UUID() TransformFunc {
	return func(v any) (any, error) {
		s, _ := v.(string)
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, &sanitize.FormatError{Message: "Invalid UUID"}
		}
		return id.String(), nil
	}
}
