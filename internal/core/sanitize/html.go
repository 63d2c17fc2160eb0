// Package sanitize strips unsafe markup from user supplied strings.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Config describes how a string is cleaned.
type Config struct {
	// AllowedTags lists the elements kept in the output. Empty strips all markup.
	AllowedTags []string
	// AllowedAttributes maps a tag name to the attributes kept on it.
	AllowedAttributes map[string][]string
	// MaxLength caps the output in runes. Zero means unlimited.
	MaxLength int
	// RemoveHTMLCompletely drops every tag regardless of AllowedTags.
	RemoveHTMLCompletely bool
}

// RichTextTags is the allow-list used for multi-paragraph descriptions.
var RichTextTags = []string{"p", "br", "strong", "em", "ul", "ol", "li"}

// elements whose text content is never kept
var discardContent = map[string]struct{}{
	"script":   {},
	"style":    {},
	"textarea": {},
	"noscript": {},
	"iframe":   {},
	"option":   {},
}

var voidElements = map[string]struct{}{
	"br":  {},
	"hr":  {},
	"img": {},
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// HTML cleans input according to cfg. Text content of removed elements is
// kept, except for script-like elements whose content is dropped as well.
func HTML(input string, cfg Config) string {
	if input == "" {
		return ""
	}

	allowed := map[string]struct{}{}
	if !cfg.RemoveHTMLCompletely {
		for _, tag := range cfg.AllowedTags {
			allowed[strings.ToLower(tag)] = struct{}{}
		}
	}

	var b strings.Builder
	b.Grow(len(input))

	z := html.NewTokenizer(strings.NewReader(input))
	skipDepth := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			b.WriteString(textEscaper.Replace(string(z.Text())))
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if _, ok := discardContent[tok.Data]; ok {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if _, ok := allowed[tok.Data]; ok {
				writeStartTag(&b, tok, cfg.AllowedAttributes[tok.Data])
			}
		case html.EndTagToken:
			tok := z.Token()
			if _, ok := discardContent[tok.Data]; ok {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if _, void := voidElements[tok.Data]; void {
				continue
			}
			if _, ok := allowed[tok.Data]; ok {
				b.WriteString("</")
				b.WriteString(tok.Data)
				b.WriteByte('>')
			}
		}
	}

	return truncate(b.String(), cfg.MaxLength)
}

// Value cleans v when it is a string and returns "" otherwise.
func Value(v any, cfg Config) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return HTML(s, cfg)
}

// PlainText removes all markup, for single-line fields such as names and
// search terms.
func PlainText(input string, maxLength int) string {
	return HTML(input, Config{RemoveHTMLCompletely: true, MaxLength: maxLength})
}

// RichText keeps basic formatting tags without attributes.
func RichText(input string, maxLength int) string {
	return HTML(input, Config{AllowedTags: RichTextTags, MaxLength: maxLength})
}

func writeStartTag(b *strings.Builder, tok html.Token, attrs []string) {
	b.WriteByte('<')
	b.WriteString(tok.Data)
	for _, attr := range tok.Attr {
		if attr.Namespace != "" || !contains(attrs, attr.Key) {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Val))
		b.WriteByte('"')
	}
	if _, void := voidElements[tok.Data]; void {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
}

// truncate caps s at maxLength runes. The cut never splits a tag or an
// entity, so the result sanitizes to itself.
func truncate(s string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	cut := string([]rune(s)[:maxLength])
	if i := strings.LastIndexByte(cut, '<'); i >= 0 && !strings.Contains(cut[i:], ">") {
		cut = cut[:i]
	}
	if i := strings.LastIndexByte(cut, '&'); i >= 0 && !strings.Contains(cut[i:], ";") {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
