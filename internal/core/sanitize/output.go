package sanitize

const responseTextLimit = 10000

// keys holding identifiers, numbers, timestamps or validated URLs
var structuralKeys = map[string]struct{}{
	"id":        {},
	"citySlug":  {},
	"slug":      {},
	"price":     {},
	"count":     {},
	"limit":     {},
	"offset":    {},
	"createdAt": {},
	"updatedAt": {},
	"date":      {},
	"imageUrl":  {},
	"url":       {},
}

// Response walks a decoded JSON document and strips markup from string
// leaves. Values under structural keys are left as they are. The shape of v
// is preserved.
func Response(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return PlainText(t, responseTextLimit)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Response(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, item := range t {
			if _, skip := structuralKeys[key]; skip {
				out[key] = item
				continue
			}
			out[key] = Response(item)
		}
		return out
	default:
		return v
	}
}
