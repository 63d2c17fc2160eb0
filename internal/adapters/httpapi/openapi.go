package httpapi

func openapiSpec() map[string]any {
	op := func(summary string) map[string]any { return map[string]any{"summary": summary} }
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "eventcatalog",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/v1/cities": map[string]any{
				"get":  op("List cities"),
				"post": op("Create city (admin)"),
			},
			"/v1/cities/{slug}": map[string]any{
				"get":    op("Get city"),
				"patch":  op("Update city (admin)"),
				"delete": op("Delete city (admin)"),
			},
			"/v1/cities/{slug}/events": map[string]any{
				"get": op("List events in a city"),
			},
			"/v1/events": map[string]any{
				"get":  op("List events"),
				"post": op("Create event (admin)"),
			},
			"/v1/events/{id}": map[string]any{
				"get":    op("Get event"),
				"patch":  op("Update event (admin)"),
				"delete": op("Delete event (admin)"),
			},
			"/v1/checkout/sessions": map[string]any{
				"post": op("Start checkout for an event"),
			},
			"/v1/checkout/sessions/{id}": map[string]any{
				"get": op("Get checkout session"),
			},
			"/v1/checkout/webhook": map[string]any{
				"post": op("Payment provider webhook"),
			},
		},
	}
}
