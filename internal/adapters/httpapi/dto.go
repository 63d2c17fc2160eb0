package httpapi

import "github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"

type cityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type eventResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Price       int    `json:"price"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl,omitempty"`
	URL         string `json:"url,omitempty"`
	CitySlug    string `json:"citySlug"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type pageResponse[T any] struct {
	Items  []T   `json:"items"`
	Count  int64 `json:"count"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type checkoutResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url,omitempty"`
	Status        string `json:"status,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	AmountTotal   int    `json:"amountTotal"`
	Currency      string `json:"currency,omitempty"`
	EventID       string `json:"eventId,omitempty"`
}

func toCityResponse(c domain.City) cityResponse {
	return cityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   c.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Slug:        e.Slug,
		Description: e.Description,
		Date:        e.Date.UTC().Format(timeFormat),
		Price:       e.Price,
		Currency:    e.Currency,
		Category:    e.Category,
		ImageURL:    e.ImageURL,
		URL:         e.URL,
		CitySlug:    e.CitySlug,
		CreatedAt:   e.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   e.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toCheckoutResponse(s domain.CheckoutSession) checkoutResponse {
	return checkoutResponse{
		ID:            s.ID,
		URL:           s.URL,
		Status:        s.Status,
		PaymentStatus: s.PaymentStatus,
		AmountTotal:   s.AmountTotal,
		Currency:      s.Currency,
		EventID:       s.EventID,
	}
}

func toPage[T, R any](page domain.Page[T], convert func(T) R) pageResponse[R] {
	items := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}
	return pageResponse[R]{Items: items, Count: page.Count, Limit: page.Limit, Offset: page.Offset}
}
