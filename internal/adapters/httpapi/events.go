package httpapi

import (
	"net/http"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/schema"
)

func eventFilter(q schema.Values) domain.EventFilter {
	return domain.EventFilter{
		CitySlug: q.String("citySlug"),
		Category: q.String("category"),
		Search:   q.String("search"),
		From:     q.TimePtr("from"),
		Limit:    q.Int("limit"),
		Offset:   q.Int("offset"),
	}
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) error {
	q, err := bindQuery(r, domain.EventListQuerySchema)
	if err != nil {
		return err
	}

	page, err := h.events.List(r.Context(), eventFilter(q))
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toPage(page, toEventResponse))
	return nil
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, domain.IDParam)
	if err != nil {
		return err
	}
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toEventResponse(event))
	return nil
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) error {
	v, err := bindBody(w, r, domain.CreateEventSchema)
	if err != nil {
		return err
	}

	event, err := h.events.Create(r.Context(), domain.Event{
		Name:        v.String("name"),
		Slug:        v.String("slug"),
		Description: v.String("description"),
		Date:        v.Time("date"),
		Price:       v.Int("price"),
		Currency:    v.String("currency"),
		Category:    v.String("category"),
		ImageURL:    v.String("imageUrl"),
		URL:         v.String("url"),
		CitySlug:    v.String("citySlug"),
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusCreated, toEventResponse(event))
	return nil
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, domain.IDParam)
	if err != nil {
		return err
	}
	v, err := bindBody(w, r, domain.UpdateEventSchema)
	if err != nil {
		return err
	}

	event, err := h.events.Update(r.Context(), id, domain.EventPatch{
		Name:        v.StringPtr("name"),
		Slug:        v.StringPtr("slug"),
		Description: v.StringPtr("description"),
		Date:        v.TimePtr("date"),
		Price:       v.IntPtr("price"),
		Currency:    v.StringPtr("currency"),
		Category:    v.StringPtr("category"),
		ImageURL:    v.StringPtr("imageUrl"),
		URL:         v.StringPtr("url"),
		CitySlug:    v.StringPtr("citySlug"),
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toEventResponse(event))
	return nil
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, domain.IDParam)
	if err != nil {
		return err
	}
	if err := h.events.Delete(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
