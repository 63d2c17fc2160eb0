package httpapi

import (
	"net/http"

	"github.com/atvirokodosprendimai/eventcatalog/internal/core/domain"
)

func (h *Handler) listCities(w http.ResponseWriter, r *http.Request) error {
	q, err := bindQuery(r, domain.ListQuerySchema)
	if err != nil {
		return err
	}

	page, err := h.cities.List(r.Context(), domain.CityFilter{
		Search: q.String("search"),
		Limit:  q.Int("limit"),
		Offset: q.Int("offset"),
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toPage(page, toCityResponse))
	return nil
}

func (h *Handler) getCity(w http.ResponseWriter, r *http.Request) error {
	slug, err := pathParam(r, domain.SlugParam)
	if err != nil {
		return err
	}
	city, err := h.cities.Get(r.Context(), slug)
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toCityResponse(city))
	return nil
}

func (h *Handler) createCity(w http.ResponseWriter, r *http.Request) error {
	v, err := bindBody(w, r, domain.CreateCitySchema)
	if err != nil {
		return err
	}

	city, err := h.cities.Create(r.Context(), domain.City{
		Name:        v.String("name"),
		Slug:        v.String("slug"),
		Description: v.String("description"),
		ImageURL:    v.String("imageUrl"),
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusCreated, toCityResponse(city))
	return nil
}

func (h *Handler) updateCity(w http.ResponseWriter, r *http.Request) error {
	slug, err := pathParam(r, domain.SlugParam)
	if err != nil {
		return err
	}
	v, err := bindBody(w, r, domain.UpdateCitySchema)
	if err != nil {
		return err
	}

	city, err := h.cities.Update(r.Context(), slug, domain.CityPatch{
		Name:        v.StringPtr("name"),
		Slug:        v.StringPtr("slug"),
		Description: v.StringPtr("description"),
		ImageURL:    v.StringPtr("imageUrl"),
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toCityResponse(city))
	return nil
}

func (h *Handler) deleteCity(w http.ResponseWriter, r *http.Request) error {
	slug, err := pathParam(r, domain.SlugParam)
	if err != nil {
		return err
	}
	if err := h.cities.Delete(r.Context(), slug); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) listCityEvents(w http.ResponseWriter, r *http.Request) error {
	slug, err := pathParam(r, domain.SlugParam)
	if err != nil {
		return err
	}
	q, err := bindQuery(r, domain.EventListQuerySchema)
	if err != nil {
		return err
	}

	page, err := h.events.ListByCity(r.Context(), slug, eventFilter(q))
	if err != nil {
		return err
	}
	h.writeJSON(w, r, http.StatusOK, toPage(page, toEventResponse))
	return nil
}
