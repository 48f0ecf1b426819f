// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_console/internal/adapters/observability"
	"hotel_console/internal/app"
	"hotel_console/internal/domain"
)

// Handlers serve the hotels REST API under /api.
type Handlers struct{ S *app.HotelService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// validationProblem is the 422 body the console client parses.
type validationProblem struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Route("/api/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Post("/", h.createHotel)
		r.Get("/{id}", h.getHotel)
		r.Put("/{id}", h.updateHotel)
		r.Delete("/{id}", h.deleteHotel)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeServiceErr maps service errors onto 404, 422 or 500.
func writeServiceErr(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, validationProblem{Message: ve.Error(), Errors: ve.Fields})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	default:
		log.Error().Err(err).Str("err_type", observability.LabelErr(err)).Msg("hotel service failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func hotelID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (domain.HotelDraft, bool) {
	var d domain.HotelDraft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&d); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return d, false
	}
	return d, true
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.S.ListHotels(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(w, r)
	if !ok {
		return
	}
	hv, err := h.S.GetHotel(r.Context(), id)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeCacheable(w, r, hv)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	d, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	out, err := h.S.CreateHotel(r.Context(), d)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	w.Header().Set("Location", "/api/hotels/"+strconv.FormatInt(out.ID, 10))
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(w, r)
	if !ok {
		return
	}
	d, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	out, err := h.S.UpdateHotel(r.Context(), id, d)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := hotelID(w, r)
	if !ok {
		return
	}
	if err := h.S.DeleteHotel(r.Context(), id); err != nil {
		writeServiceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
