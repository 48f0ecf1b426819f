package httpserver

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_console/internal/adapters/observability"
	"hotel_console/internal/domain"
	"hotel_console/internal/form"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	msgDeleted      = "Hotel eliminado exitosamente."
	msgDeleteFailed = "Error al eliminar el hotel."
	msgListFailed   = "No se pudieron cargar los hoteles."
	msgDetailFailed = "No se pudo cargar la información del hotel."
	msgNoHotelID    = "No se proporcionó un ID de hotel para editar."
)

var pageFiles = []string{"home.html", "details.html", "form.html", "message.html"}

// Console serves the server-rendered hotel console.
type Console struct {
	api   domain.HotelAPI
	dir   domain.Directory
	forms *FormStore
	opts  []form.Option
	pages map[string]*template.Template
}

// NewConsole parses the page templates once. opts are passed to every form it opens.
func NewConsole(api domain.HotelAPI, dir domain.Directory, forms *FormStore, opts ...form.Option) (*Console, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, p := range pageFiles {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+p)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", p, err)
		}
		pages[p] = t
	}
	return &Console{api: api, dir: dir, forms: forms, opts: opts, pages: pages}, nil
}

func (s *Server) MountConsole(c *Console) {
	s.mux.Get("/", c.home)
	s.mux.Get("/hotels/{id}", c.details)
	s.mux.Post("/hotels/{id}/delete", c.deleteHotel)
	s.mux.Get("/create", c.createForm)
	s.mux.Get("/edit", c.editForm)
	s.mux.Get("/edit/{id}", c.editForm)
	s.mux.Get("/forms/{fid}", c.showForm)
	s.mux.Post("/forms/{fid}", c.postForm)
}

// ---- page models ----

type stats struct{ Hotels, Rooms, Avg int }

func statsOf(hs []domain.HotelSummary) stats {
	st := stats{Hotels: len(hs)}
	for _, h := range hs {
		st.Rooms += h.MaxRooms
	}
	if st.Hotels > 0 {
		st.Avg = int(math.Round(float64(st.Rooms) / float64(st.Hotels)))
	}
	return st
}

type homePage struct {
	Hotels []domain.HotelSummary
	Stats  stats
	Notice *form.Alert
}

type detailsPage struct {
	Hotel domain.Hotel
}

type messagePage struct {
	Title   string
	Message string
}

type formPage struct {
	FormID         string
	View           form.View
	Busy           bool
	Done           bool
	RoomTypes      []domain.RoomType
	Accommodations []domain.Accommodation
}

func (c *Console) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := c.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown page template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("render page failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write page")
	}
}

func (c *Console) message(w http.ResponseWriter, status int, title, msg string) {
	c.render(w, status, "message.html", messagePage{Title: title, Message: msg})
}

// ---- directory ----

func (c *Console) home(w http.ResponseWriter, r *http.Request) {
	var page homePage
	switch r.URL.Query().Get("deleted") {
	case "ok":
		page.Notice = &form.Alert{Message: msgDeleted, Severity: form.SeveritySuccess}
	case "error":
		page.Notice = &form.Alert{Message: msgDeleteFailed, Severity: form.SeverityDanger}
	}

	list, err := c.dir.ListHotels(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list hotels failed")
		if page.Notice == nil {
			page.Notice = &form.Alert{Message: msgListFailed, Severity: form.SeverityDanger}
		}
	}
	page.Hotels = list
	page.Stats = statsOf(list)
	c.render(w, http.StatusOK, "home.html", page)
}

func (c *Console) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Redirect(w, r, "/?deleted=error", http.StatusSeeOther)
		return
	}
	err = c.dir.DeleteHotel(r.Context(), id)
	observability.ObserveDelete(err)
	if err != nil {
		log.Warn().Err(err).Int64("hotel_id", id).Msg("delete hotel failed")
		http.Redirect(w, r, "/?deleted=error", http.StatusSeeOther)
		return
	}
	log.Info().Int64("hotel_id", id).Msg("hotel deleted")
	http.Redirect(w, r, "/?deleted=ok", http.StatusSeeOther)
}

func (c *Console) details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.message(w, http.StatusNotFound, "Hotel no encontrado", msgDetailFailed)
		return
	}
	h, err := c.api.FetchHotel(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		log.Warn().Err(err).Int64("hotel_id", id).Msg("fetch hotel failed")
		c.message(w, status, "Hotel", msgDetailFailed)
		return
	}
	c.render(w, http.StatusOK, "details.html", detailsPage{Hotel: h})
}

// ---- forms ----

func (c *Console) createForm(w http.ResponseWriter, r *http.Request) {
	fid, _ := c.forms.Open(r.Context(), c.api, 0, c.opts...)
	http.Redirect(w, r, "/forms/"+fid, http.StatusSeeOther)
}

func (c *Console) editForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.message(w, http.StatusBadRequest, "Editar Hotel", msgNoHotelID)
		return
	}
	fid, _ := c.forms.Open(r.Context(), c.api, id, c.opts...)
	http.Redirect(w, r, "/forms/"+fid, http.StatusSeeOther)
}

func (c *Console) showForm(w http.ResponseWriter, r *http.Request) {
	fid := chi.URLParam(r, "fid")
	fc, ok := c.forms.Get(fid)
	if !ok {
		// closed after a successful save, or expired
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	v := fc.View()
	if v.Redirect != nil {
		w.Header().Set("Refresh", fmt.Sprintf("%d; url=/", int(v.Redirect.Delay.Seconds())))
	}
	c.render(w, http.StatusOK, "form.html", formPage{
		FormID:         fid,
		View:           v,
		Busy:           v.State == form.StateSubmitting || v.State == form.StateLoading,
		Done:           v.State == form.StateSucceeded,
		RoomTypes:      domain.RoomTypes,
		Accommodations: domain.Accommodations,
	})
}

func (c *Console) postForm(w http.ResponseWriter, r *http.Request) {
	fid := chi.URLParam(r, "fid")
	fc, ok := c.forms.Get(fid)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if fc.State() == form.StateSucceeded {
		// saved; nothing but the scheduled navigation may touch it now
		http.Redirect(w, r, "/forms/"+fid, http.StatusSeeOther)
		return
	}
	applyPosted(fc, r.PostForm)

	action := r.PostForm.Get("action")
	switch {
	case action == "add":
		fc.AppendRoom()
	case strings.HasPrefix(action, "remove:"):
		if k, err := strconv.ParseUint(strings.TrimPrefix(action, "remove:"), 10, 64); err == nil {
			fc.RemoveRoom(fc.RoomIndex(form.RoomKey(k)))
		}
	case action == "reload":
		fc.Load(r.Context())
	default:
		// a dropped browser connection must not abort a write already sent
		out := fc.Submit(context.WithoutCancel(r.Context()))
		observability.ObserveFormSubmit(fc.HotelID() > 0, out.String())
		log.Debug().Str("form_id", fid).Str("outcome", out.String()).Msg("form submitted")
	}
	http.Redirect(w, r, "/forms/"+fid, http.StatusSeeOther)
}

var scalarFields = []string{domain.FieldName, domain.FieldAddress, domain.FieldCity, domain.FieldNIT, domain.FieldMaxRooms}

var roomFields = []string{domain.RoomFieldType, domain.RoomFieldAccommodation, domain.RoomFieldQuantity}

// roomInput is the posted name of one row column. Rows are addressed by
// their stable key so a removal between render and post hits the right row.
func roomInput(k form.RoomKey, field string) string {
	return "rooms." + strconv.FormatUint(uint64(k), 10) + "." + field
}

// applyPosted feeds the values that actually changed into the controller, so
// errors on untouched fields survive a round trip.
func applyPosted(fc *form.Controller, pf url.Values) {
	v := fc.View()
	current := map[string]string{
		domain.FieldName:     v.Draft.Name,
		domain.FieldAddress:  v.Draft.Address,
		domain.FieldCity:     v.Draft.City,
		domain.FieldNIT:      v.Draft.NIT,
		domain.FieldMaxRooms: strconv.Itoa(v.Draft.MaxRooms),
	}
	for _, f := range scalarFields {
		vals, ok := pf[f]
		if !ok || sameValue(f == domain.FieldMaxRooms, current[f], vals[0]) {
			continue
		}
		_ = fc.Change(f, vals[0])
	}

	for _, row := range v.Rows {
		cur := map[string]string{
			domain.RoomFieldType:          string(row.Room.RoomType),
			domain.RoomFieldAccommodation: string(row.Room.Accommodation),
			domain.RoomFieldQuantity:      strconv.Itoa(row.Room.Quantity),
		}
		for _, f := range roomFields {
			vals, ok := pf[roomInput(row.Key, f)]
			if !ok || sameValue(f == domain.RoomFieldQuantity, cur[f], vals[0]) {
				continue
			}
			if err := fc.ChangeRoom(row.Key, f, vals[0]); err != nil {
				log.Debug().Err(err).Msg("ignoring posted room value")
			}
		}
	}
}

func sameValue(numeric bool, cur, posted string) bool {
	if !numeric {
		return cur == posted
	}
	n, err := strconv.Atoi(strings.TrimSpace(posted))
	if err != nil {
		n = 0
	}
	return strconv.Itoa(n) == cur
}
