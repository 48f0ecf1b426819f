package hotelapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"hotel_console/internal/adapters/hotelapi"
	"hotel_console/internal/domain"
)

func newClient(t *testing.T, h http.Handler) *hotelapi.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := hotelapi.New(ts.URL+"/api", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := hotelapi.New("", 5); err == nil {
		t.Fatalf("expected error for empty base")
	}
}

func TestClient_FetchHotel_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/hotels/42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(503)
		default:
			_, _ = io.WriteString(w, `{"id":42,"name":"Plaza","address":"Av 1","city":"Bogota","nit":"900123","max_rooms":10,
				"rooms":[{"room_type":"Suite","accommodation":"Triple","quantity":2,"id":9,"hotel_id":42}]}`)
		}
	}))

	got, err := cl.FetchHotel(ctx(t), 42)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := domain.Hotel{ID: 42, HotelDraft: domain.HotelDraft{
		Name: "Plaza", Address: "Av 1", City: "Bogota", NIT: "900123", MaxRooms: 10,
		Rooms: []domain.Room{{RoomType: domain.RoomSuite, Accommodation: domain.AccommodationTriple, Quantity: 2}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hotel mismatch (-want +got):\n%s", diff)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_FetchHotel_404(t *testing.T) {
	cl := newClient(t, http.NotFoundHandler())
	_, err := cl.FetchHotel(ctx(t), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_CreateHotel_422(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"The given data was invalid.","errors":{"nit":["NIT ya registrado"],"rooms.0.quantity":["Debe ser al menos 1.", " "]}}`)
	}))

	_, err := cl.CreateHotel(ctx(t), domain.HotelDraft{Name: "Plaza"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	want := map[string][]string{"nit": {"NIT ya registrado"}, "rooms.0.quantity": {"Debe ser al menos 1."}}
	if diff := cmp.Diff(want, ve.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !hotelapi.IsValidation(err) {
		t.Fatalf("IsValidation = false")
	}
	if hits != 1 {
		t.Fatalf("write was sent %d times", hits)
	}
}

func TestClient_CreateHotel_SendsDraftAndDoesNotRetry(t *testing.T) {
	var hits int32
	var got map[string]any
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&got)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := cl.CreateHotel(ctx(t), domain.HotelDraft{Name: "Plaza", MaxRooms: 10})
	if err == nil || hotelapi.IsValidation(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if hits != 1 {
		t.Fatalf("write retried: %d calls", hits)
	}
	if rooms, ok := got["rooms"].([]any); !ok || len(rooms) != 0 {
		t.Fatalf("rooms should be sent as []: %#v", got["rooms"])
	}
	if got["max_rooms"].(float64) != 10 {
		t.Fatalf("max_rooms = %v", got["max_rooms"])
	}
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var methods []string
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			_, _ = io.WriteString(w, `{"id":5,"name":"Nuevo"}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	h, err := cl.UpdateHotel(ctx(t), 5, domain.HotelDraft{Name: "Nuevo"})
	if err != nil || h.ID != 5 || h.Name != "Nuevo" {
		t.Fatalf("update: %+v %v", h, err)
	}
	if err := cl.DeleteHotel(ctx(t), 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []string{"PUT /api/hotels/5", "DELETE /api/hotels/5"}
	if diff := cmp.Diff(want, methods); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ListHotels(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"A","city":"Cali","max_rooms":3},{"id":2,"name":"B","city":"Pasto","max_rooms":5}]`)
	}))
	got, err := cl.ListHotels(ctx(t))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[1].Name != "B" || got[1].MaxRooms != 5 {
		t.Fatalf("unexpected list: %+v", got)
	}
}
