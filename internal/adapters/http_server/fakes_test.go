package httpserver_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel_console/internal/domain"
	"hotel_console/internal/form"
)

// memRepo is an in-memory domain.HotelRepository.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	hotels map[int64]domain.Hotel
	writes int

	// when set, writes block until release is closed
	entered chan struct{}
	release chan struct{}
}

func newMemRepo(hs ...domain.Hotel) *memRepo {
	r := &memRepo{hotels: map[int64]domain.Hotel{}}
	for _, h := range hs {
		r.hotels[h.ID] = h
		if h.ID > r.nextID {
			r.nextID = h.ID
		}
	}
	return r
}

func (r *memRepo) hold() {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
}

func (r *memRepo) CreateHotel(_ context.Context, d domain.HotelDraft) (int64, error) {
	r.hold()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.nextID++
	r.hotels[r.nextID] = domain.Hotel{ID: r.nextID, HotelDraft: d}
	return r.nextID, nil
}

func (r *memRepo) UpdateHotel(_ context.Context, id int64, d domain.HotelDraft) error {
	r.hold()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if _, ok := r.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	r.hotels[id] = domain.Hotel{ID: id, HotelDraft: d}
	return nil
}

func (r *memRepo) DeleteHotel(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.hotels, id)
	return nil
}

func (r *memRepo) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (r *memRepo) ListHotels(context.Context) ([]domain.HotelSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.HotelSummary{}
	for _, h := range r.hotels {
		out = append(out, h.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hotels)
}

func (r *memRepo) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *memRepo) NITTaken(_ context.Context, nit string, exceptID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.hotels {
		if h.NIT == nit && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

// manualScheduler records scheduled callbacks; Fire runs them.
type manualScheduler struct {
	mu  sync.Mutex
	fns []func()
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) form.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, f)
	return manualTimer{}
}

func (s *manualScheduler) Fire() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

func sampleHotel(id int64) domain.Hotel {
	return domain.Hotel{ID: id, HotelDraft: domain.HotelDraft{
		Name: "Decameron", Address: "Calle 23 58-25", City: "Cartagena", NIT: "12345678-9", MaxRooms: 42,
		Rooms: []domain.Room{{RoomType: domain.RoomEstandar, Accommodation: domain.AccommodationSencilla, Quantity: 25}},
	}}
}
