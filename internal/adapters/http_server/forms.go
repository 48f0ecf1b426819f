package httpserver

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_console/internal/domain"
	"hotel_console/internal/form"
)

type formSession struct {
	c    *form.Controller
	seen time.Time
}

// FormStore keeps one form controller per open browser form, keyed by a
// random id carried in the URL.
type FormStore struct {
	mu    sync.Mutex
	forms map[string]*formSession
	now   func() time.Time
}

func NewFormStore() *FormStore {
	return &FormStore{forms: map[string]*formSession{}, now: time.Now}
}

// Open mounts a new form and registers it. The form's navigation after a
// successful save closes it.
func (s *FormStore) Open(ctx context.Context, api domain.HotelAPI, hotelID int64, opts ...form.Option) (string, *form.Controller) {
	id := uuid.NewString()
	opts = append(opts[:len(opts):len(opts)], form.WithNavigator(func() { s.Close(id) }))
	c := form.Mount(ctx, api, hotelID, opts...)

	s.mu.Lock()
	s.forms[id] = &formSession{c: c, seen: s.now()}
	s.mu.Unlock()
	return id, c
}

func (s *FormStore) Get(id string) (*form.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs, ok := s.forms[id]
	if !ok {
		return nil, false
	}
	fs.seen = s.now()
	return fs.c, true
}

func (s *FormStore) Close(id string) {
	s.mu.Lock()
	delete(s.forms, id)
	s.mu.Unlock()
}

func (s *FormStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

// Sweep drops forms untouched for longer than maxIdle and cancels any
// navigation they still have pending.
func (s *FormStore) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	cutoff := s.now().Add(-maxIdle)
	var dropped []*form.Controller
	for id, fs := range s.forms {
		if fs.seen.Before(cutoff) {
			dropped = append(dropped, fs.c)
			delete(s.forms, id)
		}
	}
	s.mu.Unlock()

	// controllers are locked outside s.mu; their navigator takes s.mu
	for _, c := range dropped {
		c.Redirect().Cancel()
	}
	return len(dropped)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *FormStore) RunSweeper(ctx context.Context, every, maxIdle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(maxIdle); n > 0 {
				log.Debug().Int("dropped", n).Int("open", s.Len()).Msg("idle forms swept")
			}
		}
	}
}
