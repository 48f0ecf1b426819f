package httpserver

import (
	"context"
	"testing"
	"time"
)

func TestFormStore_OpenGetSweep(t *testing.T) {
	s := NewFormStore()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	idle, _ := s.Open(context.Background(), nil, 0)
	busy, c := s.Open(context.Background(), nil, 0)
	if idle == busy || s.Len() != 2 {
		t.Fatalf("ids %q %q len %d", idle, busy, s.Len())
	}
	if got, ok := s.Get(busy); !ok || got != c {
		t.Fatalf("Get returned a different controller")
	}

	clock = clock.Add(20 * time.Minute)
	if _, ok := s.Get(busy); !ok {
		t.Fatalf("busy form missing")
	}
	clock = clock.Add(15 * time.Minute)

	if n := s.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, ok := s.Get(idle); ok {
		t.Fatalf("idle form survived sweep")
	}
	if _, ok := s.Get(busy); !ok {
		t.Fatalf("recently used form was swept")
	}

	s.Close(busy)
	if s.Len() != 0 {
		t.Fatalf("len after close = %d", s.Len())
	}
}
