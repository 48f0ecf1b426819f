package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	redisad "hotel_console/internal/adapters/redis"
	"hotel_console/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0, "test:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_MissSetHit(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got domain.Hotel
	ok, err := c.Get(ctx, "hotel:1", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := domain.Hotel{ID: 1, HotelDraft: domain.HotelDraft{
		Name: "Plaza", City: "Bogota", MaxRooms: 10,
		Rooms: []domain.Room{domain.DefaultRoom()},
	}}
	if err := c.Set(ctx, "hotel:1", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("test:hotel:1") {
		t.Fatalf("key not stored under prefix; keys=%v", mr.Keys())
	}

	ok, err = c.Get(ctx, "hotel:1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cached value mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_TTLAndDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "hotels:all", []int{1, 2}, 30)
	if ttl := mr.TTL("test:hotels:all"); ttl != 30*time.Second {
		t.Fatalf("ttl = %s", ttl)
	}

	if err := c.Del(ctx, "hotels:all"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var out []int
	if ok, _ := c.Get(ctx, "hotels:all", &out); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_Ping(t *testing.T) {
	c, _ := newCache(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
