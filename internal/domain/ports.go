package domain

import "context"

// HotelAPI is what the form controller needs from the hotels backend.
// Failures are ErrNotFound, *ValidationError, or a transport error.
type HotelAPI interface {
	FetchHotel(ctx context.Context, id int64) (Hotel, error)
	CreateHotel(ctx context.Context, draft HotelDraft) (Hotel, error)
	UpdateHotel(ctx context.Context, id int64, draft HotelDraft) (Hotel, error)
}

// Directory lists and deletes hotels for the console home page.
type Directory interface {
	ListHotels(ctx context.Context) ([]HotelSummary, error)
	DeleteHotel(ctx context.Context, id int64) error
}

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, d HotelDraft) (int64, error)
	UpdateHotel(ctx context.Context, id int64, d HotelDraft) error
	DeleteHotel(ctx context.Context, id int64) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context) ([]HotelSummary, error)
	NITTaken(ctx context.Context, nit string, exceptID int64) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
