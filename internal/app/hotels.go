package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_console/internal/domain"
)

const listKey = "hotels:all"

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// HotelService backs the REST API: it validates drafts, writes through the
// repository and keeps the read cache coherent.
type HotelService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *HotelService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if h.Rooms == nil {
		h.Rooms = []domain.Room{}
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

func (s *HotelService) ListHotels(ctx context.Context) ([]domain.HotelSummary, error) {
	var out []domain.HotelSummary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, listKey, &out); ok {
			return out, nil
		}
	}
	rows, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	// copy to avoid aliasing the repo's backing array
	out = make([]domain.HotelSummary, len(rows))
	copy(out, rows)
	if s.cache != nil {
		_ = s.cache.Set(ctx, listKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// CreateHotel returns *domain.ValidationError when the draft breaks a rule.
func (s *HotelService) CreateHotel(ctx context.Context, d domain.HotelDraft) (domain.Hotel, error) {
	if err := s.validate(ctx, d, 0); err != nil {
		return domain.Hotel{}, err
	}
	id, err := s.repo.CreateHotel(ctx, d)
	if err != nil {
		return domain.Hotel{}, s.mapWriteErr(err)
	}
	s.invalidate(ctx, 0)
	log.Info().Int64("id", id).Str("nit", d.NIT).Msg("hotel created")
	return domain.Hotel{ID: id, HotelDraft: d}, nil
}

func (s *HotelService) UpdateHotel(ctx context.Context, id int64, d domain.HotelDraft) (domain.Hotel, error) {
	if _, err := s.repo.GetHotel(ctx, id); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.validate(ctx, d, id); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.repo.UpdateHotel(ctx, id, d); err != nil {
		return domain.Hotel{}, s.mapWriteErr(err)
	}
	s.invalidate(ctx, id)
	log.Info().Int64("id", id).Msg("hotel updated")
	return domain.Hotel{ID: id, HotelDraft: d}, nil
}

func (s *HotelService) DeleteHotel(ctx context.Context, id int64) error {
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	log.Info().Int64("id", id).Msg("hotel deleted")
	return nil
}

func (s *HotelService) validate(ctx context.Context, d domain.HotelDraft, exceptID int64) error {
	ve := ValidateDraft(d)
	if _, ok := ve.Fields[domain.FieldNIT]; !ok && d.NIT != "" {
		taken, err := s.repo.NITTaken(ctx, d.NIT, exceptID)
		if err != nil {
			return err
		}
		if taken {
			ve.Add(domain.FieldNIT, MsgNITTaken)
		}
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// mapWriteErr turns a unique-key race on nit into the same 422 a pre-check gives.
func (s *HotelService) mapWriteErr(err error) error {
	if errors.Is(err, domain.ErrDuplicateNIT) {
		ve := &domain.ValidationError{Message: MsgInvalid}
		ve.Add(domain.FieldNIT, MsgNITTaken)
		return ve
	}
	return err
}

// invalidate drops the list and, when id > 0, that hotel's entry.
func (s *HotelService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, listKey)
	if id > 0 {
		_ = s.cache.Del(ctx, hotelKey(id))
	}
}
