package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"hotel_console/internal/domain"
	"hotel_console/internal/form"
)

// SeedService loads hotels the same way a person would: it fills a form,
// lets the form validate, and submits it to the API.
type SeedService struct {
	api  domain.HotelAPI
	opts []form.Option
}

func NewSeedService(api domain.HotelAPI, opts ...form.Option) *SeedService {
	return &SeedService{api: api, opts: opts}
}

type SeedResult struct {
	Name    string
	Outcome form.Outcome
	Errors  form.Errors
	Alert   *form.Alert
}

func (s *SeedService) SeedHotel(ctx context.Context, raw map[string]any) (SeedResult, error) {
	rec := MapSeedRecord(raw)
	c := form.New(s.api, 0, s.opts...)

	for field, v := range rec.Fields {
		if err := c.Change(field, v); err != nil {
			return SeedResult{}, err
		}
	}
	for _, rm := range rec.Rooms {
		k := c.AppendRoom()
		for field, v := range rm {
			if err := c.ChangeRoom(k, field, v); err != nil {
				return SeedResult{}, err
			}
		}
	}

	out := c.Submit(ctx)
	return SeedResult{Name: rec.Fields[domain.FieldName], Outcome: out, Errors: c.Errors(), Alert: c.Alert()}, nil
}

// LoadSeedFile reads either a JSON array of hotels or {"hotels": [...]}.
func LoadSeedFile(path string) ([]map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []map[string]any
	if err := json.Unmarshal(b, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Hotels []map[string]any `json:"hotels"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return wrapped.Hotels, nil
}
