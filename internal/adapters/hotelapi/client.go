// internal/adapters/hotelapi/client.go
package hotelapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_console/internal/adapters/observability"
	"hotel_console/internal/domain"
)

const service = "hotel_api"

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// New returns a client for the hotels API rooted at base (e.g. http://localhost:8080/api).
func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("hotel API base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	_ domain.HotelAPI  = (*Client)(nil)
	_ domain.Directory = (*Client)(nil)
)

// ---- Public API ----

func (c *Client) FetchHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var out domain.Hotel
	err := c.get(ctx, "hotels.get", fmt.Sprintf("%s/hotels/%d", c.base, id), &out)
	return out, err
}

func (c *Client) ListHotels(ctx context.Context) ([]domain.HotelSummary, error) {
	var out []domain.HotelSummary
	err := c.get(ctx, "hotels.list", c.base+"/hotels", &out)
	return out, err
}

func (c *Client) CreateHotel(ctx context.Context, d domain.HotelDraft) (domain.Hotel, error) {
	var out domain.Hotel
	err := c.send(ctx, "hotels.create", http.MethodPost, c.base+"/hotels", normalizeDraft(d), &out)
	return out, err
}

func (c *Client) UpdateHotel(ctx context.Context, id int64, d domain.HotelDraft) (domain.Hotel, error) {
	var out domain.Hotel
	err := c.send(ctx, "hotels.update", http.MethodPut, fmt.Sprintf("%s/hotels/%d", c.base, id), normalizeDraft(d), &out)
	return out, err
}

func (c *Client) DeleteHotel(ctx context.Context, id int64) error {
	return c.send(ctx, "hotels.delete", http.MethodDelete, fmt.Sprintf("%s/hotels/%d", c.base, id), nil, nil)
}

// rooms must serialize as [] rather than null
func normalizeDraft(d domain.HotelDraft) domain.HotelDraft {
	if d.Rooms == nil {
		d.Rooms = []domain.Room{}
	}
	return d
}

// ---- Internals ----

// validationBody is the 422 payload: {"message": "...", "errors": {"field": ["msg"]}}.
type validationBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// send performs a single non-idempotent request. Writes are never retried.
func (c *Client) send(ctx context.Context, endpoint, method, url string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	setHeaders(req)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))
	return decodeResponse(resp, out)
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		setHeaders(req)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("GET %s: %w", endpoint, err)
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		err = decodeResponse(resp, out)
		resp.Body.Close()
		return err
	}
	return lastErr
}

func setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-console/1.0")
}

func decodeResponse(resp *http.Response, out any) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)

	case http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil

	case http.StatusNotFound:
		return domain.ErrNotFound

	case http.StatusUnprocessableEntity:
		var vb validationBody
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&vb); err != nil {
			return fmt.Errorf("decode validation payload: %w", err)
		}
		ve := &domain.ValidationError{Message: vb.Message}
		for field, msgs := range vb.Errors {
			for _, m := range msgs {
				if m = strings.TrimSpace(m); m != "" {
					ve.Add(field, m)
				}
			}
		}
		return ve

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// IsValidation reports whether err carries field errors from a 422.
func IsValidation(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
