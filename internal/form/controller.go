// Package form holds the hotel form: scalar fields, the room rows, local
// validation, submission and the mapping of server validation errors back
// onto fields.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"hotel_console/internal/domain"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoadFailed
	StateSubmitting
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoadFailed:
		return "load_failed"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	}
	return "unknown"
}

// Outcome reports what a Submit call did.
type Outcome int

const (
	OutcomeIgnored   Outcome = iota // already submitting or done
	OutcomeInvalid                  // local validation failed, nothing sent
	OutcomeSucceeded                // saved, redirect scheduled
	OutcomeRejected                 // server returned field errors
	OutcomeFailed                   // any other transport failure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

var (
	ErrUnknownField = errors.New("form: unknown field")
	ErrUnknownRow   = errors.New("form: unknown room row")
)

type Option func(*Controller)

func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

// WithNavigator sets the callback run when the post-success delay elapses.
func WithNavigator(f func()) Option { return func(c *Controller) { c.nav = f } }

func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// Controller owns one hotel form. It is safe for use from several
// goroutines; the lock is not held while a request to the API is in flight.
type Controller struct {
	api   domain.HotelAPI
	sched Scheduler
	nav   func()
	log   zerolog.Logger

	mu       sync.Mutex
	hotelID  int64
	state    State
	draft    domain.HotelDraft // Rooms unused; rows live in rooms
	rooms    *RoomCollection
	errs     Errors
	alert    *Alert
	redirect *Redirect
}

// New returns an empty form. A positive hotelID makes it an edit form that
// starts in StateLoading until Load completes.
func New(api domain.HotelAPI, hotelID int64, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		sched:   RealScheduler,
		log:     zerolog.Nop(),
		hotelID: hotelID,
		rooms:   NewRoomCollection(),
		errs:    Errors{},
	}
	for _, o := range opts {
		o(c)
	}
	if hotelID > 0 {
		c.state = StateLoading
	}
	return c
}

// Mount builds the form and, for an edit form, loads the hotel.
func Mount(ctx context.Context, api domain.HotelAPI, hotelID int64, opts ...Option) *Controller {
	c := New(api, hotelID, opts...)
	if hotelID > 0 {
		c.Load(ctx)
	}
	return c
}

// Load fetches the bound hotel and replaces every field and row with it.
// On failure the form keeps its current (empty) values and shows a danger alert.
// It does nothing while a submit is in flight or after a successful save, and
// a result that arrives after a submit started is dropped.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	id := c.hotelID
	if id <= 0 || c.state == StateSubmitting || c.state == StateSucceeded {
		c.mu.Unlock()
		return
	}
	c.state = StateLoading
	c.mu.Unlock()

	h, err := c.api.FetchHotel(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLoading {
		return
	}
	if err != nil {
		c.log.Error().Err(err).Int64("hotel_id", id).Msg("load hotel failed")
		c.alert = &Alert{Message: msgLoadFailed, Severity: SeverityDanger}
		c.state = StateLoadFailed
		return
	}
	c.draft = h.HotelDraft
	c.draft.Rooms = nil
	c.rooms.Reset(h.Rooms)
	c.errs = Errors{}
	c.state = StateIdle
}

// Change applies a new value to a scalar field and clears its error.
// Numeric fields treat empty or unparsable text as 0.
func (c *Controller) Change(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch field {
	case domain.FieldName:
		c.draft.Name = value
	case domain.FieldAddress:
		c.draft.Address = value
	case domain.FieldCity:
		c.draft.City = value
	case domain.FieldNIT:
		c.draft.NIT = value
	case domain.FieldMaxRooms:
		c.draft.MaxRooms = atoi(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	delete(c.errs, field)
	return nil
}

// ChangeRoom applies a new value to one column of the row keyed k.
func (c *Controller) ChangeRoom(k RoomKey, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms.Get(k)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRow, k)
	}
	switch field {
	case domain.RoomFieldType:
		r.RoomType = domain.RoomType(value)
	case domain.RoomFieldAccommodation:
		r.Accommodation = domain.Accommodation(value)
	case domain.RoomFieldQuantity:
		r.Quantity = atoi(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.rooms.Set(k, r)
	delete(c.errs, domain.RoomPath(c.rooms.IndexOf(k), field))
	return nil
}

// AppendRoom adds a default row (Estandar, Doble, 1).
func (c *Controller) AppendRoom() RoomKey {
	return c.AppendRoomWith(domain.DefaultRoom())
}

func (c *Controller) AppendRoomWith(r domain.Room) RoomKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms.Append(r)
}

// RemoveRoom drops the row at index. Out of range is a no-op.
func (c *Controller) RemoveRoom(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= c.rooms.Len() {
		return
	}
	c.rooms.RemoveAt(index)
	c.errs.shiftRoomsAfterRemove(index)
}

// RoomIndex returns the current position of the row keyed k, or -1.
func (c *Controller) RoomIndex(k RoomKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms.IndexOf(k)
}

// ValidateLocal checks required fields and minimums on the current draft.
func (c *Controller) ValidateLocal() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validateDraft(c.draftLocked())
}

// Submit validates locally and, when clean, creates or updates the hotel.
// A call made while another is in flight is ignored.
func (c *Controller) Submit(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateSucceeded {
		c.mu.Unlock()
		return OutcomeIgnored
	}
	draft := c.draftLocked()
	if errs := validateDraft(draft); len(errs) > 0 {
		c.errs = errs
		c.mu.Unlock()
		return OutcomeInvalid
	}
	c.errs = Errors{}
	c.alert = nil
	c.state = StateSubmitting
	id := c.hotelID
	c.mu.Unlock()

	var err error
	if id > 0 {
		_, err = c.api.UpdateHotel(ctx, id, draft)
	} else {
		_, err = c.api.CreateHotel(ctx, draft)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		msg := msgCreated
		if id > 0 {
			msg = msgUpdated
		}
		c.alert = &Alert{Message: msg, Severity: SeveritySuccess}
		c.errs = Errors{}
		c.state = StateSucceeded
		c.redirect = &Redirect{Delay: RedirectDelay, timer: c.sched.AfterFunc(RedirectDelay, c.navigate)}
		c.log.Info().Int64("hotel_id", id).Str("name", draft.Name).Msg("hotel saved")
		return OutcomeSucceeded
	}

	c.state = StateIdle
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.applyServerErrorsLocked(ve)
		c.log.Warn().Err(err).Int64("hotel_id", id).Int("fields", len(ve.Fields)).Msg("hotel rejected by server")
		return OutcomeRejected
	}
	c.alert = &Alert{Message: msgSaveFailed, Severity: SeverityDanger}
	c.log.Error().Err(err).Int64("hotel_id", id).Msg("save hotel failed")
	return OutcomeFailed
}

// applyServerErrorsLocked puts the first message of each field inline and
// lists every message in one warning alert.
func (c *Controller) applyServerErrorsLocked(ve *domain.ValidationError) {
	var b strings.Builder
	b.WriteString(msgFixErrors)
	for _, path := range ve.Paths() {
		msgs := ve.Fields[path]
		if len(msgs) == 0 {
			continue
		}
		c.errs[path] = msgs[0]
		for _, m := range msgs {
			b.WriteString("\n- ")
			b.WriteString(m)
		}
	}
	if len(c.errs) == 0 && ve.Message != "" {
		b.WriteString("\n- ")
		b.WriteString(ve.Message)
	}
	c.alert = &Alert{Message: b.String(), Severity: SeverityWarning}
}

func (c *Controller) navigate() {
	if c.nav != nil {
		c.nav()
	}
}

func (c *Controller) draftLocked() domain.HotelDraft {
	d := c.draft
	d.Rooms = c.rooms.Values()
	return d
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) HotelID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hotelID
}

// Draft returns the values that would be submitted now.
func (c *Controller) Draft() domain.HotelDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftLocked()
}

func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs.clone()
}

func (c *Controller) Alert() *Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.alert == nil {
		return nil
	}
	a := *c.alert
	return &a
}

// Redirect returns the navigation scheduled by a successful submit, if any.
func (c *Controller) Redirect() *Redirect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redirect
}

// Row is one rendered room line: stable key for binding, index for error paths.
type Row struct {
	Key   RoomKey
	Index int
	Room  domain.Room
}

// View is a consistent snapshot of the form for rendering.
type View struct {
	State    State
	HotelID  int64
	Draft    domain.HotelDraft
	Rows     []Row
	Errors   Errors
	Alert    *Alert
	Redirect *Redirect
}

func (v View) Editing() bool { return v.HotelID > 0 }

func (v View) RowError(index int, field string) string {
	return v.Errors[domain.RoomPath(index, field)]
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:    c.state,
		HotelID:  c.hotelID,
		Draft:    c.draftLocked(),
		Errors:   c.errs.clone(),
		Redirect: c.redirect,
	}
	for i, k := range c.rooms.Keys() {
		r, _ := c.rooms.Get(k)
		v.Rows = append(v.Rows, Row{Key: k, Index: i, Room: r})
	}
	if c.alert != nil {
		a := *c.alert
		v.Alert = &a
	}
	return v
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
