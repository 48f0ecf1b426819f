package form

import (
	"strings"

	"hotel_console/internal/domain"
)

const (
	MsgRequired = "Este campo es requerido."
	MsgMin      = "El valor mínimo es 1."
)

// Errors maps a field path ("name", "rooms.2.quantity") to the message shown inline.
type Errors map[string]string

func (e Errors) Get(path string) string { return e[path] }

func (e Errors) Has(path string) bool {
	_, ok := e[path]
	return ok
}

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// shiftRoomsAfterRemove drops the errors of row i and moves the errors of
// later rows up by one, so each message stays on the row it was reported for.
func (e Errors) shiftRoomsAfterRemove(i int) {
	moved := make(map[string]string)
	for path, msg := range e {
		idx, field, ok := domain.ParseRoomPath(path)
		if !ok || idx < i {
			continue
		}
		delete(e, path)
		if idx > i {
			moved[domain.RoomPath(idx-1, field)] = msg
		}
	}
	for path, msg := range moved {
		e[path] = msg
	}
}

// validateDraft applies the local rules: required text, minimum 1 for numbers.
func validateDraft(d domain.HotelDraft) Errors {
	errs := Errors{}
	required := func(path, v string) {
		if strings.TrimSpace(v) == "" {
			errs[path] = MsgRequired
		}
	}
	required(domain.FieldName, d.Name)
	required(domain.FieldAddress, d.Address)
	required(domain.FieldCity, d.City)
	required(domain.FieldNIT, d.NIT)

	// 0 is what an untouched number input holds.
	switch {
	case d.MaxRooms == 0:
		errs[domain.FieldMaxRooms] = MsgRequired
	case d.MaxRooms < 1:
		errs[domain.FieldMaxRooms] = MsgMin
	}

	for i, r := range d.Rooms {
		if r.RoomType == "" {
			errs[domain.RoomPath(i, domain.RoomFieldType)] = MsgRequired
		}
		if r.Accommodation == "" {
			errs[domain.RoomPath(i, domain.RoomFieldAccommodation)] = MsgRequired
		}
		if r.Quantity < 1 {
			errs[domain.RoomPath(i, domain.RoomFieldQuantity)] = MsgMin
		}
	}
	return errs
}
