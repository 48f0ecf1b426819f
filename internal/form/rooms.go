package form

import "hotel_console/internal/domain"

// RoomKey is the stable local identity of a room row. Keys are never reused.
type RoomKey uint64

// RoomCollection is an ordered set of rooms addressed by stable key.
// Rows live in an arena keyed by RoomKey; order holds display order only,
// so removing a row never changes another row's key.
type RoomCollection struct {
	next  RoomKey
	order []RoomKey
	items map[RoomKey]domain.Room
}

func NewRoomCollection(rooms ...domain.Room) *RoomCollection {
	rc := &RoomCollection{items: make(map[RoomKey]domain.Room)}
	for _, r := range rooms {
		rc.Append(r)
	}
	return rc
}

// Append adds r at the end and returns its fresh key.
func (rc *RoomCollection) Append(r domain.Room) RoomKey {
	rc.next++
	k := rc.next
	rc.items[k] = r
	rc.order = append(rc.order, k)
	return k
}

// AppendDefault adds a row with the default room (Estandar, Doble, 1).
func (rc *RoomCollection) AppendDefault() RoomKey {
	return rc.Append(domain.DefaultRoom())
}

// RemoveAt drops the row at position i. Out of range is a no-op.
func (rc *RoomCollection) RemoveAt(i int) {
	if i < 0 || i >= len(rc.order) {
		return
	}
	delete(rc.items, rc.order[i])
	rc.order = append(rc.order[:i:i], rc.order[i+1:]...)
}

// Values returns the rooms in display order.
func (rc *RoomCollection) Values() []domain.Room {
	out := make([]domain.Room, len(rc.order))
	for i, k := range rc.order {
		out[i] = rc.items[k]
	}
	return out
}

func (rc *RoomCollection) Len() int { return len(rc.order) }

func (rc *RoomCollection) Keys() []RoomKey {
	return append([]RoomKey(nil), rc.order...)
}

func (rc *RoomCollection) Get(k RoomKey) (domain.Room, bool) {
	r, ok := rc.items[k]
	return r, ok
}

// Set replaces the room stored under k. Unknown keys are ignored.
func (rc *RoomCollection) Set(k RoomKey, r domain.Room) bool {
	if _, ok := rc.items[k]; !ok {
		return false
	}
	rc.items[k] = r
	return true
}

// IndexOf returns the current position of k, or -1.
func (rc *RoomCollection) IndexOf(k RoomKey) int {
	for i, v := range rc.order {
		if v == k {
			return i
		}
	}
	return -1
}

// Reset replaces every row with rooms. New rows get fresh keys.
func (rc *RoomCollection) Reset(rooms []domain.Room) {
	rc.order = rc.order[:0]
	rc.items = make(map[RoomKey]domain.Room, len(rooms))
	for _, r := range rooms {
		rc.Append(r)
	}
}
