package domain

import (
	"strconv"
	"strings"
)

// Field paths as they appear in forms and in 422 payloads.
const (
	FieldName     = "name"
	FieldAddress  = "address"
	FieldCity     = "city"
	FieldNIT      = "nit"
	FieldMaxRooms = "max_rooms"
	FieldRooms    = "rooms"

	RoomFieldType          = "room_type"
	RoomFieldAccommodation = "accommodation"
	RoomFieldQuantity      = "quantity"
)

// RoomPath builds "rooms.<index>.<field>". index is the row position as serialized.
func RoomPath(index int, field string) string {
	return FieldRooms + "." + strconv.Itoa(index) + "." + field
}

// ParseRoomPath splits "rooms.<index>.<field>". Bracket forms like
// "rooms[2].quantity" are accepted too.
func ParseRoomPath(p string) (int, string, bool) {
	p = strings.NewReplacer("[", ".", "]", "").Replace(p)
	parts := strings.Split(p, ".")
	if len(parts) != 3 || parts[0] != FieldRooms || parts[2] == "" {
		return 0, "", false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return 0, "", false
	}
	return idx, parts[2], true
}
