package domain

type RoomType string

const (
	RoomEstandar RoomType = "Estandar"
	RoomJunior   RoomType = "Junior"
	RoomSuite    RoomType = "Suite"
)

var RoomTypes = []RoomType{RoomEstandar, RoomJunior, RoomSuite}

type Accommodation string

const (
	AccommodationSencilla  Accommodation = "Sencilla"
	AccommodationDoble     Accommodation = "Doble"
	AccommodationTriple    Accommodation = "Triple"
	AccommodationCuadruple Accommodation = "Cuadruple"
)

var Accommodations = []Accommodation{
	AccommodationSencilla, AccommodationDoble, AccommodationTriple, AccommodationCuadruple,
}

func (t RoomType) Valid() bool {
	for _, v := range RoomTypes {
		if t == v {
			return true
		}
	}
	return false
}

func (a Accommodation) Valid() bool {
	for _, v := range Accommodations {
		if a == v {
			return true
		}
	}
	return false
}

// Room is one room-configuration line of a hotel. It has no identity of its own.
type Room struct {
	RoomType      RoomType      `json:"room_type"`
	Accommodation Accommodation `json:"accommodation"`
	Quantity      int           `json:"quantity"`
}

// DefaultRoom is what a freshly added form row starts with.
func DefaultRoom() Room {
	return Room{RoomType: RoomEstandar, Accommodation: AccommodationDoble, Quantity: 1}
}

// HotelDraft is a hotel without its server-assigned id.
type HotelDraft struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	NIT      string `json:"nit"`
	MaxRooms int    `json:"max_rooms"`
	Rooms    []Room `json:"rooms"`
}

type Hotel struct {
	ID int64 `json:"id"`
	HotelDraft
}

// HotelSummary is the directory row; rooms are not listed.
type HotelSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	NIT      string `json:"nit"`
	MaxRooms int    `json:"max_rooms"`
}

func (h Hotel) Summary() HotelSummary {
	return HotelSummary{ID: h.ID, Name: h.Name, Address: h.Address, City: h.City, NIT: h.NIT, MaxRooms: h.MaxRooms}
}
