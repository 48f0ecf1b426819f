package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel_console/internal/domain"
)

const (
	MsgInvalid     = "Los datos proporcionados no son válidos."
	MsgRequired    = "Este campo es requerido."
	MsgMinOne      = "El valor mínimo es 1."
	MsgNITTaken    = "NIT ya registrado"
	MsgBadRoomType = "El tipo de habitación debe ser Estandar, Junior o Suite."
	MsgBadAccom    = "La acomodación debe ser Sencilla, Doble, Triple o Cuadruple."
	MsgDuplicate   = "La combinación de tipo de habitación y acomodación ya existe para este hotel."
)

// allowedAccommodations lists which accommodations each room type supports.
var allowedAccommodations = map[domain.RoomType][]domain.Accommodation{
	domain.RoomEstandar: {domain.AccommodationSencilla, domain.AccommodationDoble},
	domain.RoomJunior:   {domain.AccommodationTriple, domain.AccommodationCuadruple},
	domain.RoomSuite:    {domain.AccommodationSencilla, domain.AccommodationDoble, domain.AccommodationTriple},
}

// Accepts reports whether rt can be configured with a.
func Accepts(rt domain.RoomType, a domain.Accommodation) bool {
	for _, v := range allowedAccommodations[rt] {
		if v == a {
			return true
		}
	}
	return false
}

// draftShape carries the per-field rules; cross-field rules live in ValidateDraft.
type draftShape struct {
	Name     string      `json:"name" validate:"required"`
	Address  string      `json:"address" validate:"required"`
	City     string      `json:"city" validate:"required"`
	NIT      string      `json:"nit" validate:"required"`
	MaxRooms int         `json:"max_rooms" validate:"min=1"`
	Rooms    []roomShape `json:"rooms" validate:"dive"`
}

type roomShape struct {
	RoomType      string `json:"room_type" validate:"required,oneof=Estandar Junior Suite"`
	Accommodation string `json:"accommodation" validate:"required,oneof=Sencilla Doble Triple Cuadruple"`
	Quantity      int    `json:"quantity" validate:"min=1"`
}

var shapeValidator = newShapeValidator()

// newShapeValidator reports fields by their JSON names so namespaces read
// like "draftShape.rooms[0].quantity".
func newShapeValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func shapeOf(d domain.HotelDraft) draftShape {
	s := draftShape{
		Name:     strings.TrimSpace(d.Name),
		Address:  strings.TrimSpace(d.Address),
		City:     strings.TrimSpace(d.City),
		NIT:      strings.TrimSpace(d.NIT),
		MaxRooms: d.MaxRooms,
		Rooms:    make([]roomShape, len(d.Rooms)),
	}
	for i, r := range d.Rooms {
		s.Rooms[i] = roomShape{RoomType: string(r.RoomType), Accommodation: string(r.Accommodation), Quantity: r.Quantity}
	}
	return s
}

// fieldPath turns a validator namespace into a wire path ("rooms.0.quantity").
func fieldPath(ns string) string {
	_, p, _ := strings.Cut(ns, ".")
	if i, f, ok := domain.ParseRoomPath(p); ok {
		return domain.RoomPath(i, f)
	}
	return p
}

func shapeMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "min":
		return MsgMinOne
	case "oneof":
		if fe.Field() == domain.RoomFieldType {
			return MsgBadRoomType
		}
		return MsgBadAccom
	}
	return MsgInvalid
}

// ValidateDraft applies the server-side rules. The returned error set is
// empty (never nil) when the draft is acceptable; uniqueness of nit is
// checked separately against storage.
func ValidateDraft(d domain.HotelDraft) *domain.ValidationError {
	ve := &domain.ValidationError{Message: MsgInvalid}

	if err := shapeValidator.Struct(shapeOf(d)); err != nil {
		var fes validator.ValidationErrors
		if !errors.As(err, &fes) {
			ve.Add(domain.FieldRooms, MsgInvalid)
			return ve
		}
		for _, fe := range fes {
			ve.Add(fieldPath(fe.Namespace()), shapeMessage(fe))
		}
	}

	total := 0
	seen := make(map[domain.Room]int)
	for i, r := range d.Rooms {
		if r.RoomType.Valid() && r.Accommodation.Valid() && !Accepts(r.RoomType, r.Accommodation) {
			ve.Add(domain.RoomPath(i, domain.RoomFieldAccommodation),
				fmt.Sprintf("La acomodación %s no está permitida para habitaciones %s.", r.Accommodation, r.RoomType))
		}
		total += max(r.Quantity, 0)

		key := domain.Room{RoomType: r.RoomType, Accommodation: r.Accommodation}
		if _, dup := seen[key]; dup && r.RoomType != "" && r.Accommodation != "" {
			ve.Add(domain.RoomPath(i, domain.RoomFieldAccommodation), MsgDuplicate)
		}
		seen[key] = i
	}

	if d.MaxRooms >= 1 && total > d.MaxRooms {
		ve.Add(domain.FieldRooms,
			fmt.Sprintf("La cantidad total de habitaciones (%d) supera el máximo permitido (%d).", total, d.MaxRooms))
	}
	return ve
}
