package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"hotel_console/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Seed files come from spreadsheets and older exports, so the same field
// shows up under English, Spanish and nested names.
var hotelAliases = map[string][]string{
	domain.FieldName:     {"name", "nombre", "hotel_name", "hotel.name", "hotel.nombre"},
	domain.FieldAddress:  {"address", "direccion", "dirección", "address.line", "ubicacion.direccion"},
	domain.FieldCity:     {"city", "ciudad", "address.city", "ubicacion.ciudad"},
	domain.FieldNIT:      {"nit", "NIT", "tax_id", "taxId", "hotel.nit"},
	domain.FieldMaxRooms: {"max_rooms", "maxRooms", "numero_habitaciones", "habitaciones_max", "capacidad"},
	domain.FieldRooms:    {"rooms", "habitaciones", "room_types", "hotel.rooms"},
}

var roomAliases = map[string][]string{
	domain.RoomFieldType:          {"room_type", "roomType", "type", "tipo", "tipo_habitacion"},
	domain.RoomFieldAccommodation: {"accommodation", "acomodacion", "acomodación", "occupancy"},
	domain.RoomFieldQuantity:      {"quantity", "cantidad", "qty", "count"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstAlias returns the first non-nil value for a named alias set.
func firstAlias(m map[string]any, aliases map[string][]string, key string) any {
	for _, p := range aliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

// text renders a scalar as the string a form input would hold.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

var foldAccents = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U")

// canonical matches s case- and accent-insensitively against options and
// returns the canonical spelling, or s unchanged when nothing matches.
func canonical[T ~string](s string, options []T) T {
	folded := foldAccents.Replace(strings.TrimSpace(s))
	for _, o := range options {
		if strings.EqualFold(folded, string(o)) {
			return o
		}
	}
	return T(strings.TrimSpace(s))
}

/********** record mapping **********/

// SeedRecord is one loosely-keyed hotel as read from a seed file, flattened
// to the text values a person would type into the form.
type SeedRecord struct {
	Fields map[string]string
	Rooms  []map[string]string
}

// MapSeedRecord resolves aliases and normalizes room enums.
func MapSeedRecord(m map[string]any) SeedRecord {
	rec := SeedRecord{Fields: make(map[string]string, 5)}
	for _, f := range []string{domain.FieldName, domain.FieldAddress, domain.FieldCity, domain.FieldNIT, domain.FieldMaxRooms} {
		rec.Fields[f] = text(firstAlias(m, hotelAliases, f))
	}

	rooms, _ := firstAlias(m, hotelAliases, domain.FieldRooms).([]any)
	for _, raw := range rooms {
		rm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		rec.Rooms = append(rec.Rooms, map[string]string{
			domain.RoomFieldType:          string(canonical(text(firstAlias(rm, roomAliases, domain.RoomFieldType)), domain.RoomTypes)),
			domain.RoomFieldAccommodation: string(canonical(text(firstAlias(rm, roomAliases, domain.RoomFieldAccommodation)), domain.Accommodations)),
			domain.RoomFieldQuantity:      text(firstAlias(rm, roomAliases, domain.RoomFieldQuantity)),
		})
	}
	return rec
}
