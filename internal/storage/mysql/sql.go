package mysql

const insertHotelSQL = `
INSERT INTO hotels (name, address, city, nit, max_rooms)
VALUES (?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels
SET name       = ?,
    address    = ?,
    city       = ?,
    nit        = ?,
    max_rooms  = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

// Rooms are owned by the hotel row; every write replaces the whole set.
const deleteRoomsSQL = `DELETE FROM hotel_rooms WHERE hotel_id = ?`

const insertRoomsPrefix = "INSERT INTO hotel_rooms\n  (hotel_id, position, room_type, accommodation, quantity)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getHotelSQL = `
SELECT id, name, address, city, nit, max_rooms
FROM hotels
WHERE id = ?
`

const listRoomsSQL = `
SELECT room_type, accommodation, quantity
FROM hotel_rooms
WHERE hotel_id = ?
ORDER BY position, id
`

const listHotelsSQL = `
SELECT id, name, address, city, nit, max_rooms
FROM hotels
ORDER BY id
`

const nitTakenSQL = `SELECT EXISTS(SELECT 1 FROM hotels WHERE nit = ? AND id <> ?)`
