package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"hotel_console/internal/domain"
)

// MySQL error number for a unique index violation.
const errDupEntry = 1062

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.HotelRepository = (*Repo)(nil)

func (r *Repo) CreateHotel(ctx context.Context, d domain.HotelDraft) (int64, error) {
	var id int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertHotelSQL, d.Name, d.Address, d.City, d.NIT, d.MaxRooms)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertRooms(ctx, tx, id, d.Rooms)
	})
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func (r *Repo) UpdateHotel(ctx context.Context, id int64, d domain.HotelDraft) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateHotelSQL, d.Name, d.Address, d.City, d.NIT, d.MaxRooms, id)
		if err != nil {
			return err
		}
		// RowsAffected is 0 for an unchanged row too, so confirm existence separately
		if n, _ := res.RowsAffected(); n == 0 {
			var one int
			if err := tx.QueryRowContext(ctx, `SELECT 1 FROM hotels WHERE id = ?`, id).Scan(&one); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, deleteRoomsSQL, id); err != nil {
			return err
		}
		return insertRooms(ctx, tx, id, d.Rooms)
	})
	return mapErr(err)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var h domain.Hotel
	if err := r.db.QueryRowContext(ctx, getHotelSQL, id).Scan(
		&h.ID, &h.Name, &h.Address, &h.City, &h.NIT, &h.MaxRooms,
	); err != nil {
		return domain.Hotel{}, mapErr(err)
	}

	rows, err := r.db.QueryContext(ctx, listRoomsSQL, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer rows.Close()

	h.Rooms = []domain.Room{}
	for rows.Next() {
		var rm domain.Room
		var rt, acc string
		if err := rows.Scan(&rt, &acc, &rm.Quantity); err != nil {
			return domain.Hotel{}, err
		}
		rm.RoomType = domain.RoomType(rt)
		rm.Accommodation = domain.Accommodation(acc)
		h.Rooms = append(h.Rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.HotelSummary, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelSummary{}
	for rows.Next() {
		var s domain.HotelSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.NIT, &s.MaxRooms); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) NITTaken(ctx context.Context, nit string, exceptID int64) (bool, error) {
	var taken bool
	if err := r.db.QueryRowContext(ctx, nitTakenSQL, nit, exceptID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (r *Repo) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertRooms(ctx context.Context, tx *sql.Tx, hotelID int64, rooms []domain.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	values := make([]string, 0, len(rooms))
	args := make([]any, 0, len(rooms)*5) // 5 params per row
	for i, rm := range rooms {
		values = append(values, "(?,?,?,?,?)")
		args = append(args, hotelID, i, string(rm.RoomType), string(rm.Accommodation), rm.Quantity)
	}
	if _, err := tx.ExecContext(ctx, insertRoomsPrefix+strings.Join(values, ","), args...); err != nil {
		return fmt.Errorf("insert rooms for hotel %d: %w", hotelID, err)
	}
	return nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == errDupEntry && strings.Contains(me.Message, "nit") {
		return domain.ErrDuplicateNIT
	}
	return err
}
