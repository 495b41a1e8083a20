package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

// SaveRoom upserts a room and rewrites its equipment rows in one transaction.
func (s *Store) SaveRoom(ctx context.Context, room persistence.Room) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO rooms (id, room_name, capacity, condition, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				room_name = excluded.room_name,
				capacity = excluded.capacity,
				condition = excluded.condition,
				updated_at = excluded.updated_at
		`
		_, err := tx.ExecContext(ctx, query,
			room.ID,
			room.RoomName,
			room.Capacity,
			room.Condition,
			room.CreatedAt.UTC().Format(time.RFC3339),
			room.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM room_equipment WHERE room_id = ?`, room.ID); err != nil {
			return mapError(err)
		}
		for _, name := range room.Equipment {
			quantity := 1
			if room.EquipmentQuantity != nil {
				if qty, ok := room.EquipmentQuantity[name]; ok {
					quantity = qty
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO room_equipment (room_id, name, quantity) VALUES (?, ?, ?)`,
				room.ID, name, quantity,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetRoomByName retrieves a room by its unique name.
func (s *Store) GetRoomByName(ctx context.Context, roomName string) (persistence.Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, room_name, capacity, condition, created_at, updated_at FROM rooms WHERE room_name = ?`,
		roomName,
	)
	room, err := scanRoom(row)
	if err != nil {
		return persistence.Room{}, err
	}
	if err := s.loadEquipment(ctx, &room); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_name, capacity, condition, created_at, updated_at FROM rooms ORDER BY room_name ASC, id ASC`,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range rooms {
		if err := s.loadEquipment(ctx, &rooms[i]); err != nil {
			return nil, err
		}
	}
	return rooms, nil
}

// DeleteRoom removes a room and its equipment rows.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM room_equipment WHERE room_id = ?`, id); err != nil {
			return mapError(err)
		}
		return nil
	})
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var createdStr, updatedStr string

	err := row.Scan(&room.ID, &room.RoomName, &room.Capacity, &room.Condition, &createdStr, &updatedStr)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}
	if room.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return room, nil
}

func (s *Store) loadEquipment(ctx context.Context, room *persistence.Room) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, quantity FROM room_equipment WHERE room_id = ?`, room.ID,
	)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var quantity int
		if err := rows.Scan(&name, &quantity); err != nil {
			return mapError(err)
		}
		room.Equipment = append(room.Equipment, name)
		if room.EquipmentQuantity == nil {
			room.EquipmentQuantity = make(map[string]int)
		}
		room.EquipmentQuantity[name] = quantity
	}
	if err := rows.Err(); err != nil {
		return mapError(err)
	}

	sort.Strings(room.Equipment)
	return nil
}
