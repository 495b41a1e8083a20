// Package redis implements the persistence store on Redis/Valkey. Records
// are stored as JSON documents under prefixed keys.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/campus-scheduler/internal/persistence"
)

// Options configures the Redis connection.
type Options struct {
	Addr      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Store implements persistence.Store on Redis.
type Store struct {
	client    *redis.Client
	keyPrefix string
}

// Open connects to Redis and verifies the connection with a ping.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", persistence.ErrUnavailable, err)
	}

	return &Store{client: client, keyPrefix: opts.KeyPrefix}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(parts ...string) string {
	key := s.keyPrefix
	for i, part := range parts {
		if i > 0 {
			key += ":"
		}
		key += part
	}
	return key
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return persistence.ErrNotFound
	}
	return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
}

// --- BookingRepository ---

// bookingDoc is the stored form of a booking. Seq preserves insertion order
// so FindByRoomAndDate returns bookings in stored order.
type bookingDoc struct {
	persistence.Booking
	Seq int64
}

func (s *Store) bookingKey(id string) string {
	return s.key("bookings", id)
}

// SaveBooking writes the booking document and registers it in the per-room,
// per-day index set.
func (s *Store) SaveBooking(ctx context.Context, booking persistence.Booking) error {
	doc := bookingDoc{Booking: booking}

	var staleIndex string
	existing, err := s.client.Get(ctx, s.bookingKey(booking.ID)).Bytes()
	switch {
	case err == nil:
		var prev bookingDoc
		if uerr := json.Unmarshal(existing, &prev); uerr != nil {
			return fmt.Errorf("redis: unmarshal booking: %w", uerr)
		}
		doc.Seq = prev.Seq
		staleIndex = s.roomDayKey(prev.RoomName, prev.Date)
	case errors.Is(err, redis.Nil):
		doc.Seq, err = s.client.Incr(ctx, s.key("bookings", "seq")).Result()
		if err != nil {
			return mapError(err)
		}
	default:
		return mapError(err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("redis: marshal booking: %w", err)
	}

	pipe := s.client.TxPipeline()
	if staleIndex != "" {
		// Reschedule may move the booking; the stale index entry goes in the
		// same transaction as the re-add so neither can be lost alone.
		pipe.SRem(ctx, staleIndex, booking.ID)
	}
	pipe.Set(ctx, s.bookingKey(booking.ID), data, 0)
	pipe.SAdd(ctx, s.key("bookings", "all"), booking.ID)
	pipe.SAdd(ctx, s.roomDayKey(booking.RoomName, booking.Date), booking.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Store) roomDayKey(roomName string, date time.Time) string {
	return s.key("bookings", "room", roomName, persistence.DayKey(date))
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	data, err := s.client.Get(ctx, s.bookingKey(id)).Bytes()
	if err != nil {
		return persistence.Booking{}, mapError(err)
	}
	var doc bookingDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return persistence.Booking{}, fmt.Errorf("redis: unmarshal booking: %w", err)
	}
	return doc.Booking, nil
}

// FindByRoomAndDate returns bookings for one room on one calendar day in
// stored order.
func (s *Store) FindByRoomAndDate(ctx context.Context, roomName string, date time.Time) ([]persistence.Booking, error) {
	ids, err := s.client.SMembers(ctx, s.roomDayKey(roomName, date)).Result()
	if err != nil {
		return nil, mapError(err)
	}

	docs, err := s.fetchBookingDocs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })

	bookings := make([]persistence.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, doc.Booking)
	}
	return bookings, nil
}

// ListBookings returns all bookings ordered by date, start time, then ID.
func (s *Store) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	ids, err := s.client.SMembers(ctx, s.key("bookings", "all")).Result()
	if err != nil {
		return nil, mapError(err)
	}

	docs, err := s.fetchBookingDocs(ctx, ids)
	if err != nil {
		return nil, err
	}

	bookings := make([]persistence.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, doc.Booking)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Date.Equal(bookings[j].Date) {
			return bookings[i].Date.Before(bookings[j].Date)
		}
		if bookings[i].StartTime != bookings[j].StartTime {
			return bookings[i].StartTime < bookings[j].StartTime
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings, nil
}

// DeleteBooking removes a booking and its index entries.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.bookingKey(id))
	pipe.SRem(ctx, s.key("bookings", "all"), id)
	pipe.SRem(ctx, s.roomDayKey(booking.RoomName, booking.Date), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Store) fetchBookingDocs(ctx context.Context, ids []string) ([]bookingDoc, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.bookingKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, mapError(err)
	}

	docs := make([]bookingDoc, 0, len(values))
	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var doc bookingDoc
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("redis: unmarshal booking: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// --- RoomRepository ---

func (s *Store) roomKey(id string) string {
	return s.key("rooms", id)
}

// SaveRoom writes the room document. Room names are unique, enforced through
// a name-to-ID hash.
func (s *Store) SaveRoom(ctx context.Context, room persistence.Room) error {
	nameIndex := s.key("rooms", "byname")

	ownerID, err := s.client.HGet(ctx, nameIndex, room.RoomName).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return mapError(err)
	}
	if err == nil && ownerID != room.ID {
		return persistence.ErrDuplicate
	}

	// Renaming a room must release its old name.
	if prev, gerr := s.GetRoom(ctx, room.ID); gerr == nil && prev.RoomName != room.RoomName {
		s.client.HDel(ctx, nameIndex, prev.RoomName)
	}

	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("redis: marshal room: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.roomKey(room.ID), data, 0)
	pipe.SAdd(ctx, s.key("rooms", "all"), room.ID)
	pipe.HSet(ctx, nameIndex, room.RoomName, room.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	data, err := s.client.Get(ctx, s.roomKey(id)).Bytes()
	if err != nil {
		return persistence.Room{}, mapError(err)
	}
	var room persistence.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return persistence.Room{}, fmt.Errorf("redis: unmarshal room: %w", err)
	}
	return room, nil
}

// GetRoomByName retrieves a room by its unique name.
func (s *Store) GetRoomByName(ctx context.Context, roomName string) (persistence.Room, error) {
	id, err := s.client.HGet(ctx, s.key("rooms", "byname"), roomName).Result()
	if err != nil {
		return persistence.Room{}, mapError(err)
	}
	return s.GetRoom(ctx, id)
}

// ListRooms returns all rooms ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	ids, err := s.client.SMembers(ctx, s.key("rooms", "all")).Result()
	if err != nil {
		return nil, mapError(err)
	}

	rooms := make([]persistence.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.GetRoom(ctx, id)
		if errors.Is(err, persistence.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].RoomName == rooms[j].RoomName {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].RoomName < rooms[j].RoomName
	})
	return rooms, nil
}

// DeleteRoom removes a room and releases its name.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.roomKey(id))
	pipe.SRem(ctx, s.key("rooms", "all"), id)
	pipe.HDel(ctx, s.key("rooms", "byname"), room.RoomName)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// --- LecturerRepository ---

// SaveLecturer writes the lecturer document.
func (s *Store) SaveLecturer(ctx context.Context, lecturer persistence.Lecturer) error {
	data, err := json.Marshal(lecturer)
	if err != nil {
		return fmt.Errorf("redis: marshal lecturer: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key("lecturers", lecturer.ID), data, 0)
	pipe.SAdd(ctx, s.key("lecturers", "all"), lecturer.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// ListLecturers returns all lecturers ordered by name.
func (s *Store) ListLecturers(ctx context.Context) ([]persistence.Lecturer, error) {
	ids, err := s.client.SMembers(ctx, s.key("lecturers", "all")).Result()
	if err != nil {
		return nil, mapError(err)
	}

	lecturers := make([]persistence.Lecturer, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, s.key("lecturers", id)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, mapError(err)
		}
		var lecturer persistence.Lecturer
		if err := json.Unmarshal(data, &lecturer); err != nil {
			return nil, fmt.Errorf("redis: unmarshal lecturer: %w", err)
		}
		lecturers = append(lecturers, lecturer)
	}

	sort.Slice(lecturers, func(i, j int) bool {
		if lecturers[i].Name == lecturers[j].Name {
			return lecturers[i].ID < lecturers[j].ID
		}
		return lecturers[i].Name < lecturers[j].Name
	})
	return lecturers, nil
}

// --- EnrollmentRepository ---

// SaveEnrollment writes the enrollment document.
func (s *Store) SaveEnrollment(ctx context.Context, enrollment persistence.Enrollment) error {
	data, err := json.Marshal(enrollment)
	if err != nil {
		return fmt.Errorf("redis: marshal enrollment: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key("enrollments", enrollment.ID), data, 0)
	pipe.SAdd(ctx, s.key("enrollments", "all"), enrollment.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// ListEnrollments returns all enrollments in creation order.
func (s *Store) ListEnrollments(ctx context.Context) ([]persistence.Enrollment, error) {
	enrollments, err := s.loadEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	sortEnrollments(enrollments)
	return enrollments, nil
}

// ListEnrollmentsByStudent returns one student's enrollments.
func (s *Store) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]persistence.Enrollment, error) {
	all, err := s.loadEnrollments(ctx)
	if err != nil {
		return nil, err
	}

	enrollments := make([]persistence.Enrollment, 0)
	for _, enrollment := range all {
		if enrollment.StudentID == studentID {
			enrollments = append(enrollments, enrollment)
		}
	}
	sortEnrollments(enrollments)
	return enrollments, nil
}

// CountEnrollmentsByCourseCode counts enrollments for one course.
func (s *Store) CountEnrollmentsByCourseCode(ctx context.Context, courseCode string) (int, error) {
	all, err := s.loadEnrollments(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, enrollment := range all {
		if enrollment.CourseCode == courseCode {
			count++
		}
	}
	return count, nil
}

func (s *Store) loadEnrollments(ctx context.Context) ([]persistence.Enrollment, error) {
	ids, err := s.client.SMembers(ctx, s.key("enrollments", "all")).Result()
	if err != nil {
		return nil, mapError(err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key("enrollments", id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, mapError(err)
	}

	enrollments := make([]persistence.Enrollment, 0, len(values))
	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var enrollment persistence.Enrollment
		if err := json.Unmarshal([]byte(data), &enrollment); err != nil {
			return nil, fmt.Errorf("redis: unmarshal enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, nil
}

func sortEnrollments(enrollments []persistence.Enrollment) {
	sort.Slice(enrollments, func(i, j int) bool {
		if !enrollments[i].CreatedAt.Equal(enrollments[j].CreatedAt) {
			return enrollments[i].CreatedAt.Before(enrollments[j].CreatedAt)
		}
		return enrollments[i].ID < enrollments[j].ID
	})
}

// --- ExamRepository ---

// SaveExam writes the exam document.
func (s *Store) SaveExam(ctx context.Context, exam persistence.Exam) error {
	data, err := json.Marshal(exam)
	if err != nil {
		return fmt.Errorf("redis: marshal exam: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key("exams", exam.ID), data, 0)
	pipe.SAdd(ctx, s.key("exams", "all"), exam.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// GetExam retrieves an exam by ID.
func (s *Store) GetExam(ctx context.Context, id string) (persistence.Exam, error) {
	data, err := s.client.Get(ctx, s.key("exams", id)).Bytes()
	if err != nil {
		return persistence.Exam{}, mapError(err)
	}
	var exam persistence.Exam
	if err := json.Unmarshal(data, &exam); err != nil {
		return persistence.Exam{}, fmt.Errorf("redis: unmarshal exam: %w", err)
	}
	return exam, nil
}

// ListExams returns all exams ordered by date then ID.
func (s *Store) ListExams(ctx context.Context) ([]persistence.Exam, error) {
	ids, err := s.client.SMembers(ctx, s.key("exams", "all")).Result()
	if err != nil {
		return nil, mapError(err)
	}

	exams := make([]persistence.Exam, 0, len(ids))
	for _, id := range ids {
		exam, err := s.GetExam(ctx, id)
		if errors.Is(err, persistence.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}

	sort.Slice(exams, func(i, j int) bool {
		if !exams[i].Date.Equal(exams[j].Date) {
			return exams[i].Date.Before(exams[j].Date)
		}
		return exams[i].ID < exams[j].ID
	})
	return exams, nil
}

// ListExamsByCourseCodes returns exams whose course code appears in
// courseCodes, ordered by date then ID.
func (s *Store) ListExamsByCourseCodes(ctx context.Context, courseCodes []string) ([]persistence.Exam, error) {
	wanted := make(map[string]bool, len(courseCodes))
	for _, code := range courseCodes {
		wanted[code] = true
	}

	all, err := s.ListExams(ctx)
	if err != nil {
		return nil, err
	}

	exams := make([]persistence.Exam, 0)
	for _, exam := range all {
		if wanted[exam.CourseCode] {
			exams = append(exams, exam)
		}
	}
	return exams, nil
}

// DeleteExam removes an exam by ID.
func (s *Store) DeleteExam(ctx context.Context, id string) error {
	if _, err := s.GetExam(ctx, id); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key("exams", id))
	pipe.SRem(ctx, s.key("exams", "all"), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}
