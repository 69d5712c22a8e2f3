package repositories

import (
	"context"
	"time"

	"scholaris/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Room, error)
}

type roomRepo struct {
	db DB
}

func NewRoomRepo(db DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (id, tenant_id, name, capacity, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, room.ID, room.TenantID, room.Name, room.Capacity, room.Location)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Room, error) {
	query := `
		SELECT id, tenant_id, name, capacity, location, created_at, updated_at
		FROM rooms
		WHERE tenant_id = $1 AND id = $2
	`
	room := &models.Room{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&room.ID, &room.TenantID, &room.Name, &room.Capacity, &room.Location, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepo) Update(ctx context.Context, room *models.Room) error {
	query := `
		UPDATE rooms
		SET name = $1, capacity = $2, location = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
	`
	_, err := r.db.Exec(ctx, query, room.Name, room.Capacity, room.Location, room.TenantID, room.ID)
	return err
}

func (r *roomRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *roomRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Room, error) {
	query := `
		SELECT id, tenant_id, name, capacity, location, created_at, updated_at
		FROM rooms
		WHERE tenant_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.TenantID, &room.Name, &room.Capacity, &room.Location, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.RoomBooking) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RoomBooking, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	HasConflict(ctx context.Context, tenantID, roomID uuid.UUID, startsAt, endsAt time.Time) (bool, error)
	ListByRoom(ctx context.Context, tenantID, roomID uuid.UUID, from, to time.Time) ([]*models.RoomBooking, error)
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.RoomBooking, error)
}

type bookingRepo struct {
	db DB
}

func NewBookingRepo(db DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.RoomBooking) error {
	query := `
		INSERT INTO room_bookings (id, tenant_id, room_id, booked_by, purpose, starts_at, ends_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, booking.ID, booking.TenantID, booking.RoomID, booking.BookedBy, booking.Purpose, booking.StartsAt, booking.EndsAt, booking.Status)
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RoomBooking, error) {
	query := `
		SELECT id, tenant_id, room_id, booked_by, purpose, starts_at, ends_at, status, created_at, updated_at
		FROM room_bookings
		WHERE tenant_id = $1 AND id = $2
	`
	booking := &models.RoomBooking{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&booking.ID, &booking.TenantID, &booking.RoomID, &booking.BookedBy, &booking.Purpose, &booking.StartsAt, &booking.EndsAt, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE room_bookings SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, tenantID, id)
	return err
}

// HasConflict reports whether any PENDING or APPROVED booking overlaps the
// half-open interval [startsAt, endsAt). Back-to-back bookings do not
// conflict.
func (r *bookingRepo) HasConflict(ctx context.Context, tenantID, roomID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM room_bookings
			WHERE tenant_id = $1 AND room_id = $2
			  AND status IN ('PENDING', 'APPROVED')
			  AND starts_at < $4 AND $3 < ends_at
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, tenantID, roomID, startsAt, endsAt).Scan(&exists)
	return exists, err
}

func (r *bookingRepo) ListByRoom(ctx context.Context, tenantID, roomID uuid.UUID, from, to time.Time) ([]*models.RoomBooking, error) {
	query := `
		SELECT id, tenant_id, room_id, booked_by, purpose, starts_at, ends_at, status, created_at, updated_at
		FROM room_bookings
		WHERE tenant_id = $1 AND room_id = $2 AND starts_at < $4 AND $3 < ends_at
		ORDER BY starts_at
	`
	rows, err := r.db.Query(ctx, query, tenantID, roomID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *bookingRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.RoomBooking, error) {
	query := `
		SELECT id, tenant_id, room_id, booked_by, purpose, starts_at, ends_at, status, created_at, updated_at
		FROM room_bookings
		WHERE tenant_id = $1 AND booked_by = $2
		ORDER BY starts_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]*models.RoomBooking, error) {
	var bookings []*models.RoomBooking
	for rows.Next() {
		booking := &models.RoomBooking{}
		if err := rows.Scan(&booking.ID, &booking.TenantID, &booking.RoomID, &booking.BookedBy, &booking.Purpose, &booking.StartsAt, &booking.EndsAt, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

type VisitorRepository interface {
	Create(ctx context.Context, visitor *models.Visitor) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Visitor, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Visitor, error)
	CheckIn(ctx context.Context, record *models.CheckInOut) error
	CheckOut(ctx context.Context, tenantID, recordID uuid.UUID) error
	ListOpenCheckIns(ctx context.Context, tenantID uuid.UUID) ([]*models.CheckInOut, error)
}

type visitorRepo struct {
	db DB
}

func NewVisitorRepo(db DB) VisitorRepository {
	return &visitorRepo{db: db}
}

func (r *visitorRepo) Create(ctx context.Context, visitor *models.Visitor) error {
	query := `
		INSERT INTO visitors (id, tenant_id, full_name, phone, purpose, host_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, visitor.ID, visitor.TenantID, visitor.FullName, visitor.Phone, visitor.Purpose, visitor.HostName)
	return err
}

func (r *visitorRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Visitor, error) {
	query := `
		SELECT id, tenant_id, full_name, phone, purpose, host_name, created_at
		FROM visitors
		WHERE tenant_id = $1 AND id = $2
	`
	visitor := &models.Visitor{}
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&visitor.ID, &visitor.TenantID, &visitor.FullName, &visitor.Phone, &visitor.Purpose, &visitor.HostName, &visitor.CreatedAt)
	if err != nil {
		return nil, err
	}
	return visitor, nil
}

func (r *visitorRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Visitor, error) {
	query := `
		SELECT id, tenant_id, full_name, phone, purpose, host_name, created_at
		FROM visitors
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []*models.Visitor
	for rows.Next() {
		visitor := &models.Visitor{}
		if err := rows.Scan(&visitor.ID, &visitor.TenantID, &visitor.FullName, &visitor.Phone, &visitor.Purpose, &visitor.HostName, &visitor.CreatedAt); err != nil {
			return nil, err
		}
		visitors = append(visitors, visitor)
	}
	return visitors, rows.Err()
}

func (r *visitorRepo) CheckIn(ctx context.Context, record *models.CheckInOut) error {
	query := `
		INSERT INTO visitor_check_ins (id, tenant_id, visitor_id, checked_in_at, badge_number, recorded_by)
		VALUES ($1, $2, $3, NOW(), $4, $5)
	`
	_, err := r.db.Exec(ctx, query, record.ID, record.TenantID, record.VisitorID, record.BadgeNumber, record.RecordedBy)
	return err
}

// CheckOut is idempotent; a second call leaves the original timestamp.
func (r *visitorRepo) CheckOut(ctx context.Context, tenantID, recordID uuid.UUID) error {
	query := `
		UPDATE visitor_check_ins
		SET checked_out_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND checked_out_at IS NULL
	`
	_, err := r.db.Exec(ctx, query, tenantID, recordID)
	return err
}

func (r *visitorRepo) ListOpenCheckIns(ctx context.Context, tenantID uuid.UUID) ([]*models.CheckInOut, error) {
	query := `
		SELECT id, tenant_id, visitor_id, checked_in_at, checked_out_at, badge_number, recorded_by
		FROM visitor_check_ins
		WHERE tenant_id = $1 AND checked_out_at IS NULL
		ORDER BY checked_in_at
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.CheckInOut
	for rows.Next() {
		record := &models.CheckInOut{}
		if err := rows.Scan(&record.ID, &record.TenantID, &record.VisitorID, &record.CheckedInAt, &record.CheckedOutAt, &record.BadgeNumber, &record.RecordedBy); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
