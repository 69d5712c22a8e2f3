package services

import (
	"context"
	"fmt"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrBookingConflict = fmt.Errorf("room is already booked for that interval")
	ErrBookingClosed   = fmt.Errorf("booking is not pending")
)

// FacilitiesService covers rooms, bookings and the visitor log.
type FacilitiesService interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, tenantID, id uuid.UUID) (*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, tenantID, id uuid.UUID) error
	ListRooms(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Room, error)

	RequestBooking(ctx context.Context, req *BookingRequest) (*models.RoomBooking, error)
	DecideBooking(ctx context.Context, tenantID, bookingID, actorID uuid.UUID, approve bool) (*models.RoomBooking, error)
	CancelBooking(ctx context.Context, tenantID, bookingID, userID uuid.UUID) error
	ListRoomBookings(ctx context.Context, tenantID, roomID uuid.UUID, from, to time.Time) ([]*models.RoomBooking, error)
	ListUserBookings(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.RoomBooking, error)

	RegisterVisitor(ctx context.Context, visitor *models.Visitor) error
	ListVisitors(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Visitor, error)
	CheckInVisitor(ctx context.Context, record *models.CheckInOut) error
	CheckOutVisitor(ctx context.Context, tenantID, recordID uuid.UUID) error
	ListOpenCheckIns(ctx context.Context, tenantID uuid.UUID) ([]*models.CheckInOut, error)
}

type BookingRequest struct {
	TenantID uuid.UUID `json:"-"`
	RoomID   uuid.UUID `json:"room_id" validate:"required"`
	BookedBy uuid.UUID `json:"-"`
	Purpose  string    `json:"purpose" validate:"required"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
}

type facilitiesService struct {
	roomRepo    repositories.RoomRepository
	bookingRepo repositories.BookingRepository
	visitorRepo repositories.VisitorRepository
	auditSvc    AuditService
	logger      zerolog.Logger
}

func NewFacilitiesService(roomRepo repositories.RoomRepository, bookingRepo repositories.BookingRepository, visitorRepo repositories.VisitorRepository, auditSvc AuditService, logger zerolog.Logger) FacilitiesService {
	return &facilitiesService{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		visitorRepo: visitorRepo,
		auditSvc:    auditSvc,
		logger:      logger,
	}
}

func (s *facilitiesService) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	return s.roomRepo.Create(ctx, room)
}

func (s *facilitiesService) GetRoom(ctx context.Context, tenantID, id uuid.UUID) (*models.Room, error) {
	return s.roomRepo.GetByID(ctx, tenantID, id)
}

func (s *facilitiesService) UpdateRoom(ctx context.Context, room *models.Room) error {
	return s.roomRepo.Update(ctx, room)
}

func (s *facilitiesService) DeleteRoom(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.roomRepo.Delete(ctx, tenantID, id)
}

func (s *facilitiesService) ListRooms(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Room, error) {
	return s.roomRepo.List(ctx, tenantID, limit, offset)
}

// RequestBooking creates a PENDING booking after the overlap check. The
// interval is half-open, so a booking ending at 10:00 does not conflict with
// one starting at 10:00.
func (s *facilitiesService) RequestBooking(ctx context.Context, req *BookingRequest) (*models.RoomBooking, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("ends_at must be after starts_at")
	}

	conflict, err := s.bookingRepo.HasConflict(ctx, req.TenantID, req.RoomID, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if conflict {
		return nil, ErrBookingConflict
	}

	booking := &models.RoomBooking{
		ID:       uuid.New(),
		TenantID: req.TenantID,
		RoomID:   req.RoomID,
		BookedBy: req.BookedBy,
		Purpose:  req.Purpose,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Status:   models.BookingPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return booking, nil
}

func (s *facilitiesService) DecideBooking(ctx context.Context, tenantID, bookingID, actorID uuid.UUID, approve bool) (*models.RoomBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking.Status != models.BookingPending {
		return nil, ErrBookingClosed
	}

	next := models.BookingRejected
	if approve {
		next = models.BookingApproved
	}
	if err := s.bookingRepo.UpdateStatus(ctx, tenantID, bookingID, next); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.auditSvc.RecordTransition(ctx, nil, tenantID, "room_bookings", bookingID.String(), models.BookingPending, next, &actorID)
	booking.Status = next
	return booking, nil
}

// CancelBooking lets the requester withdraw their own booking.
func (s *facilitiesService) CancelBooking(ctx context.Context, tenantID, bookingID, userID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}
	if booking.BookedBy != userID {
		return fmt.Errorf("only the requester can cancel a booking")
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingApproved {
		return ErrBookingClosed
	}
	return s.bookingRepo.UpdateStatus(ctx, tenantID, bookingID, models.BookingCancelled)
}

func (s *facilitiesService) ListRoomBookings(ctx context.Context, tenantID, roomID uuid.UUID, from, to time.Time) ([]*models.RoomBooking, error) {
	return s.bookingRepo.ListByRoom(ctx, tenantID, roomID, from, to)
}

func (s *facilitiesService) ListUserBookings(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.RoomBooking, error) {
	return s.bookingRepo.ListByUser(ctx, tenantID, userID, limit, offset)
}

func (s *facilitiesService) RegisterVisitor(ctx context.Context, visitor *models.Visitor) error {
	if visitor.ID == uuid.Nil {
		visitor.ID = uuid.New()
	}
	return s.visitorRepo.Create(ctx, visitor)
}

func (s *facilitiesService) ListVisitors(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Visitor, error) {
	return s.visitorRepo.List(ctx, tenantID, limit, offset)
}

func (s *facilitiesService) CheckInVisitor(ctx context.Context, record *models.CheckInOut) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return s.visitorRepo.CheckIn(ctx, record)
}

func (s *facilitiesService) CheckOutVisitor(ctx context.Context, tenantID, recordID uuid.UUID) error {
	return s.visitorRepo.CheckOut(ctx, tenantID, recordID)
}

func (s *facilitiesService) ListOpenCheckIns(ctx context.Context, tenantID uuid.UUID) ([]*models.CheckInOut, error) {
	return s.visitorRepo.ListOpenCheckIns(ctx, tenantID)
}
