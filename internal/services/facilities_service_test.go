package services

import (
	"context"
	"testing"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.RoomBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RoomBooking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoomBooking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) HasConflict(ctx context.Context, tenantID, roomID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, roomID, startsAt, endsAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ListByRoom(ctx context.Context, tenantID, roomID uuid.UUID, from, to time.Time) ([]*models.RoomBooking, error) {
	args := m.Called(ctx, tenantID, roomID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoomBooking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, limit, offset int) ([]*models.RoomBooking, error) {
	args := m.Called(ctx, tenantID, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoomBooking), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, exec repositories.Executor, tenantID uuid.UUID, tableName, recordID, action string, oldValues, newValues models.JSONB, actorID *uuid.UUID) {
	m.Called(ctx, exec, tenantID, tableName, recordID, action, oldValues, newValues, actorID)
}

func (m *MockAuditService) RecordTransition(ctx context.Context, exec repositories.Executor, tenantID uuid.UUID, tableName, recordID, fromStatus, toStatus string, actorID *uuid.UUID) {
	m.Called(ctx, exec, tenantID, tableName, recordID, fromStatus, toStatus, actorID)
}

func (m *MockAuditService) List(ctx context.Context, tenantID uuid.UUID, filters models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type FacilitiesServiceTestSuite struct {
	suite.Suite
	bookingRepo *MockBookingRepository
	auditSvc    *MockAuditService
	svc         FacilitiesService
	tenantID    uuid.UUID
	roomID      uuid.UUID
	userID      uuid.UUID
	ctx         context.Context
}

func (s *FacilitiesServiceTestSuite) SetupTest() {
	s.bookingRepo = new(MockBookingRepository)
	s.auditSvc = new(MockAuditService)
	s.svc = NewFacilitiesService(nil, s.bookingRepo, nil, s.auditSvc, zerolog.Nop())
	s.tenantID = uuid.New()
	s.roomID = uuid.New()
	s.userID = uuid.New()
	s.ctx = context.Background()
}

func TestFacilitiesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FacilitiesServiceTestSuite))
}

func (s *FacilitiesServiceTestSuite) request(start, end time.Time) *BookingRequest {
	return &BookingRequest{
		TenantID: s.tenantID,
		RoomID:   s.roomID,
		BookedBy: s.userID,
		Purpose:  "Parent meeting",
		StartsAt: start,
		EndsAt:   end,
	}
}

func (s *FacilitiesServiceTestSuite) TestRequestBooking_Success() {
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s.bookingRepo.On("HasConflict", s.ctx, s.tenantID, s.roomID, start, end).Return(false, nil)
	s.bookingRepo.On("Create", s.ctx, mock.AnythingOfType("*models.RoomBooking")).Return(nil)

	booking, err := s.svc.RequestBooking(s.ctx, s.request(start, end))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.BookingPending, booking.Status)
	assert.Equal(s.T(), s.userID, booking.BookedBy)
	s.bookingRepo.AssertExpectations(s.T())
}

func (s *FacilitiesServiceTestSuite) TestRequestBooking_Conflict() {
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s.bookingRepo.On("HasConflict", s.ctx, s.tenantID, s.roomID, start, end).Return(true, nil)

	_, err := s.svc.RequestBooking(s.ctx, s.request(start, end))
	assert.ErrorIs(s.T(), err, ErrBookingConflict)
	s.bookingRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *FacilitiesServiceTestSuite) TestRequestBooking_RejectsEmptyInterval() {
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	_, err := s.svc.RequestBooking(s.ctx, s.request(start, start))
	assert.Error(s.T(), err)

	_, err = s.svc.RequestBooking(s.ctx, s.request(start, start.Add(-time.Hour)))
	assert.Error(s.T(), err)
	s.bookingRepo.AssertNotCalled(s.T(), "HasConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *FacilitiesServiceTestSuite) TestDecideBooking_Approve() {
	bookingID := uuid.New()
	actorID := uuid.New()
	pending := &models.RoomBooking{
		ID:       bookingID,
		TenantID: s.tenantID,
		RoomID:   s.roomID,
		BookedBy: s.userID,
		Status:   models.BookingPending,
	}

	s.bookingRepo.On("GetByID", s.ctx, s.tenantID, bookingID).Return(pending, nil)
	s.bookingRepo.On("UpdateStatus", s.ctx, s.tenantID, bookingID, models.BookingApproved).Return(nil)
	s.auditSvc.On("RecordTransition", s.ctx, nil, s.tenantID, "room_bookings", bookingID.String(),
		models.BookingPending, models.BookingApproved, &actorID).Return()

	booking, err := s.svc.DecideBooking(s.ctx, s.tenantID, bookingID, actorID, true)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.BookingApproved, booking.Status)
	s.auditSvc.AssertExpectations(s.T())
}

func (s *FacilitiesServiceTestSuite) TestDecideBooking_AlreadyDecided() {
	bookingID := uuid.New()
	approved := &models.RoomBooking{
		ID:       bookingID,
		TenantID: s.tenantID,
		Status:   models.BookingApproved,
	}

	s.bookingRepo.On("GetByID", s.ctx, s.tenantID, bookingID).Return(approved, nil)

	_, err := s.svc.DecideBooking(s.ctx, s.tenantID, bookingID, uuid.New(), false)
	assert.ErrorIs(s.T(), err, ErrBookingClosed)
	s.bookingRepo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
