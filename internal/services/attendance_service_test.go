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

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AttendanceRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) List(ctx context.Context, tenantID uuid.UUID, filter repositories.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AttendanceRecord), args.Error(1)
}

type AttendanceServiceTestSuite struct {
	suite.Suite
	attendanceRepo *MockAttendanceRepository
	service        AttendanceService
}

func (s *AttendanceServiceTestSuite) SetupTest() {
	s.attendanceRepo = new(MockAttendanceRepository)
	s.service = NewAttendanceService(s.attendanceRepo, nil, zerolog.Nop())
}

func (s *AttendanceServiceTestSuite) TestMarkAttendance_TruncatesToDay() {
	tenantID := uuid.New()
	var saved *models.AttendanceRecord
	s.attendanceRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.AttendanceRecord)
		}).Return(nil)

	record, err := s.service.MarkAttendance(context.Background(), &MarkAttendanceRequest{
		TenantID:  tenantID,
		StudentID: uuid.New(),
		ClassID:   uuid.New(),
		Date:      time.Date(2026, 4, 10, 14, 35, 22, 0, time.UTC),
		Status:    models.AttendanceLate,
		MarkedBy:  uuid.New(),
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), saved)
	assert.Equal(s.T(), time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), saved.Date)
	assert.Equal(s.T(), models.AttendanceLate, record.Status)
}

func (s *AttendanceServiceTestSuite) TestMarkAttendance_RejectsUnknownStatus() {
	_, err := s.service.MarkAttendance(context.Background(), &MarkAttendanceRequest{
		TenantID:  uuid.New(),
		StudentID: uuid.New(),
		ClassID:   uuid.New(),
		Date:      time.Now(),
		Status:    "SLEEPING",
	})
	require.Error(s.T(), err)
	s.attendanceRepo.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *AttendanceServiceTestSuite) TestMarkClassAttendance_BadEntryFailsWholeBatch() {
	entries := []ClassAttendanceEntry{
		{StudentID: uuid.New(), Status: models.AttendancePresent},
		{StudentID: uuid.New(), Status: "bogus"},
	}

	marked, err := s.service.MarkClassAttendance(context.Background(), uuid.New(), uuid.New(), uuid.New(), time.Now(), entries)
	require.Error(s.T(), err)
	assert.Zero(s.T(), marked)
	s.attendanceRepo.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *AttendanceServiceTestSuite) TestMarkClassAttendance_SkipsFailedRows() {
	tenantID := uuid.New()
	classID := uuid.New()
	failing := uuid.New()

	s.attendanceRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *models.AttendanceRecord) bool {
		return r.StudentID == failing
	})).Return(assert.AnError)
	s.attendanceRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.AttendanceRecord")).Return(nil)

	entries := []ClassAttendanceEntry{
		{StudentID: uuid.New(), Status: models.AttendancePresent},
		{StudentID: failing, Status: models.AttendanceAbsent},
		{StudentID: uuid.New(), Status: models.AttendanceExcused},
	}

	marked, err := s.service.MarkClassAttendance(context.Background(), tenantID, classID, uuid.New(), time.Now(), entries)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, marked)
}

func (s *AttendanceServiceTestSuite) TestAttendanceSummary() {
	tenantID := uuid.New()
	studentID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	records := []*models.AttendanceRecord{
		{Status: models.AttendancePresent},
		{Status: models.AttendancePresent},
		{Status: models.AttendanceLate},
		{Status: models.AttendanceAbsent},
		{Status: models.AttendanceExcused},
	}
	s.attendanceRepo.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f repositories.AttendanceFilter) bool {
		return f.StudentID != nil && *f.StudentID == studentID && f.From != nil && f.To != nil
	})).Return(records, nil)

	summary, err := s.service.AttendanceSummary(context.Background(), tenantID, studentID, from, to)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, summary.Present)
	assert.Equal(s.T(), 1, summary.Late)
	assert.Equal(s.T(), 1, summary.Absent)
	assert.Equal(s.T(), 1, summary.Excused)
	assert.Equal(s.T(), 5, summary.Total)
	// late still counts as attended
	assert.InDelta(s.T(), 0.6, summary.PresentRate, 0.0001)
}

func (s *AttendanceServiceTestSuite) TestAttendanceSummary_Empty() {
	tenantID := uuid.New()
	studentID := uuid.New()
	s.attendanceRepo.On("List", mock.Anything, tenantID, mock.Anything).Return([]*models.AttendanceRecord{}, nil)

	summary, err := s.service.AttendanceSummary(context.Background(), tenantID, studentID, time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(s.T(), err)
	assert.Zero(s.T(), summary.Total)
	assert.Zero(s.T(), summary.PresentRate)
}

func TestAttendanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceTestSuite))
}
