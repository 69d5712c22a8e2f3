package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Student, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByAdmissionNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.Student, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) Update(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockStudentRepository) List(ctx context.Context, tenantID uuid.UUID, filter repositories.StudentSearchFilter) ([]*models.Student, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

func (m *MockStudentRepository) ListByGuardian(ctx context.Context, tenantID, guardianID uuid.UUID) ([]*models.Student, error) {
	args := m.Called(ctx, tenantID, guardianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) Create(ctx context.Context, class *models.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Class, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *MockClassRepository) Update(ctx context.Context, class *models.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassRepository) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockClassRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Class, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Class), args.Error(1)
}

func TestExport_Students(t *testing.T) {
	tenantID := uuid.New()
	dob := time.Date(2014, 5, 9, 0, 0, 0, 0, time.UTC)
	gender := "F"
	classID := uuid.New()

	students := []*models.Student{
		{
			AdmissionNumber: "ADM-001",
			FirstName:       "Priya",
			LastName:        "Nair, Jr.", // comma forces CSV quoting
			DateOfBirth:     &dob,
			Gender:          &gender,
			ClassID:         &classID,
			Status:          models.StudentStatusActive,
			EnrolledAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			AdmissionNumber: "ADM-002",
			FirstName:       "Ben",
			LastName:        "Okafor",
			ClassID:         &classID,
			Status:          models.StudentStatusActive,
			EnrolledAt:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			AdmissionNumber: "ADM-003",
			FirstName:       "Lena",
			LastName:        "Park",
			Status:          models.StudentStatusActive,
			EnrolledAt:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	studentRepo := new(MockStudentRepository)
	studentRepo.On("List", mock.Anything, tenantID, repositories.StudentSearchFilter{Limit: exportBatchSize, Offset: 0}).Return(students, nil)

	// Two students share the class; the memo keeps it to a single lookup.
	classRepo := new(MockClassRepository)
	classRepo.On("GetByID", mock.Anything, tenantID, classID).Return(&models.Class{
		ID:   classID,
		Name: "Grade 4B",
	}, nil).Once()

	svc := NewExportService(studentRepo, classRepo, nil, nil, nil, nil, zerolog.Nop())

	var buf bytes.Buffer
	err := svc.Export(context.Background(), tenantID, "students", ExportRange{}, &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "admission_number,first_name,last_name,date_of_birth,gender,class_name,status,enrolled_at", lines[0])
	assert.Equal(t, `ADM-001,Priya,"Nair, Jr.",2014-05-09,F,Grade 4B,active,2025-06-01`, lines[1])
	assert.Equal(t, "ADM-002,Ben,Okafor,,,Grade 4B,active,2025-06-02", lines[2])
	// no class assigned renders an empty cell
	assert.Equal(t, "ADM-003,Lena,Park,,,,active,2025-06-03", lines[3])

	studentRepo.AssertExpectations(t)
	classRepo.AssertExpectations(t)
}

func TestExport_AttendanceHonorsRange(t *testing.T) {
	tenantID := uuid.New()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	attendanceRepo := new(MockAttendanceRepository)
	attendanceRepo.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f repositories.AttendanceFilter) bool {
		return f.From != nil && f.From.Equal(from) && f.To != nil && f.To.Equal(to)
	})).Return([]*models.AttendanceRecord{}, nil)

	svc := NewExportService(nil, nil, attendanceRepo, nil, nil, nil, zerolog.Nop())

	var buf bytes.Buffer
	err := svc.Export(context.Background(), tenantID, "attendance", ExportRange{From: &from, To: &to}, &buf)
	require.NoError(t, err)
	attendanceRepo.AssertExpectations(t)
}

func TestExport_UnknownType(t *testing.T) {
	svc := NewExportService(new(MockStudentRepository), nil, nil, nil, nil, nil, zerolog.Nop())

	var buf bytes.Buffer
	err := svc.Export(context.Background(), uuid.New(), "grades", ExportRange{}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export type")
	assert.Zero(t, buf.Len())
}

func TestExportFilename(t *testing.T) {
	want := fmt.Sprintf("students-%s.csv", time.Now().Format("2006-01-02"))
	assert.Equal(t, want, ExportFilename("students"))
}
