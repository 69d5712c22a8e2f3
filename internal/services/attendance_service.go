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

// AttendanceService covers student and staff attendance.
type AttendanceService interface {
	MarkAttendance(ctx context.Context, req *MarkAttendanceRequest) (*models.AttendanceRecord, error)
	MarkClassAttendance(ctx context.Context, tenantID, classID, markedBy uuid.UUID, date time.Time, entries []ClassAttendanceEntry) (int, error)
	ListAttendance(ctx context.Context, tenantID uuid.UUID, filter repositories.AttendanceFilter) ([]*models.AttendanceRecord, error)
	AttendanceSummary(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*AttendanceSummary, error)

	ClockInStaff(ctx context.Context, tenantID, userID uuid.UUID, date time.Time, status string, notes *string) error
	ListStaffAttendance(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit, offset int) ([]*models.StaffAttendance, error)
	ListStaffAttendanceByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*models.StaffAttendance, error)
}

type MarkAttendanceRequest struct {
	TenantID  uuid.UUID `json:"-"`
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	ClassID   uuid.UUID `json:"class_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Status    string    `json:"status" validate:"required"`
	Notes     *string   `json:"notes,omitempty"`
	MarkedBy  uuid.UUID `json:"-"`
}

// ClassAttendanceEntry is one student's status in a bulk class marking.
type ClassAttendanceEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required"`
	Notes     *string   `json:"notes,omitempty"`
}

// AttendanceSummary aggregates a student's records over a date range.
type AttendanceSummary struct {
	StudentID   uuid.UUID `json:"student_id"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Present     int       `json:"present"`
	Absent      int       `json:"absent"`
	Late        int       `json:"late"`
	Excused     int       `json:"excused"`
	Total       int       `json:"total"`
	PresentRate float64   `json:"present_rate"`
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	staffRepo      repositories.StaffAttendanceRepository
	logger         zerolog.Logger
}

func NewAttendanceService(attendanceRepo repositories.AttendanceRepository, staffRepo repositories.StaffAttendanceRepository, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		staffRepo:      staffRepo,
		logger:         logger,
	}
}

// MarkAttendance upserts the day's record; re-marking overwrites.
func (s *attendanceService) MarkAttendance(ctx context.Context, req *MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := models.ValidAttendanceStatus(req.Status); err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      truncateToDay(req.Date),
		Status:    req.Status,
		Notes:     req.Notes,
		MarkedBy:  req.MarkedBy,
	}
	if err := s.attendanceRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}
	return record, nil
}

// MarkClassAttendance marks a whole class for one day. Entries with invalid
// statuses fail the call before anything is written.
func (s *attendanceService) MarkClassAttendance(ctx context.Context, tenantID, classID, markedBy uuid.UUID, date time.Time, entries []ClassAttendanceEntry) (int, error) {
	for _, entry := range entries {
		if err := models.ValidAttendanceStatus(entry.Status); err != nil {
			return 0, fmt.Errorf("student %s: %w", entry.StudentID, err)
		}
	}

	marked := 0
	for _, entry := range entries {
		record := &models.AttendanceRecord{
			ID:        uuid.New(),
			TenantID:  tenantID,
			StudentID: entry.StudentID,
			ClassID:   classID,
			Date:      truncateToDay(date),
			Status:    entry.Status,
			Notes:     entry.Notes,
			MarkedBy:  markedBy,
		}
		if err := s.attendanceRepo.Upsert(ctx, record); err != nil {
			s.logger.Error().Err(err).Str("student_id", entry.StudentID.String()).Msg("failed to mark attendance")
			continue
		}
		marked++
	}
	return marked, nil
}

func (s *attendanceService) ListAttendance(ctx context.Context, tenantID uuid.UUID, filter repositories.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	return s.attendanceRepo.List(ctx, tenantID, filter)
}

func (s *attendanceService) AttendanceSummary(ctx context.Context, tenantID, studentID uuid.UUID, from, to time.Time) (*AttendanceSummary, error) {
	records, err := s.attendanceRepo.List(ctx, tenantID, repositories.AttendanceFilter{
		StudentID: &studentID,
		From:      &from,
		To:        &to,
		Limit:     1000,
	})
	if err != nil {
		return nil, err
	}

	summary := &AttendanceSummary{StudentID: studentID, From: from, To: to}
	for _, record := range records {
		switch record.Status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		case models.AttendanceLate:
			summary.Late++
		case models.AttendanceExcused:
			summary.Excused++
		}
	}
	summary.Total = len(records)
	if summary.Total > 0 {
		summary.PresentRate = float64(summary.Present+summary.Late) / float64(summary.Total)
	}
	return summary, nil
}

func (s *attendanceService) ClockInStaff(ctx context.Context, tenantID, userID uuid.UUID, date time.Time, status string, notes *string) error {
	if err := models.ValidAttendanceStatus(status); err != nil {
		return err
	}
	record := &models.StaffAttendance{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		Date:     truncateToDay(date),
		Status:   status,
		Notes:    notes,
	}
	return s.staffRepo.Upsert(ctx, record)
}

func (s *attendanceService) ListStaffAttendance(ctx context.Context, tenantID uuid.UUID, from, to time.Time, limit, offset int) ([]*models.StaffAttendance, error) {
	return s.staffRepo.List(ctx, tenantID, from, to, limit, offset)
}

func (s *attendanceService) ListStaffAttendanceByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*models.StaffAttendance, error) {
	return s.staffRepo.ListByUser(ctx, tenantID, userID, from, to)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
