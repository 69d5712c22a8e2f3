package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const exportBatchSize = 1000

// ExportRange optionally bounds the date-sensitive exports. Nil bounds
// mean unbounded; the students, invoices and staff exports ignore it.
type ExportRange struct {
	From *time.Time
	To   *time.Time
}

// ExportService streams tenant data as CSV. Rows are written through
// encoding/csv so embedded commas and quotes are escaped correctly.
type ExportService interface {
	Export(ctx context.Context, tenantID uuid.UUID, exportType string, rng ExportRange, w io.Writer) error
}

type exportService struct {
	studentRepo    repositories.StudentRepository
	classRepo      repositories.ClassRepository
	attendanceRepo repositories.AttendanceRepository
	invoiceRepo    repositories.InvoiceRepository
	teacherRepo    repositories.TeacherRepository
	staffAttRepo   repositories.StaffAttendanceRepository
	logger         zerolog.Logger
}

func NewExportService(studentRepo repositories.StudentRepository, classRepo repositories.ClassRepository, attendanceRepo repositories.AttendanceRepository, invoiceRepo repositories.InvoiceRepository, teacherRepo repositories.TeacherRepository, staffAttRepo repositories.StaffAttendanceRepository, logger zerolog.Logger) ExportService {
	return &exportService{
		studentRepo:    studentRepo,
		classRepo:      classRepo,
		attendanceRepo: attendanceRepo,
		invoiceRepo:    invoiceRepo,
		teacherRepo:    teacherRepo,
		staffAttRepo:   staffAttRepo,
		logger:         logger,
	}
}

func (s *exportService) Export(ctx context.Context, tenantID uuid.UUID, exportType string, rng ExportRange, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	var err error
	switch exportType {
	case "students":
		err = s.exportStudents(ctx, tenantID, writer)
	case "attendance":
		err = s.exportAttendance(ctx, tenantID, rng, writer)
	case "invoices":
		err = s.exportInvoices(ctx, tenantID, writer)
	case "staff":
		err = s.exportStaff(ctx, tenantID, writer)
	case "staff-attendance":
		err = s.exportStaffAttendance(ctx, tenantID, rng, writer)
	default:
		return fmt.Errorf("unknown export type %q", exportType)
	}
	if err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func (s *exportService) exportStudents(ctx context.Context, tenantID uuid.UUID, w *csv.Writer) error {
	if err := w.Write([]string{"admission_number", "first_name", "last_name", "date_of_birth", "gender", "class_name", "status", "enrolled_at"}); err != nil {
		return err
	}

	classNames := make(map[uuid.UUID]string)
	for offset := 0; ; offset += exportBatchSize {
		students, err := s.studentRepo.List(ctx, tenantID, repositories.StudentSearchFilter{Limit: exportBatchSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("failed to list students: %w", err)
		}
		for _, student := range students {
			row := []string{
				student.AdmissionNumber,
				student.FirstName,
				student.LastName,
				formatDatePtr(student.DateOfBirth),
				strPtr(student.Gender),
				s.className(ctx, tenantID, student.ClassID, classNames),
				student.Status,
				student.EnrolledAt.Format("2006-01-02"),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if len(students) < exportBatchSize {
			return nil
		}
	}
}

// className resolves a class name through a per-export memo so each class
// is fetched at most once. Unassigned or unresolvable classes come out as
// an empty cell.
func (s *exportService) className(ctx context.Context, tenantID uuid.UUID, classID *uuid.UUID, memo map[uuid.UUID]string) string {
	if classID == nil {
		return ""
	}
	if name, ok := memo[*classID]; ok {
		return name
	}
	class, err := s.classRepo.GetByID(ctx, tenantID, *classID)
	if err != nil || class == nil {
		s.logger.Warn().Str("class_id", classID.String()).Msg("failed to resolve class name for export")
		memo[*classID] = ""
		return ""
	}
	memo[*classID] = class.Name
	return class.Name
}

func (s *exportService) exportAttendance(ctx context.Context, tenantID uuid.UUID, rng ExportRange, w *csv.Writer) error {
	if err := w.Write([]string{"student_id", "class_id", "date", "status", "notes", "marked_by"}); err != nil {
		return err
	}

	for offset := 0; ; offset += exportBatchSize {
		records, err := s.attendanceRepo.List(ctx, tenantID, repositories.AttendanceFilter{From: rng.From, To: rng.To, Limit: exportBatchSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		for _, record := range records {
			row := []string{
				record.StudentID.String(),
				record.ClassID.String(),
				record.Date.Format("2006-01-02"),
				record.Status,
				strPtr(record.Notes),
				record.MarkedBy.String(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if len(records) < exportBatchSize {
			return nil
		}
	}
}

func (s *exportService) exportInvoices(ctx context.Context, tenantID uuid.UUID, w *csv.Writer) error {
	if err := w.Write([]string{"invoice_number", "student_id", "description", "total_cents", "status", "due_date", "issued_at"}); err != nil {
		return err
	}

	for offset := 0; ; offset += exportBatchSize {
		invoices, err := s.invoiceRepo.List(ctx, tenantID, repositories.InvoiceFilter{Limit: exportBatchSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}
		for _, invoice := range invoices {
			row := []string{
				invoice.InvoiceNumber,
				invoice.StudentID.String(),
				invoice.Description,
				strconv.FormatInt(invoice.TotalCents, 10),
				invoice.Status,
				invoice.DueDate.Format("2006-01-02"),
				invoice.IssuedAt.Format(time.RFC3339),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if len(invoices) < exportBatchSize {
			return nil
		}
	}
}

func (s *exportService) exportStaff(ctx context.Context, tenantID uuid.UUID, w *csv.Writer) error {
	if err := w.Write([]string{"staff_number", "user_id", "department", "subjects", "status", "hired_at"}); err != nil {
		return err
	}

	for offset := 0; ; offset += exportBatchSize {
		teachers, err := s.teacherRepo.List(ctx, tenantID, exportBatchSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list staff: %w", err)
		}
		for _, teacher := range teachers {
			row := []string{
				teacher.StaffNumber,
				teacher.UserID.String(),
				strPtr(teacher.Department),
				joinSubjects(teacher.Subjects),
				teacher.Status,
				formatDatePtr(teacher.HiredAt),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if len(teachers) < exportBatchSize {
			return nil
		}
	}
}

func (s *exportService) exportStaffAttendance(ctx context.Context, tenantID uuid.UUID, rng ExportRange, w *csv.Writer) error {
	if err := w.Write([]string{"user_id", "date", "status", "check_in", "check_out", "notes"}); err != nil {
		return err
	}

	// Unbounded sides default to full history.
	from := time.Time{}
	to := time.Now()
	if rng.From != nil {
		from = *rng.From
	}
	if rng.To != nil {
		to = *rng.To
	}
	for offset := 0; ; offset += exportBatchSize {
		records, err := s.staffAttRepo.List(ctx, tenantID, from, to, exportBatchSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list staff attendance: %w", err)
		}
		for _, record := range records {
			row := []string{
				record.UserID.String(),
				record.Date.Format("2006-01-02"),
				record.Status,
				formatTimePtr(record.CheckIn),
				formatTimePtr(record.CheckOut),
				strPtr(record.Notes),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if len(records) < exportBatchSize {
			return nil
		}
	}
}

// ExportFilename names the download with the type and date.
func ExportFilename(exportType string) string {
	return fmt.Sprintf("%s-%s.csv", exportType, time.Now().Format("2006-01-02"))
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func joinSubjects(subjects []string) string {
	return strings.Join(subjects, ";")
}
