package handlers

import (
	"net/http"
	"time"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/repositories"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type AttendanceHandlers struct {
	attendanceService services.AttendanceService
	studentService    services.StudentService
}

func NewAttendanceHandlers(attendanceService services.AttendanceService, studentService services.StudentService) *AttendanceHandlers {
	return &AttendanceHandlers{
		attendanceService: attendanceService,
		studentService:    studentService,
	}
}

// Mark handles POST /attendance. Upserts on (student, date), so re-marking
// the same day replaces the earlier status.
func (h *AttendanceHandlers) Mark(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.MarkAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	req.MarkedBy = userID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	record, err := h.attendanceService.MarkAttendance(c.Request().Context(), &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, record)
}

// MarkClass handles POST /attendance/class/:classID. Bulk marking for one
// class and date.
func (h *AttendanceHandlers) MarkClass(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	classID, err := pathUUID(c, "classID")
	if err != nil {
		return err
	}

	var req struct {
		Date    string                          `json:"date" validate:"required"`
		Entries []services.ClassAttendanceEntry `json:"entries" validate:"required,min=1"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	date, err := common.ValidateDate(req.Date, "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	marked, err := h.attendanceService.MarkClassAttendance(c.Request().Context(), tenantID, classID, userID, date, req.Entries)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"marked": marked})
}

// List handles GET /attendance.
func (h *AttendanceHandlers) List(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		return err
	}
	classID, err := queryUUID(c, "class_id")
	if err != nil {
		return err
	}

	// Guardians only see their own children's records.
	if role == string(authz.RoleGuardian) {
		if studentID == nil {
			return common.SendValidationError(c, "student_id", "student_id is required")
		}
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, *studentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	filter := repositories.AttendanceFilter{
		StudentID: studentID,
		ClassID:   classID,
		Status:    c.QueryParam("status"),
		Limit:     limit,
		Offset:    offset,
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := common.ValidateDate(raw, "from")
		if err != nil {
			return common.SendValidationError(c, "from", err.Error())
		}
		filter.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := common.ValidateDate(raw, "to")
		if err != nil {
			return common.SendValidationError(c, "to", err.Error())
		}
		filter.To = &to
	}

	records, err := h.attendanceService.ListAttendance(c.Request().Context(), tenantID, filter)
	if err != nil {
		return common.SendServerError(c, "failed to list attendance")
	}
	return c.JSON(http.StatusOK, records)
}

// Summary handles GET /attendance/summary/:studentID.
func (h *AttendanceHandlers) Summary(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	studentID, err := pathUUID(c, "studentID")
	if err != nil {
		return err
	}

	if role == string(authz.RoleGuardian) {
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, studentID)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	summary, err := h.attendanceService.AttendanceSummary(c.Request().Context(), tenantID, studentID, from, to)
	if err != nil {
		return common.SendServerError(c, "failed to build summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// ClockIn handles POST /staff-attendance/clock-in.
func (h *AttendanceHandlers) ClockIn(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Status string  `json:"status"`
		Notes  *string `json:"notes,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Status == "" {
		req.Status = "PRESENT"
	}

	if err := h.attendanceService.ClockInStaff(c.Request().Context(), tenantID, userID, time.Now(), req.Status, req.Notes); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStaff handles GET /staff-attendance.
func (h *AttendanceHandlers) ListStaff(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}
	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	records, err := h.attendanceService.ListStaffAttendance(c.Request().Context(), tenantID, from, to, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list staff attendance")
	}
	return c.JSON(http.StatusOK, records)
}

// MyStaffAttendance handles GET /staff-attendance/mine.
func (h *AttendanceHandlers) MyStaffAttendance(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	records, err := h.attendanceService.ListStaffAttendanceByUser(c.Request().Context(), tenantID, userID, from, to)
	if err != nil {
		return common.SendServerError(c, "failed to list staff attendance")
	}
	return c.JSON(http.StatusOK, records)
}

// parseDateRange reads from/to query parameters, defaulting to the last 30
// days.
func parseDateRange(c echo.Context) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := common.ValidateDate(raw, "from")
		if err != nil {
			return time.Time{}, time.Time{}, common.SendValidationError(c, "from", err.Error())
		}
		from = parsed
	}
	if raw := c.QueryParam("to"); raw != "" {
		parsed, err := common.ValidateDate(raw, "to")
		if err != nil {
			return time.Time{}, time.Time{}, common.SendValidationError(c, "to", err.Error())
		}
		to = parsed
	}
	return from, to, nil
}
