package handlers

import (
	"errors"
	"net/http"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/repositories"
	"scholaris/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type StudentHandlers struct {
	studentService services.StudentService
}

func NewStudentHandlers(studentService services.StudentService) *StudentHandlers {
	return &StudentHandlers{studentService: studentService}
}

// CreateStudent handles POST /students.
func (h *StudentHandlers) CreateStudent(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := common.ValidateAdmissionNumber(req.AdmissionNumber); err != nil {
		return common.SendValidationError(c, "admission_number", err.Error())
	}

	student, err := h.studentService.CreateStudent(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrAdmissionNumberTaken) {
			return common.SendConflictError(c, "admission number already in use")
		}
		return common.SendServerError(c, "failed to create student")
	}
	return c.JSON(http.StatusCreated, student)
}

// GetStudent handles GET /students/:id. Guardians and students only see
// records they are linked to.
func (h *StudentHandlers) GetStudent(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if role == string(authz.RoleGuardian) {
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, id)
		if err != nil {
			return common.SendServerError(c, "failed to check access")
		}
		if !owns {
			return common.SendForbiddenError(c, "not a guardian of this student")
		}
	}

	student, err := h.studentService.GetStudent(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "student")
	}
	return c.JSON(http.StatusOK, student)
}

// UpdateStudent handles PUT /students/:id.
func (h *StudentHandlers) UpdateStudent(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	student, err := h.studentService.GetStudent(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "student")
	}

	var req struct {
		FirstName   string     `json:"first_name"`
		LastName    string     `json:"last_name"`
		DateOfBirth *string    `json:"date_of_birth,omitempty"`
		Gender      *string    `json:"gender,omitempty"`
		ClassID     *uuid.UUID `json:"class_id,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.FirstName != "" {
		student.FirstName = req.FirstName
	}
	if req.LastName != "" {
		student.LastName = req.LastName
	}
	if req.DateOfBirth != nil {
		dob, err := common.ValidateDate(*req.DateOfBirth, "date_of_birth")
		if err != nil {
			return common.SendValidationError(c, "date_of_birth", err.Error())
		}
		student.DateOfBirth = &dob
	}
	if req.Gender != nil {
		student.Gender = req.Gender
	}
	if req.ClassID != nil {
		student.ClassID = req.ClassID
	}

	if err := h.studentService.UpdateStudent(c.Request().Context(), student, userID); err != nil {
		return common.SendServerError(c, "failed to update student")
	}
	return c.JSON(http.StatusOK, student)
}

// DeactivateStudent handles DELETE /students/:id. Soft-deactivation; the
// row and its history stay.
func (h *StudentHandlers) DeactivateStudent(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.studentService.DeactivateStudent(c.Request().Context(), tenantID, id, userID); err != nil {
		return common.SendServerError(c, "failed to deactivate student")
	}
	return c.NoContent(http.StatusNoContent)
}

// GraduateStudent handles POST /students/:id/graduate.
func (h *StudentHandlers) GraduateStudent(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		GraduationYear int `json:"graduation_year" validate:"required,gte=1990,lte=2100"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.studentService.GraduateStudent(c.Request().Context(), tenantID, id, userID, req.GraduationYear); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStudents handles GET /students.
func (h *StudentHandlers) ListStudents(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	classID, err := queryUUID(c, "class_id")
	if err != nil {
		return err
	}
	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	filter := repositories.StudentSearchFilter{
		Query:   c.QueryParam("q"),
		ClassID: classID,
		Status:  c.QueryParam("status"),
		Limit:   limit,
		Offset:  offset,
	}
	students, err := h.studentService.ListStudents(c.Request().Context(), tenantID, filter)
	if err != nil {
		return common.SendServerError(c, "failed to list students")
	}
	return c.JSON(http.StatusOK, students)
}

// MyChildren handles GET /students/mine for guardian accounts.
func (h *StudentHandlers) MyChildren(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	students, err := h.studentService.ListStudentsByGuardianUser(c.Request().Context(), tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to list students")
	}
	return c.JSON(http.StatusOK, students)
}

// CreateGuardian handles POST /guardians.
func (h *StudentHandlers) CreateGuardian(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var guardian models.Guardian
	if err := c.Bind(&guardian); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(guardian.FirstName, "first_name"); err != nil {
		return common.SendValidationError(c, "first_name", err.Error())
	}
	if err := common.ValidateRequiredString(guardian.LastName, "last_name"); err != nil {
		return common.SendValidationError(c, "last_name", err.Error())
	}
	if guardian.Phone != nil {
		if err := common.ValidatePhone(*guardian.Phone, "phone"); err != nil {
			return common.SendValidationError(c, "phone", err.Error())
		}
	}
	guardian.TenantID = tenantID

	if err := h.studentService.CreateGuardian(c.Request().Context(), &guardian); err != nil {
		return common.SendServerError(c, "failed to create guardian")
	}
	return c.JSON(http.StatusCreated, guardian)
}

// LinkGuardian handles POST /students/:id/guardians.
func (h *StudentHandlers) LinkGuardian(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	studentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		GuardianID   uuid.UUID `json:"guardian_id" validate:"required"`
		Relationship string    `json:"relationship" validate:"required"`
		IsPrimary    bool      `json:"is_primary"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	link := &models.StudentGuardian{
		StudentID:    studentID,
		GuardianID:   req.GuardianID,
		TenantID:     tenantID,
		Relationship: req.Relationship,
		IsPrimary:    req.IsPrimary,
	}
	if err := h.studentService.LinkGuardian(c.Request().Context(), link); err != nil {
		return common.SendServerError(c, "failed to link guardian")
	}
	return c.JSON(http.StatusCreated, link)
}

// UnlinkGuardian handles DELETE /students/:id/guardians/:guardianID.
func (h *StudentHandlers) UnlinkGuardian(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	studentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	guardianID, err := pathUUID(c, "guardianID")
	if err != nil {
		return err
	}

	if err := h.studentService.UnlinkGuardian(c.Request().Context(), tenantID, studentID, guardianID); err != nil {
		return common.SendServerError(c, "failed to unlink guardian")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListGuardians handles GET /students/:id/guardians.
func (h *StudentHandlers) ListGuardians(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	studentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	guardians, err := h.studentService.ListGuardians(c.Request().Context(), tenantID, studentID)
	if err != nil {
		return common.SendServerError(c, "failed to list guardians")
	}
	return c.JSON(http.StatusOK, guardians)
}
