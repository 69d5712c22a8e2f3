package handlers

import (
	"net/http"
	"strconv"

	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type StaffHandlers struct {
	staffService services.StaffService
}

func NewStaffHandlers(staffService services.StaffService) *StaffHandlers {
	return &StaffHandlers{staffService: staffService}
}

// CreateTeacher handles POST /teachers.
func (h *StaffHandlers) CreateTeacher(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var teacher models.Teacher
	if err := c.Bind(&teacher); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(teacher.StaffNumber, "staff_number"); err != nil {
		return common.SendValidationError(c, "staff_number", err.Error())
	}
	teacher.TenantID = tenantID

	if err := h.staffService.CreateTeacher(c.Request().Context(), &teacher); err != nil {
		return common.SendServerError(c, "failed to create teacher")
	}
	return c.JSON(http.StatusCreated, teacher)
}

// GetTeacher handles GET /teachers/:id.
func (h *StaffHandlers) GetTeacher(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	teacher, err := h.staffService.GetTeacher(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "teacher")
	}
	return c.JSON(http.StatusOK, teacher)
}

// UpdateTeacher handles PUT /teachers/:id.
func (h *StaffHandlers) UpdateTeacher(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	teacher, err := h.staffService.GetTeacher(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "teacher")
	}

	var req struct {
		Department *string  `json:"department"`
		Subjects   []string `json:"subjects"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Department != nil {
		teacher.Department = req.Department
	}
	if req.Subjects != nil {
		teacher.Subjects = req.Subjects
	}

	if err := h.staffService.UpdateTeacher(c.Request().Context(), teacher); err != nil {
		return common.SendServerError(c, "failed to update teacher")
	}
	return c.JSON(http.StatusOK, teacher)
}

// DeactivateTeacher handles DELETE /teachers/:id.
func (h *StaffHandlers) DeactivateTeacher(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.staffService.DeactivateTeacher(c.Request().Context(), tenantID, id, userID); err != nil {
		return common.SendServerError(c, "failed to deactivate teacher")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTeachers handles GET /teachers.
func (h *StaffHandlers) ListTeachers(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	teachers, err := h.staffService.ListTeachers(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list teachers")
	}
	return c.JSON(http.StatusOK, teachers)
}

// CreateContract handles POST /contracts.
func (h *StaffHandlers) CreateContract(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var contract models.Contract
	if err := c.Bind(&contract); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidatePositiveCents(contract.SalaryCents, "salary_cents"); err != nil {
		return common.SendValidationError(c, "salary_cents", err.Error())
	}
	contract.TenantID = tenantID

	if err := h.staffService.CreateContract(c.Request().Context(), &contract); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, contract)
}

// GetContract handles GET /contracts/:id.
func (h *StaffHandlers) GetContract(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	contract, err := h.staffService.GetContract(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "contract")
	}
	return c.JSON(http.StatusOK, contract)
}

// UpdateContract handles PUT /contracts/:id.
func (h *StaffHandlers) UpdateContract(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	contract, err := h.staffService.GetContract(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "contract")
	}

	var req struct {
		Title       string `json:"title"`
		SalaryCents int64  `json:"salary_cents"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Title != "" {
		contract.Title = req.Title
	}
	if req.SalaryCents > 0 {
		contract.SalaryCents = req.SalaryCents
	}

	if err := h.staffService.UpdateContract(c.Request().Context(), contract, userID); err != nil {
		return common.SendServerError(c, "failed to update contract")
	}
	return c.JSON(http.StatusOK, contract)
}

// TerminateContract handles POST /contracts/:id/terminate.
func (h *StaffHandlers) TerminateContract(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.staffService.TerminateContract(c.Request().Context(), tenantID, id, userID); err != nil {
		return common.SendConflictError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": models.ContractStatusTerminated})
}

// ListContracts handles GET /contracts.
func (h *StaffHandlers) ListContracts(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	contracts, err := h.staffService.ListContracts(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list contracts")
	}
	return c.JSON(http.StatusOK, contracts)
}

// RegisterAlumni handles POST /alumni.
func (h *StaffHandlers) RegisterAlumni(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var alumni models.Alumni
	if err := c.Bind(&alumni); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := common.ValidateRequiredString(alumni.FullName, "full_name"); err != nil {
		return common.SendValidationError(c, "full_name", err.Error())
	}
	alumni.TenantID = tenantID

	if err := h.staffService.RegisterAlumni(c.Request().Context(), &alumni); err != nil {
		return common.SendServerError(c, "failed to register alumni")
	}
	return c.JSON(http.StatusCreated, alumni)
}

// GetAlumni handles GET /alumni/:id.
func (h *StaffHandlers) GetAlumni(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	alumni, err := h.staffService.GetAlumni(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "alumni record")
	}
	return c.JSON(http.StatusOK, alumni)
}

// UpdateAlumni handles PUT /alumni/:id.
func (h *StaffHandlers) UpdateAlumni(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	alumni, err := h.staffService.GetAlumni(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "alumni record")
	}

	var req struct {
		Email      *string `json:"email"`
		Occupation *string `json:"occupation"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if req.Email != nil {
		alumni.Email = req.Email
	}
	if req.Occupation != nil {
		alumni.Occupation = req.Occupation
	}

	if err := h.staffService.UpdateAlumni(c.Request().Context(), alumni); err != nil {
		return common.SendServerError(c, "failed to update alumni record")
	}
	return c.JSON(http.StatusOK, alumni)
}

// ListAlumni handles GET /alumni. Supports an optional graduation_year filter.
func (h *StaffHandlers) ListAlumni(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	graduationYear := 0
	if raw := c.QueryParam("graduation_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return common.SendValidationError(c, "graduation_year", "must be a number")
		}
		graduationYear = year
	}

	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))
	alumni, err := h.staffService.ListAlumni(c.Request().Context(), tenantID, graduationYear, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list alumni")
	}
	return c.JSON(http.StatusOK, alumni)
}
