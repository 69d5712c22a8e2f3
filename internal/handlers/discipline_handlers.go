package handlers

import (
	"errors"
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type DisciplineHandlers struct {
	disciplineService services.DisciplineService
}

func NewDisciplineHandlers(disciplineService services.DisciplineService) *DisciplineHandlers {
	return &DisciplineHandlers{disciplineService: disciplineService}
}

// Create handles POST /discipline-records.
func (h *DisciplineHandlers) Create(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateDisciplineRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	req.TenantID = tenantID
	req.ReportedBy = userID
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	record, err := h.disciplineService.CreateRecord(c.Request().Context(), &req)
	if err != nil {
		return common.SendServerError(c, "failed to create record")
	}
	return c.JSON(http.StatusCreated, record)
}

// Get handles GET /discipline-records/:id.
func (h *DisciplineHandlers) Get(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	record, err := h.disciplineService.GetRecord(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.SendNotFoundError(c, "discipline record")
	}
	return c.JSON(http.StatusOK, record)
}

// Resolve handles POST /discipline-records/:id/resolve. One-way; a second
// resolution attempt conflicts.
func (h *DisciplineHandlers) Resolve(c echo.Context) error {
	tenantID, userID, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Resolution string `json:"resolution" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	record, err := h.disciplineService.ResolveRecord(c.Request().Context(), tenantID, id, userID, req.Resolution)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyResolved) {
			return common.SendConflictError(c, "record is already resolved")
		}
		return common.SendServerError(c, "failed to resolve record")
	}
	return c.JSON(http.StatusOK, record)
}

// List handles GET /discipline-records.
func (h *DisciplineHandlers) List(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		return err
	}
	limit, offset := common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	records, err := h.disciplineService.ListRecords(c.Request().Context(), tenantID, studentID, c.QueryParam("status"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list records")
	}
	return c.JSON(http.StatusOK, records)
}
