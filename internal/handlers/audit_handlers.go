package handlers

import (
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/models"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type AuditHandlers struct {
	auditService services.AuditService
}

func NewAuditHandlers(auditService services.AuditService) *AuditHandlers {
	return &AuditHandlers{auditService: auditService}
}

// List handles GET /audit-logs.
func (h *AuditHandlers) List(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filters := models.AuditLogFilters{}
	if v := c.QueryParam("table_name"); v != "" {
		filters.TableName = &v
	}
	if v := c.QueryParam("record_id"); v != "" {
		filters.RecordID = &v
	}
	if v := c.QueryParam("action"); v != "" {
		filters.Action = &v
	}
	if v := c.QueryParam("changed_by"); v != "" {
		actorID, err := common.ValidateUUID(v, "changed_by")
		if err != nil {
			return common.SendValidationError(c, "changed_by", err.Error())
		}
		filters.ChangedBy = &actorID
	}
	if v := c.QueryParam("from"); v != "" {
		from, err := common.ValidateDate(v, "from")
		if err != nil {
			return common.SendValidationError(c, "from", err.Error())
		}
		filters.StartDate = &from
	}
	if v := c.QueryParam("to"); v != "" {
		to, err := common.ValidateDate(v, "to")
		if err != nil {
			return common.SendValidationError(c, "to", err.Error())
		}
		filters.EndDate = &to
	}
	filters.Limit, filters.Offset = common.ParseLimitOffset(c.QueryParam("limit"), c.QueryParam("offset"))

	logs, err := h.auditService.List(c.Request().Context(), tenantID, filters)
	if err != nil {
		return common.SendServerError(c, "failed to list audit logs")
	}
	return c.JSON(http.StatusOK, logs)
}
