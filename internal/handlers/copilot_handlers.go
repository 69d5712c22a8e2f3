package handlers

import (
	"net/http"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type CopilotHandlers struct {
	copilotService services.CopilotService
	studentService services.StudentService
}

func NewCopilotHandlers(copilotService services.CopilotService, studentService services.StudentService) *CopilotHandlers {
	return &CopilotHandlers{copilotService: copilotService, studentService: studentService}
}

// StudentSummary handles GET /copilot/students/:id/summary. Produces a short
// narrative over the student's attendance and discipline record for the
// requested window (defaults to the last 30 days).
func (h *CopilotHandlers) StudentSummary(c echo.Context) error {
	tenantID, userID, role, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	studentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if role == string(authz.RoleGuardian) {
		owns, err := h.studentService.GuardianOwnsStudent(c.Request().Context(), tenantID, userID, studentID)
		if err != nil || !owns {
			return common.SendForbiddenError(c, "you can only view your own children")
		}
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	summary, err := h.copilotService.StudentSummary(c.Request().Context(), tenantID, studentID, from, to)
	if err != nil {
		return common.SendServerError(c, "failed to build summary")
	}
	return c.JSON(http.StatusOK, summary)
}
