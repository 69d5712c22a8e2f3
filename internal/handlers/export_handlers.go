package handlers

import (
	"fmt"
	"net/http"

	"scholaris/internal/common"
	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
)

type ExportHandlers struct {
	exportService services.ExportService
}

func NewExportHandlers(exportService services.ExportService) *ExportHandlers {
	return &ExportHandlers{exportService: exportService}
}

// Export handles GET /exports/:type and streams a CSV download.
func (h *ExportHandlers) Export(c echo.Context) error {
	tenantID, _, _, ok := identity(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	exportType := c.Param("type")
	switch exportType {
	case "students", "attendance", "invoices", "staff", "staff-attendance":
	default:
		return common.SendValidationError(c, "type", "unknown export type")
	}

	var rng services.ExportRange
	if raw := c.QueryParam("from"); raw != "" {
		from, err := common.ValidateDate(raw, "from")
		if err != nil {
			return common.SendValidationError(c, "from", err.Error())
		}
		rng.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := common.ValidateDate(raw, "to")
		if err != nil {
			return common.SendValidationError(c, "to", err.Error())
		}
		rng.To = &to
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", services.ExportFilename(exportType)))
	c.Response().WriteHeader(http.StatusOK)

	if err := h.exportService.Export(c.Request().Context(), tenantID, exportType, rng, c.Response()); err != nil {
		// Headers are already out; log and stop the stream.
		c.Logger().Error(err)
		return err
	}
	return nil
}
