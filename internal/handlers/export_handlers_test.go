package handlers

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"scholaris/internal/authz"
	"scholaris/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureExportService struct {
	rng        services.ExportRange
	exportType string
}

func (s *captureExportService) Export(ctx context.Context, tenantID uuid.UUID, exportType string, rng services.ExportRange, w io.Writer) error {
	s.exportType = exportType
	s.rng = rng
	_, err := io.WriteString(w, "admission_number\n")
	return err
}

func TestExport_ParsesDateRange(t *testing.T) {
	svc := &captureExportService{}
	h := NewExportHandlers(svc)

	c, rec := authedRequest(http.MethodGet, "/exports/attendance?from=2026-02-01&to=2026-02-28", string(authz.RoleTenantAdmin))
	c.SetParamNames("type")
	c.SetParamValues("attendance")

	require.NoError(t, h.Export(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attendance", svc.exportType)
	require.NotNil(t, svc.rng.From)
	require.NotNil(t, svc.rng.To)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *svc.rng.From)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), *svc.rng.To)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attendance-")
}

func TestExport_RejectsBadDate(t *testing.T) {
	svc := &captureExportService{}
	h := NewExportHandlers(svc)

	c, rec := authedRequest(http.MethodGet, "/exports/attendance?from=02/01/2026", string(authz.RoleTenantAdmin))
	c.SetParamNames("type")
	c.SetParamValues("attendance")

	require.NoError(t, h.Export(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.exportType)
}
