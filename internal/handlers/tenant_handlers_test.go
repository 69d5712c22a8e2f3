package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"scholaris/internal/authz"
	"scholaris/internal/common"
	"scholaris/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantSettings), args.Error(1)
}

func (m *MockTenantService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, settings models.TenantSettings, actorID uuid.UUID) (*models.TenantSettings, error) {
	args := m.Called(ctx, tenantID, settings, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantSettings), args.Error(1)
}

func (m *MockTenantService) ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

// authedRequest builds an echo context carrying an authenticated identity,
// the way the JWT middleware would leave it.
func authedRequest(method, target string, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	ctx := common.WithIdentity(req.Context(), uuid.New(), uuid.New(), role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListTenants_RequiresSuperAdmin(t *testing.T) {
	for _, role := range []string{
		string(authz.RoleStudent),
		string(authz.RoleGuardian),
		string(authz.RoleTeacher),
		string(authz.RoleTenantAdmin), // platform scope, not tenant scope
	} {
		t.Run(role, func(t *testing.T) {
			tenantSvc := new(MockTenantService)
			h := NewTenantHandlers(tenantSvc)

			c, rec := authedRequest(http.MethodGet, "/platform/tenants", role)
			require.NoError(t, h.ListTenants(c))
			assert.Equal(t, http.StatusForbidden, rec.Code)
			tenantSvc.AssertNotCalled(t, "ListTenants", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListTenants_SuperAdmin(t *testing.T) {
	tenantSvc := new(MockTenantService)
	tenantSvc.On("ListTenants", mock.Anything, 50, 0).Return([]*models.Tenant{
		{ID: uuid.New(), Name: "Northfield Academy", Subdomain: "northfield"},
		{ID: uuid.New(), Name: "Lakeside School", Subdomain: "lakeside"},
	}, nil)
	h := NewTenantHandlers(tenantSvc)

	c, rec := authedRequest(http.MethodGet, "/platform/tenants", string(authz.RoleSuperAdmin))
	require.NoError(t, h.ListTenants(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "northfield")
	assert.Contains(t, rec.Body.String(), "lakeside")
	tenantSvc.AssertExpectations(t)
}
