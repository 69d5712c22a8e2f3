package handlers

import (
	"context"
	"net/http"
	"testing"

	"scholaris/internal/authz"
	"scholaris/internal/middleware"
	"scholaris/internal/models"
	"scholaris/internal/repositories"
	"scholaris/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStudentService struct {
	mock.Mock
}

func (m *MockStudentService) CreateStudent(ctx context.Context, req *services.CreateStudentRequest) (*models.Student, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentService) GetStudent(ctx context.Context, tenantID, id uuid.UUID) (*models.Student, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentService) UpdateStudent(ctx context.Context, student *models.Student, actorID uuid.UUID) error {
	args := m.Called(ctx, student, actorID)
	return args.Error(0)
}

func (m *MockStudentService) DeactivateStudent(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	args := m.Called(ctx, tenantID, id, actorID)
	return args.Error(0)
}

func (m *MockStudentService) GraduateStudent(ctx context.Context, tenantID, id, actorID uuid.UUID, graduationYear int) error {
	args := m.Called(ctx, tenantID, id, actorID, graduationYear)
	return args.Error(0)
}

func (m *MockStudentService) ListStudents(ctx context.Context, tenantID uuid.UUID, filter repositories.StudentSearchFilter) ([]*models.Student, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

func (m *MockStudentService) ListStudentsByGuardianUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Student, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

func (m *MockStudentService) CreateGuardian(ctx context.Context, guardian *models.Guardian) error {
	args := m.Called(ctx, guardian)
	return args.Error(0)
}

func (m *MockStudentService) LinkGuardian(ctx context.Context, link *models.StudentGuardian) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockStudentService) UnlinkGuardian(ctx context.Context, tenantID, studentID, guardianID uuid.UUID) error {
	args := m.Called(ctx, tenantID, studentID, guardianID)
	return args.Error(0)
}

func (m *MockStudentService) ListGuardians(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Guardian, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guardian), args.Error(1)
}

func (m *MockStudentService) GuardianOwnsStudent(ctx context.Context, tenantID, guardianUserID, studentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, guardianUserID, studentID)
	return args.Bool(0), args.Error(1)
}

func TestInvoiceListRoute_PolicyGate(t *testing.T) {
	gated := middleware.Require(authz.ResourceInvoices, authz.ActionList)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		role string
		code int
	}{
		{string(authz.RoleStudent), http.StatusForbidden},
		{string(authz.RoleTeacher), http.StatusForbidden},
		{string(authz.RoleFinance), http.StatusOK},
		{string(authz.RoleGuardian), http.StatusOK},
		{string(authz.RoleTenantAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			c, rec := authedRequest(http.MethodGet, "/invoices", tt.role)
			require.NoError(t, gated(c))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestListInvoices_GuardianNeedsStudentID(t *testing.T) {
	h := NewBillingHandlers(nil, nil)

	c, rec := authedRequest(http.MethodGet, "/invoices", string(authz.RoleGuardian))
	require.NoError(t, h.ListInvoices(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "student_id")
}

func TestListInvoices_GuardianOfAnotherStudent(t *testing.T) {
	studentID := uuid.New()
	studentSvc := new(MockStudentService)
	studentSvc.On("GuardianOwnsStudent", mock.Anything, mock.Anything, mock.Anything, studentID).Return(false, nil)

	h := NewBillingHandlers(nil, studentSvc)

	c, rec := authedRequest(http.MethodGet, "/invoices?student_id="+studentID.String(), string(authz.RoleGuardian))
	require.NoError(t, h.ListInvoices(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	studentSvc.AssertExpectations(t)
}

func TestListInstallmentPlans_GuardianNeedsStudentID(t *testing.T) {
	h := NewBillingHandlers(nil, nil)

	c, rec := authedRequest(http.MethodGet, "/installment-plans", string(authz.RoleGuardian))
	require.NoError(t, h.ListInstallmentPlans(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "student_id")
}
