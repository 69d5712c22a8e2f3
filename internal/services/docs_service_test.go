package services

import (
	"context"
	"testing"

	"scholaris/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.TenantSettings) error {
	args := m.Called(ctx, id, settings)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		name     string
		cents    int64
		currency string
		want     string
	}{
		{"whole amount", 120000, "USD", "USD 1200.00"},
		{"cents padded", 1205, "INR", "INR 12.05"},
		{"under one unit", 7, "EUR", "EUR 0.07"},
		{"zero", 0, "USD", "USD 0.00"},
		{"negative", -4550, "GBP", "-GBP 45.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCents(tt.cents, tt.currency))
		})
	}
}

func TestGenerateCertificate(t *testing.T) {
	tenantID := uuid.New()
	studentID := uuid.New()

	tenantRepo := new(MockTenantRepository)
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(&models.Tenant{
		ID:   tenantID,
		Name: "Northfield Academy",
	}, nil)

	studentRepo := new(MockStudentRepository)
	studentRepo.On("GetByID", mock.Anything, tenantID, studentID).Return(&models.Student{
		ID:        studentID,
		FirstName: "Amara",
		LastName:  "Diallo",
	}, nil)

	svc := NewDocsService(tenantRepo, nil, nil, studentRepo, nil, "", zerolog.Nop())

	html, err := svc.GenerateCertificate(context.Background(), &CertificateRequest{
		TenantID:    tenantID,
		StudentID:   studentID,
		Kind:        "completion",
		Title:       "Certificate of Completion",
		Description: "has successfully completed Grade 8",
		SchoolYear:  "2025-2026",
	})
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Northfield Academy")
	assert.Contains(t, body, "Amara Diallo")
	assert.Contains(t, body, "Certificate of Completion")
	assert.Contains(t, body, "2025-2026")

	tenantRepo.AssertExpectations(t)
	studentRepo.AssertExpectations(t)
}
