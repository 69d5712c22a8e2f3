package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"scholaris/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TenantRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     TenantRepository
	tenantID uuid.UUID
	ctx      context.Context
}

func (s *TenantRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(s.T(), err)
	s.mock = mock
	s.repo = NewTenantRepo(mock)
	s.tenantID = uuid.New()
	s.ctx = context.Background()
}

func (s *TenantRepoTestSuite) TearDownTest() {
	s.mock.Close()
}

func TestTenantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepoTestSuite))
}

func (s *TenantRepoTestSuite) tenantColumns() []string {
	return []string{"id", "name", "subdomain", "status", "settings", "created_at", "updated_at"}
}

func (s *TenantRepoTestSuite) TestCreate() {
	tenant := &models.Tenant{
		ID:        s.tenantID,
		Name:      "Hillside Academy",
		Subdomain: "hillside",
		Status:    models.TenantStatusActive,
		Settings:  models.DefaultSettings(),
	}
	settings, err := json.Marshal(tenant.Settings)
	require.NoError(s.T(), err)

	s.mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs(tenant.ID, tenant.Name, tenant.Subdomain, tenant.Status, settings).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(s.T(), s.repo.Create(s.ctx, tenant))
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *TenantRepoTestSuite) TestGetByID_UnmarshalsSettings() {
	settings := models.DefaultSettings()
	settings.SchoolYear = "2026/2027"
	raw, err := json.Marshal(settings)
	require.NoError(s.T(), err)
	now := time.Now()

	s.mock.ExpectQuery(`SELECT id, name, subdomain, status, settings, created_at, updated_at`).
		WithArgs(s.tenantID).
		WillReturnRows(pgxmock.NewRows(s.tenantColumns()).
			AddRow(s.tenantID, "Hillside Academy", "hillside", "active", raw, now, now))

	tenant, err := s.repo.GetByID(s.ctx, s.tenantID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "hillside", tenant.Subdomain)
	assert.Equal(s.T(), "2026/2027", tenant.Settings.SchoolYear)
	assert.Equal(s.T(), "USD", tenant.Settings.Currency)
}

func (s *TenantRepoTestSuite) TestGetBySubdomain_NotFound() {
	s.mock.ExpectQuery(`SELECT id, name, subdomain, status, settings, created_at, updated_at`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.repo.GetBySubdomain(s.ctx, "ghost")
	assert.ErrorIs(s.T(), err, pgx.ErrNoRows)
}

func (s *TenantRepoTestSuite) TestUpdateSettings() {
	settings := models.DefaultSettings()
	settings.Currency = "KES"
	raw, err := json.Marshal(settings)
	require.NoError(s.T(), err)

	s.mock.ExpectExec(`UPDATE tenants SET settings`).
		WithArgs(raw, s.tenantID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(s.T(), s.repo.UpdateSettings(s.ctx, s.tenantID, settings))
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *TenantRepoTestSuite) TestList() {
	raw, err := json.Marshal(models.DefaultSettings())
	require.NoError(s.T(), err)
	now := time.Now()
	otherID := uuid.New()

	s.mock.ExpectQuery(`SELECT id, name, subdomain, status, settings, created_at, updated_at`).
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows(s.tenantColumns()).
			AddRow(s.tenantID, "Hillside Academy", "hillside", "active", raw, now, now).
			AddRow(otherID, "Lakeview School", "lakeview", "suspended", raw, now, now))

	tenants, err := s.repo.List(s.ctx, 50, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), tenants, 2)
	assert.Equal(s.T(), "lakeview", tenants[1].Subdomain)
}
