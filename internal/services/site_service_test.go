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
	"github.com/stretchr/testify/suite"
)

type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) CreateDefinition(ctx context.Context, form *models.FormDefinition) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepository) GetDefinition(ctx context.Context, tenantID, id uuid.UUID) (*models.FormDefinition, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormDefinition), args.Error(1)
}

func (m *MockFormRepository) GetPublishedDefinition(ctx context.Context, id uuid.UUID) (*models.FormDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormDefinition), args.Error(1)
}

func (m *MockFormRepository) UpdateDefinition(ctx context.Context, form *models.FormDefinition) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepository) ListDefinitions(ctx context.Context, tenantID uuid.UUID) ([]*models.FormDefinition, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FormDefinition), args.Error(1)
}

func (m *MockFormRepository) CreateSubmission(ctx context.Context, submission *models.FormSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockFormRepository) ListSubmissions(ctx context.Context, tenantID, formID uuid.UUID, limit, offset int) ([]*models.FormSubmission, error) {
	args := m.Called(ctx, tenantID, formID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FormSubmission), args.Error(1)
}

type SiteServiceTestSuite struct {
	suite.Suite
	formRepo *MockFormRepository
	service  SiteService
}

func (s *SiteServiceTestSuite) SetupTest() {
	s.formRepo = new(MockFormRepository)
	s.service = NewSiteService(nil, s.formRepo, nil, zerolog.Nop())
}

func enquiryForm(tenantID uuid.UUID) *models.FormDefinition {
	return &models.FormDefinition{
		ID:       uuid.New(),
		TenantID: tenantID,
		Title:    "Admission Enquiry",
		Version:  3,
		Fields: []models.FormField{
			{Name: "parent_name", Label: "Parent name", Kind: "text", Required: true},
			{Name: "email", Label: "Email", Kind: "email", Required: true},
			{Name: "grade", Label: "Grade", Kind: "select", Options: []string{"1", "2", "3"}},
		},
		Published: true,
	}
}

func (s *SiteServiceTestSuite) TestSubmitForm_StampsFormVersion() {
	tenantID := uuid.New()
	form := enquiryForm(tenantID)

	s.formRepo.On("GetPublishedDefinition", mock.Anything, form.ID).Return(form, nil)
	s.formRepo.On("CreateSubmission", mock.Anything, mock.AnythingOfType("*models.FormSubmission")).Return(nil)

	submission, err := s.service.SubmitForm(context.Background(), tenantID, form.ID, map[string]string{
		"parent_name": "R. Mensah",
		"email":       "mensah@example.com",
		"grade":       "2",
	}, "203.0.113.9")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), tenantID, submission.TenantID)
	assert.Equal(s.T(), 3, submission.FormVersion)
	assert.Equal(s.T(), "203.0.113.9", submission.SubmitterIP)
	s.formRepo.AssertExpectations(s.T())
}

func (s *SiteServiceTestSuite) TestSubmitForm_InvalidValuesRejected() {
	tenantID := uuid.New()
	form := enquiryForm(tenantID)
	s.formRepo.On("GetPublishedDefinition", mock.Anything, form.ID).Return(form, nil)

	_, err := s.service.SubmitForm(context.Background(), tenantID, form.ID, map[string]string{
		"parent_name": "R. Mensah",
		"email":       "not-an-email",
	}, "203.0.113.9")
	require.ErrorIs(s.T(), err, ErrInvalidFormInput)
	s.formRepo.AssertNotCalled(s.T(), "CreateSubmission", mock.Anything, mock.Anything)
}

func (s *SiteServiceTestSuite) TestSubmitForm_UnpublishedForm() {
	formID := uuid.New()
	s.formRepo.On("GetPublishedDefinition", mock.Anything, formID).Return(nil, nil)

	_, err := s.service.SubmitForm(context.Background(), uuid.New(), formID, map[string]string{}, "203.0.113.9")
	require.ErrorIs(s.T(), err, ErrFormNotFound)
}

func (s *SiteServiceTestSuite) TestPublicForm_OtherTenantHidden() {
	form := enquiryForm(uuid.New())
	s.formRepo.On("GetPublishedDefinition", mock.Anything, form.ID).Return(form, nil)

	// Resolved through a different school's subdomain.
	_, err := s.service.GetPublicForm(context.Background(), uuid.New(), form.ID)
	require.ErrorIs(s.T(), err, ErrFormNotFound)

	_, err = s.service.SubmitForm(context.Background(), uuid.New(), form.ID, map[string]string{
		"parent_name": "R. Mensah",
		"email":       "mensah@example.com",
	}, "203.0.113.9")
	require.ErrorIs(s.T(), err, ErrFormNotFound)
	s.formRepo.AssertNotCalled(s.T(), "CreateSubmission", mock.Anything, mock.Anything)
}

func (s *SiteServiceTestSuite) TestUpdateForm_BumpsVersion() {
	tenantID := uuid.New()
	form := enquiryForm(tenantID)
	s.formRepo.On("GetDefinition", mock.Anything, tenantID, form.ID).Return(form, nil)
	s.formRepo.On("UpdateDefinition", mock.Anything, mock.AnythingOfType("*models.FormDefinition")).Return(nil)

	updated, err := s.service.UpdateForm(context.Background(), tenantID, form.ID, &FormRequest{
		Title: "Admission Enquiry 2026",
		Fields: []models.FormField{
			{Name: "parent_name", Label: "Parent name", Kind: "text", Required: true},
		},
		Published: true,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 4, updated.Version)
	assert.Equal(s.T(), "Admission Enquiry 2026", updated.Title)
}

func (s *SiteServiceTestSuite) TestListSubmissions_ClampsLimit() {
	tenantID := uuid.New()
	formID := uuid.New()
	s.formRepo.On("ListSubmissions", mock.Anything, tenantID, formID, 50, 0).Return([]*models.FormSubmission{}, nil)

	_, err := s.service.ListSubmissions(context.Background(), tenantID, formID, 9999, 0)
	require.NoError(s.T(), err)
	s.formRepo.AssertExpectations(s.T())
}

func TestSiteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SiteServiceTestSuite))
}
