package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scholaris/internal/authz"
	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken  = errors.New("email is already in use")
	ErrUnknownRole = errors.New("unknown role")
)

// UserService manages staff and portal accounts inside a tenant. Tenant
// provisioning itself goes through AuthService.Signup.
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, req *UpdateUserRequest) (*models.User, error)
	DeactivateUser(ctx context.Context, tenantID, id, actorID uuid.UUID) error
	ListUsers(ctx context.Context, tenantID uuid.UUID, role string, limit, offset int) ([]*models.User, error)
}

type CreateUserRequest struct {
	TenantID  uuid.UUID `json:"-"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password" validate:"required,min=8"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name" validate:"required"`
	Role      string    `json:"role" validate:"required"`
	Phone     *string   `json:"phone,omitempty"`
	ActorID   uuid.UUID `json:"-"`
}

type UpdateUserRequest struct {
	TenantID  uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"-"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Role      *string   `json:"role,omitempty"`
	ActorID   uuid.UUID `json:"-"`
}

type userService struct {
	userRepo repositories.UserRepository
	auditSvc AuditService
	logger   zerolog.Logger
}

func NewUserService(userRepo repositories.UserRepository, auditSvc AuditService, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		auditSvc: auditSvc,
		logger:   logger,
	}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if !authz.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     req.TenantID,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Phone:        req.Phone,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditSvc.Record(ctx, nil, req.TenantID, "users", user.ID.String(), models.AuditInsert, nil, models.JSONB{"email": user.Email, "role": user.Role}, &req.ActorID)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, tenantID, id)
}

func (s *userService) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, req.TenantID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != nil {
		if !authz.ValidRole(*req.Role) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, *req.Role)
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.auditSvc.Record(ctx, nil, req.TenantID, "users", user.ID.String(), models.AuditUpdate, nil, models.JSONB{"role": user.Role}, &req.ActorID)
	return user, nil
}

func (s *userService) DeactivateUser(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if err := s.userRepo.Deactivate(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	s.auditSvc.Record(ctx, nil, tenantID, "users", id.String(), models.AuditSoftDelete, nil, nil, &actorID)
	return nil
}

func (s *userService) ListUsers(ctx context.Context, tenantID uuid.UUID, role string, limit, offset int) ([]*models.User, error) {
	if role != "" && !authz.ValidRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return s.userRepo.List(ctx, tenantID, role, limit, offset)
}
