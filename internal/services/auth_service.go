package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"scholaris/internal/caching"
	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrTOTPRequired       = fmt.Errorf("totp code required")
	ErrInvalidTOTP        = fmt.Errorf("invalid totp code")
	ErrUserInactive       = fmt.Errorf("user account is inactive")
	ErrSubdomainTaken     = fmt.Errorf("subdomain is already taken")
)

// AuthService handles signup, login, token refresh and TOTP enrollment.
type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, email, password, totpCode string) (*models.TokenResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)

	Enroll2FA(ctx context.Context, tenantID, userID uuid.UUID, email string) (string, error)
	Activate2FA(ctx context.Context, tenantID, userID uuid.UUID, code string) error
}

// SignupRequest provisions a new tenant with its first admin user.
type SignupRequest struct {
	SchoolName string `json:"school_name" validate:"required"`
	Subdomain  string `json:"subdomain" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
}

// TokenClaims are the JWT claims carried on every access token.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo   repositories.UserRepository
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService, jwtSecret, issuer string, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Signup provisions a tenant, default settings and the first TENANT_ADMIN
// user, then issues tokens.
func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*models.TokenResponse, error) {
	existing, err := s.tenantRepo.GetBySubdomain(ctx, req.Subdomain)
	if err != nil {
		return nil, fmt.Errorf("failed to check subdomain: %w", err)
	}
	if existing != nil {
		return nil, ErrSubdomainTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      req.SchoolName,
		Subdomain: strings.ToLower(req.Subdomain),
		Status:    models.TenantStatusActive,
		Settings:  models.DefaultSettings(),
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         "TENANT_ADMIN",
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", tenant.ID.String()).
		Str("subdomain", tenant.Subdomain).
		Msg("tenant provisioned")

	return s.generateTokens(ctx, user)
}

// Login verifies credentials. When the user has 2FA enabled and no code was
// supplied, the response carries RequiresTOTP and no tokens.
func (s *authService) Login(ctx context.Context, email, password, totpCode string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.TwoFAEnabled {
		if totpCode == "" {
			return &models.TokenResponse{RequiresTOTP: true, UserID: user.ID.String(), TenantID: user.TenantID.String()}, nil
		}
		if user.TOTPSecret == nil || !totp.Validate(totpCode, *user.TOTPSecret) {
			return nil, ErrInvalidTOTP
		}
	}

	return s.generateTokens(ctx, user)
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	tokenHash := hashToken(refreshToken)
	cacheKey := fmt.Sprintf("scholaris:refresh:%s", tokenHash)

	tokenData, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil || tokenData == "" {
		return nil, fmt.Errorf("invalid refresh token")
	}

	parts := strings.Split(tokenData, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid refresh token data")
	}
	userIDStr, tenantIDStr, expiryStr := parts[0], parts[1], parts[2]

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		s.cacheSvc.Delete(ctx, cacheKey)
		return nil, fmt.Errorf("refresh token expired")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in refresh token")
	}
	tenantID, err := uuid.Parse(tenantIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id in refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrUserInactive
	}

	// Rotate: the old token is single-use.
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete rotated refresh token")
	}

	return s.generateTokens(ctx, user)
}

func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	cacheKey := fmt.Sprintf("scholaris:refresh:%s", hashToken(refreshToken))
	return s.cacheSvc.Delete(ctx, cacheKey)
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := jwtToken.Claims.(*TokenClaims); ok && jwtToken.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

// Enroll2FA generates a TOTP secret and parks it in Redis until the user
// proves possession by activating with a valid code. Returns the otpauth URL
// for the authenticator app.
func (s *authService) Enroll2FA(ctx context.Context, tenantID, userID uuid.UUID, email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: email,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}

	cacheKey := fmt.Sprintf("scholaris:2fa-pending:%s:%s", tenantID.String(), userID.String())
	if err := s.cacheSvc.SetString(ctx, cacheKey, key.Secret(), 10*time.Minute); err != nil {
		return "", fmt.Errorf("failed to store pending secret: %w", err)
	}

	return key.URL(), nil
}

// Activate2FA validates the first code against the pending secret and, on
// success, persists the secret on the user row.
func (s *authService) Activate2FA(ctx context.Context, tenantID, userID uuid.UUID, code string) error {
	cacheKey := fmt.Sprintf("scholaris:2fa-pending:%s:%s", tenantID.String(), userID.String())
	secret, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil || secret == "" {
		return fmt.Errorf("no pending 2fa enrollment, enroll first")
	}

	if !totp.Validate(code, secret) {
		return ErrInvalidTOTP
	}

	if err := s.userRepo.UpdateTOTP(ctx, tenantID, userID, &secret, true); err != nil {
		return fmt.Errorf("failed to enable 2fa: %w", err)
	}
	s.cacheSvc.Delete(ctx, cacheKey)

	s.logger.Info().Str("user_id", userID.String()).Msg("2fa enabled")
	return nil
}

func (s *authService) generateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken := generateSecureToken()
	expiry := now.Add(s.refreshTTL)
	tokenData := fmt.Sprintf("%s:%s:%d", user.ID.String(), user.TenantID.String(), expiry.Unix())
	cacheKey := fmt.Sprintf("scholaris:refresh:%s", hashToken(refreshToken))
	if err := s.cacheSvc.SetString(ctx, cacheKey, tokenData, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
		RefreshToken: refreshToken,
		UserID:       user.ID.String(),
		TenantID:     user.TenantID.String(),
		IssuedAt:     now,
	}, nil
}

func generateSecureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

// hashToken stores only the SHA-256 of refresh tokens server-side.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
