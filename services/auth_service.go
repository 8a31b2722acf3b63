package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/curtainry-specialist-api/config"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
	"gorm.io/gorm"
)

// MinPasswordLength applies to passwords set through the API and CLI
const MinPasswordLength = 8

var (
	// ErrInvalidCredentials covers unknown usernames, wrong passwords and role mismatches alike
	ErrInvalidCredentials = errors.New("invalid username, password or role")

	// ErrWeakPassword is returned when a new password is too short
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// roleClaims are the private claims carried next to the registered ones
type roleClaims struct {
	Role string `json:"role"`
}

// AuthService checks specialist credentials and issues access tokens
type AuthService struct {
	db       *gorm.DB
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

var authServiceInstance *AuthService

// NewAuthService creates an auth service signing tokens with the configured secret
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:       db,
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      time.Duration(cfg.TokenTTLHours) * time.Hour,
		now:      time.Now,
	}
}

// InitAuthService initializes the global auth service
func InitAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	authServiceInstance = NewAuthService(db, cfg)
	return authServiceInstance
}

// GetAuthService returns the initialized auth service instance
func GetAuthService() *AuthService {
	return authServiceInstance
}

// SetAuthService sets the auth service instance (primarily for testing)
func SetAuthService(service *AuthService) {
	authServiceInstance = service
}

// HashPassword hashes a plain text password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate returns the specialist matching username, password and role
func (s *AuthService) Authenticate(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || !models.IsSpecialistRole(role) {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Role != role {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// IssueToken signs an HS256 access token for user
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: s.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create token signer: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	registered := jwt.Claims{
		Issuer:    s.issuer,
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Audience:  jwt.Audience{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Expiry:    jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.Signed(signer).Claims(registered).Claims(roleClaims{Role: user.Role}).CompactSerialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ChangePassword replaces a specialist's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
