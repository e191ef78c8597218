package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fortivault/config"
	"fortivault/entity"
	"fortivault/pkg/logger"
	"fortivault/repository"
)

// AdminService authenticates reviewers and manages their session tokens.
type AdminService interface {
	Login(req *entity.AdminLoginRequest) (*entity.AdminLoginResponse, error)
	ValidateToken(tokenString string) (*AdminClaims, error)
}

// AdminClaims are the JWT claims for a reviewer session.
type AdminClaims struct {
	AdminID int    `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

type adminService struct {
	adminRepo repository.AdminRepository
	cfg       *config.Config
	logger    *logger.Logger
}

// NewAdminService creates a new admin service instance.
func NewAdminService(adminRepo repository.AdminRepository, cfg *config.Config, log *logger.Logger) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		cfg:       cfg,
		logger:    log,
	}
}

// Login checks credentials against the stored bcrypt hash and issues a
// bearer token for the review endpoints. Unknown accounts and wrong passwords
// are indistinguishable to the caller.
func (s *adminService) Login(req *entity.AdminLoginRequest) (*entity.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(req.Email)
	if err != nil {
		s.logger.Errorw("Failed to look up admin account", "email", req.Email, "error", err)
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warnw("Admin login rejected", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.cfg.AdminAuth.ExpirationTime)
	claims := AdminClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "fortivault-intake",
			Subject:   fmt.Sprintf("admin:%d", admin.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.AdminAuth.JWTSecret))
	if err != nil {
		s.logger.Errorw("Failed to sign admin token", "admin_id", admin.ID, "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.adminRepo.UpdateLastLogin(admin.ID); err != nil {
		s.logger.Warnw("Failed to stamp admin login", "admin_id", admin.ID, "error", err)
	}

	s.logger.Infow("Admin logged in", "admin_id", admin.ID, "email", admin.Email)

	return &entity.AdminLoginResponse{
		Token:     tokenString,
		Email:     admin.Email,
		ExpiresAt: expiresAt,
		Message:   "Authentication successful",
	}, nil
}

// ValidateToken parses and verifies a reviewer session token.
func (s *adminService) ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.AdminAuth.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
