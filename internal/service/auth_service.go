package service

import (
	"errors"

	"arar/config"
	"arar/internal/auth"
	"arar/internal/domain"
	"arar/internal/models"
	"arar/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidCreds    = errors.New("incorrect email or password")
	ErrAccountInactive = errors.New("account is inactive")
	ErrAdminNotFound   = errors.New("admin not found")
)

type AuthService struct {
	cfg       *config.Config
	adminRepo *repository.AdminRepository
}

func NewAuthService(cfg *config.Config, adminRepo *repository.AdminRepository) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo}
}

// Login checks credentials and returns a bearer access token.
func (s *AuthService) Login(email, password string) (string, error) {
	a, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCreds
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.HashedPassword), []byte(password)); err != nil {
		return "", ErrInvalidCreds
	}
	if !a.IsActive {
		return "", ErrAccountInactive
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, a.Email, a.Role)
}

// Register creates another admin account.
func (s *AuthService) Register(email, fullName, password, role string) (*models.AdminUser, error) {
	_, err := s.adminRepo.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RoleAdmin
	}
	a := &models.AdminUser{
		Email:          email,
		FullName:       fullName,
		Role:           role,
		IsActive:       true,
		HashedPassword: string(hash),
	}
	if err := s.adminRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Authenticate resolves a bearer token to an active admin account.
func (s *AuthService) Authenticate(token string) (*models.AdminUser, error) {
	claims, err := auth.ParseAccessToken(&s.cfg.JWT, token)
	if err != nil {
		return nil, err
	}
	a, err := s.adminRepo.GetByEmail(claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrAccountInactive
	}
	return a, nil
}
