package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrInvalidUser        = errors.New("phone, name and a password of at least 8 characters are required")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg, now: time.Now}
}

// VerifyCredentials looks the user up by phone and checks password against
// the stored bcrypt hash. Unknown phones and wrong passwords both yield
// ErrInvalidCredentials.
func (s *AuthService) VerifyCredentials(phone, password string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.Password = ""
	return &user, nil
}

// IssueSession signs an HS256 session token for user.
func (s *AuthService) IssueSession(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.SessionTTL)
	claims := jwt.MapClaims{
		"sub":    user.ID,
		"phone":  user.Phone,
		"name":   user.Name,
		"role":   user.Role,
		"org_id": user.OrgID,
		"iat":    now.Unix(),
		"exp":    expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.VerifyCredentials(req.Phone, req.Password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.IssueSession(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      dto.NewUserResponse(user),
	}, nil
}

// CreateUser provisions a desk user. Role defaults to staff.
func (s *AuthService) CreateUser(req *dto.CreateUserRequest) (*models.User, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	req.Name = strings.TrimSpace(req.Name)
	if req.Phone == "" || req.Name == "" || len(req.Password) < 8 {
		return nil, ErrInvalidUser
	}
	if req.Role == "" {
		req.Role = models.RoleStaff
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("phone = ?", req.Phone).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}
	if count > 0 {
		return nil, ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Phone:    req.Phone,
		Name:     req.Name,
		Role:     req.Role,
		OrgID:    req.OrgID,
		Password: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Password = ""
	return &user, nil
}
