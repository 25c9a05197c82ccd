package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/directory"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakCredentials    = errors.New("email required and password must be at least 8 characters")
)

// AuthResult carries a freshly issued session token.
type AuthResult struct {
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	db         *gorm.DB
	sessions   *session.Store
	directory  *directory.Directory
	signupRole guard.Role
}

func NewAuthService(db *gorm.DB, sessions *session.Store, dir *directory.Directory, signupRole guard.Role) *AuthService {
	return &AuthService{
		db:         db,
		sessions:   sessions,
		directory:  dir,
		signupRole: signupRole,
	}
}

// Signup creates the login and an unprovisioned role row in one transaction,
// then signs the new user in.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < 8 {
		return nil, ErrWeakCredentials
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return s.directory.Register(ctx, tx, user.ID, email, s.signupRole)
	})
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, &user)
}

// Logout revokes the session carried by ctx.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.SignOut(ctx)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, expires, err := s.sessions.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{UserID: user.ID, Token: token, ExpiresAt: expires}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
