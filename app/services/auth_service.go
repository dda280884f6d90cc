package services

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/auth"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/orm"
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

type RegisterInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries the authenticated user together with a fresh token pair.
type AuthResult struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
}

// Register creates a new account. Duplicate emails surface as ErrConflict.
func (s *AuthService) Register(in RegisterInput) (AuthResult, error) {
	taken, err := s.users.EmailTaken(in.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, ErrConflict
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		FullName: in.FullName,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(&user); err != nil {
		return AuthResult{}, err
	}

	logger.Info("auth: user registered", "user_id", user.ID, "email", user.Email)
	return s.issue(user)
}

// Login verifies credentials and returns a token pair. Unknown email and wrong
// password both return ErrInvalidCredentials so callers cannot probe accounts.
func (s *AuthService) Login(in LoginInput) (AuthResult, error) {
	user, err := s.users.FindByEmail(in.Email)
	if err != nil {
		if orm.IsNotFound(err) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	logger.Info("auth: user logged in", "user_id", user.ID)
	return s.issue(user)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (AuthResult, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		if orm.IsNotFound(err) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	return s.issue(user)
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return AuthResult{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token, RefreshToken: refresh}, nil
}
