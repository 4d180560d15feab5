package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

var (
	ErrUserNotFound       = fmt.Errorf("user: %w", apperr.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthorized)
	ErrIncorrectPassword  = fmt.Errorf("incorrect password: %w", apperr.ErrUnauthorized)
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", apperr.ErrConflict)
)

type UserService interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	GetMe(ctx context.Context) (*UserResponse, error)
	ChangePassword(ctx context.Context, dto ChangePasswordDTO) error
	CreateUser(ctx context.Context, dto CreateUserDTO) (*UserResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	repo UserRepository
}

func NewService(repo UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	log := config.WithContext(ctx)
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.WithField("email", dto.Email).Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to load user for login")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		log.WithField("user_id", u.ID).Warn("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID.String(), u.Role, auth.TokenTTL)
	if err != nil {
		log.WithError(err).Error("Failed to sign token")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User logged in")
	return &LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
		User:      *toResponse(u),
	}, nil
}

func (s *userService) GetMe(ctx context.Context) (*UserResponse, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func (s *userService) ChangePassword(ctx context.Context, dto ChangePasswordDTO) error {
	log := config.WithContext(ctx)
	if err := apperr.Validate(dto); err != nil {
		return err
	}

	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		log.Warn("Password change with incorrect current password")
		return ErrIncorrectPassword
	}

	hash, err := hashPassword(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		log.WithError(err).Error("Failed to update password")
		return err
	}

	log.Info("Password changed")
	return nil
}

func (s *userService) CreateUser(ctx context.Context, dto CreateUserDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, dto.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithFields(map[string]interface{}{"new_user_id": u.ID, "new_user_role": u.Role}).Info("User created")
	return toResponse(u), nil
}

// EnsureAdmin creates the bootstrap administrator when the email is not registered yet.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, &User{Name: "Administrator", Email: email, PasswordHash: hash, Role: auth.RoleAdmin}); err != nil {
		return err
	}
	config.WithContext(ctx).WithField("email", email).Info("Bootstrap admin created")
	return nil
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	id, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
