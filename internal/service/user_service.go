package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*models.Actor, error)
	ListFaculty(ctx context.Context) ([]models.User, error)
	AddFaculty(ctx context.Context, username, password string) (*models.User, error)
	DeleteFaculty(ctx context.Context, id uint) error
	ResetPassword(ctx context.Context, id uint, newPassword string) error
	EnsureUser(ctx context.Context, username, password string, role models.Role) (bool, error)
}

type userService struct {
	repo   repository.UserRepository
	cost   int
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &userService{repo: repo, cost: bcrypt.DefaultCost, logger: logger}
}

// Authenticate returns the actor for valid credentials, or ErrForbidden.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.Actor, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, persistenceError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrForbidden
	}
	return &models.Actor{Username: user.Username, Role: user.Role}, nil
}

func (s *userService) ListFaculty(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.FindByRole(ctx, models.RoleFaculty)
	if err != nil {
		return nil, persistenceError(err)
	}
	return users, nil
}

func (s *userService) AddFaculty(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.create(ctx, username, password, models.RoleFaculty)
	if err != nil {
		return nil, err
	}
	s.logger.Info("faculty added", "component", "user", "username", user.Username)
	return user, nil
}

func (s *userService) create(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, validationError("username and password required")
	}
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, validationError("password cannot be hashed: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: string(hash), Role: role}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, persistenceError(err)
	}
	return user, nil
}

func (s *userService) facultyByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistenceError(err)
	}
	if user.Role != models.RoleFaculty {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *userService) DeleteFaculty(ctx context.Context, id uint) error {
	user, err := s.facultyByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return persistenceError(err)
	}
	s.logger.Info("faculty deleted", "component", "user", "username", user.Username)
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, id uint, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		return validationError("new password required")
	}
	user, err := s.facultyByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return validationError("password cannot be hashed: %v", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return persistenceError(err)
	}
	s.logger.Info("faculty password reset", "component", "user", "username", user.Username)
	return nil
}

// EnsureUser creates the user unless the username is already taken. It
// reports whether a user was created.
func (s *userService) EnsureUser(ctx context.Context, username, password string, role models.Role) (bool, error) {
	_, err := s.create(ctx, username, password, role)
	if errors.Is(err, ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Info("seeded user", "component", "user", "username", username, "role", role)
	return true, nil
}
