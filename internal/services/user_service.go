package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"groupchat/internal/apperrors"
	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

type UserService interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error)
	// Login returns a signed identity token for the user.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// Authenticate verifies token and checks that its user still exists.
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
	log          *slog.Logger
}

// NewUserService wires account management. emailService may be nil, in which
// case no welcome email is sent.
func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService, log *slog.Logger) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
		log:          log.With(slog.String("component", "user_service")),
	}
}

func (s *userService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", apperrors.ErrInvalidInput)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: lookup email: %w", apperrors.ErrInternal, err)
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", apperrors.ErrInternal, err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// lost a race with a concurrent sign-up for the same address
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: create user: %w", apperrors.ErrInternal, err)
	}
	s.log.Info("user created", slog.String("userID", user.ID))

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			s.log.Warn("welcome email failed", slog.String("userID", user.ID), slog.Any("error", err))
		}
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, apperrors.ErrUserNotFound
		}
		return "", nil, fmt.Errorf("%w: lookup email: %w", apperrors.ErrInternal, err)
	}

	if err := s.authService.ComparePassword(user.PasswordHash, password); err != nil {
		s.log.Info("password mismatch", slog.String("userID", user.ID))
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.authService.Issue(user.ID, user.Name)
	if err != nil {
		return "", nil, fmt.Errorf("%w: issue token: %w", apperrors.ErrInternal, err)
	}
	return token, user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUnknownUser
		}
		return nil, fmt.Errorf("%w: lookup user: %w", apperrors.ErrInternal, err)
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := s.authService.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &models.Identity{UserID: user.ID, Name: user.Name}, nil
}
