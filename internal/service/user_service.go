package service

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"

	"github.com/frontdesk/vms/internal/domain"
	"github.com/frontdesk/vms/internal/repo/postgres"
	"github.com/frontdesk/vms/pkg/auth"
	"github.com/frontdesk/vms/pkg/config"
)

type UserService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users       postgres.UsersRepo
	departments postgres.DepartmentsRepo
	cfg         *config.Config
}

func NewUserService(users postgres.UsersRepo, departments postgres.DepartmentsRepo, cfg *config.Config) UserService {
	return &userService{
		users:       users,
		departments: departments,
		cfg:         cfg,
	}
}

func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, string(user.Role), s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:        user.ToUserInfo(),
	}, nil
}

func (s *userService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role, _ := domain.ParseRole(req.Role)

	// At most one admin system-wide.
	if role == domain.RoleAdmin {
		exists, err := s.users.AdminExists(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing admin: %w", err)
		}
		if exists {
			return nil, domain.ErrAdminExists
		}
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmailOrPhone
	}

	// Department affiliation is meaningful only for hosts.
	var departmentID *int64
	if role == domain.RoleHost {
		dept, err := s.departments.FindByID(ctx, *req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up department: %w", err)
		}
		if dept == nil {
			return nil, domain.ErrDepartmentNotFound
		}
		departmentID = req.DepartmentID
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, hash, role, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role == domain.RoleAdmin {
		return domain.ErrAdminUndeletable
	}

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return domain.ErrUserNotFound
	}
	return nil
}
