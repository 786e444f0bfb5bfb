package service

import (
	"context"
	"fmt"

	"github.com/frontdesk/vms/internal/domain"
	"github.com/frontdesk/vms/internal/repo/postgres"
)

type DepartmentService interface {
	Create(ctx context.Context, req *domain.CreateDepartmentRequest) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	// ListHosts backs the host-selection step before a visit is created.
	ListHosts(ctx context.Context, departmentID int64) ([]domain.User, error)
}

type departmentService struct {
	departments postgres.DepartmentsRepo
	users       postgres.UsersRepo
}

func NewDepartmentService(departments postgres.DepartmentsRepo, users postgres.UsersRepo) DepartmentService {
	return &departmentService{
		departments: departments,
		users:       users,
	}
}

func (s *departmentService) Create(ctx context.Context, req *domain.CreateDepartmentRequest) (*domain.Department, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.departments.FindByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing department: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateDepartment
	}

	dept, err := s.departments.Create(ctx, req.Name, req.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

func (s *departmentService) List(ctx context.Context) ([]domain.Department, error) {
	return s.departments.List(ctx)
}

func (s *departmentService) ListHosts(ctx context.Context, departmentID int64) ([]domain.User, error) {
	dept, err := s.departments.FindByID(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up department: %w", err)
	}
	if dept == nil {
		return nil, domain.ErrDepartmentNotFound
	}
	return s.users.ListHostsByDepartment(ctx, departmentID)
}
