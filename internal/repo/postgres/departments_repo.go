package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/vms/internal/domain"
)

type DepartmentsRepo interface {
	Create(ctx context.Context, name, description string) (*domain.Department, error)
	FindByID(ctx context.Context, id int64) (*domain.Department, error)
	FindByName(ctx context.Context, name string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
}

type DepartmentsRepoImpl struct{ pool *pgxpool.Pool }

func NewDepartmentsRepo(pool *pgxpool.Pool) *DepartmentsRepoImpl {
	return &DepartmentsRepoImpl{pool: pool}
}

const departmentCols = `id, name, description, created_at`

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var d domain.Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentsRepoImpl) Create(ctx context.Context, name, description string) (*domain.Department, error) {
	const q = `INSERT INTO departments (name, description)
VALUES ($1,$2)
RETURNING ` + departmentCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanDepartment(r.pool.QueryRow(ctx, q, name, description))
}

func (r *DepartmentsRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Department, error) {
	const q = `SELECT ` + departmentCols + ` FROM departments WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanDepartment(r.pool.QueryRow(ctx, q, id))
}

func (r *DepartmentsRepoImpl) FindByName(ctx context.Context, name string) (*domain.Department, error) {
	const q = `SELECT ` + departmentCols + ` FROM departments WHERE name=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanDepartment(r.pool.QueryRow(ctx, q, name))
}

func (r *DepartmentsRepoImpl) List(ctx context.Context) ([]domain.Department, error) {
	const q = `SELECT ` + departmentCols + ` FROM departments ORDER BY name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ds := make([]domain.Department, 0)
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, rows.Err()
}

var _ DepartmentsRepo = (*DepartmentsRepoImpl)(nil)
