package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/vms/internal/domain"
)

type VisitorsRepo interface {
	Create(ctx context.Context, name, email, phone, photoURL string) (*domain.Visitor, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*domain.Visitor, error)
	FindByID(ctx context.Context, id int64) (*domain.Visitor, error)
	List(ctx context.Context, limit, offset int) ([]domain.Visitor, error)
}

type VisitorsRepoImpl struct{ pool *pgxpool.Pool }

func NewVisitorsRepo(pool *pgxpool.Pool) *VisitorsRepoImpl { return &VisitorsRepoImpl{pool: pool} }

const visitorCols = `id, name, email, phone, photo_url, created_at, updated_at`

func scanVisitor(row pgx.Row) (*domain.Visitor, error) {
	var v domain.Visitor
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.PhotoURL, &v.CreatedAt, &v.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VisitorsRepoImpl) Create(ctx context.Context, name, email, phone, photoURL string) (*domain.Visitor, error) {
	const q = `INSERT INTO visitors (name, email, phone, photo_url)
VALUES ($1,$2,$3,$4)
RETURNING ` + visitorCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisitor(r.pool.QueryRow(ctx, q, name, email, phone, photoURL))
}

// FindByEmailOrPhone is the dedup lookup used at registration. An empty
// phone never matches; only a real phone number can reuse a record.
func (r *VisitorsRepoImpl) FindByEmailOrPhone(ctx context.Context, email, phone string) (*domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors
WHERE email=$1 OR (phone <> '' AND phone=$2)
ORDER BY id LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisitor(r.pool.QueryRow(ctx, q, email, phone))
}

func (r *VisitorsRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanVisitor(r.pool.QueryRow(ctx, q, id))
}

func (r *VisitorsRepoImpl) List(ctx context.Context, limit, offset int) ([]domain.Visitor, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT ` + visitorCols + ` FROM visitors ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vs := make([]domain.Visitor, 0, limit)
	for rows.Next() {
		var v domain.Visitor
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.PhotoURL, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

var _ VisitorsRepo = (*VisitorsRepoImpl)(nil)
