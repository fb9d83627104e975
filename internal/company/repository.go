package company

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"carmate-platform/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("company not found")
	ErrDuplicateCode = errors.New("company code already in use")
)

// Store is the persistence contract for companies. The Postgres
// implementation is authoritative for the company_code uniqueness invariant;
// service-level pre-checks are advisory and a concurrent insert may still be
// rejected here with ErrDuplicateCode.
type Store interface {
	Create(ctx context.Context, c *Company) error
	FindByID(ctx context.Context, id string) (*Company, error)
	FindByCode(ctx context.Context, code string) (*Company, error)
	FindByNameAndCode(ctx context.Context, name, code string) (*Company, error)
	List(ctx context.Context, q ListQuery) ([]Company, int, error)
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id string) error
}

// NOTE: assumes a companies table with UNIQUE (company_code).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *Company) error {
	const q = `
INSERT INTO companies (id, company_name, company_code, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
`
	_, err := s.db.ExecContext(ctx, q, c.ID, c.Name, c.Code, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Company, error) {
	const q = `
SELECT id, company_name, company_code, created_at, updated_at
FROM companies
WHERE id = $1
`
	return s.scanOne(s.db.QueryRowContext(ctx, q, id))
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*Company, error) {
	const q = `
SELECT id, company_name, company_code, created_at, updated_at
FROM companies
WHERE company_code = $1
`
	return s.scanOne(s.db.QueryRowContext(ctx, q, code))
}

func (s *PostgresStore) FindByNameAndCode(ctx context.Context, name, code string) (*Company, error) {
	const q = `
SELECT id, company_name, company_code, created_at, updated_at
FROM companies
WHERE company_name = $1 AND company_code = $2
`
	return s.scanOne(s.db.QueryRowContext(ctx, q, name, code))
}

func (s *PostgresStore) List(ctx context.Context, query ListQuery) ([]Company, int, error) {
	query = query.normalized()

	where := ""
	args := []any{}
	if query.Keyword != "" {
		switch query.SearchBy {
		case "companyName":
			where = "WHERE company_name ILIKE $1"
			args = append(args, "%"+query.Keyword+"%")
		case "companyCode":
			where = "WHERE company_code ILIKE $1"
			args = append(args, "%"+query.Keyword+"%")
		}
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.PageSize
	listArgs := append(args, query.PageSize, offset)
	listQ := `
SELECT id, company_name, company_code, created_at, updated_at
FROM companies ` + where + `
ORDER BY created_at DESC
LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	rows, err := s.db.QueryContext(ctx, listQ, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, c *Company) error {
	const q = `
UPDATE companies
SET company_name = $2, company_code = $3, updated_at = $4
WHERE id = $1
`
	res, err := s.db.ExecContext(ctx, q, c.ID, c.Name, c.Code, c.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the company and its members in one transaction so a
// half-deleted tenant can never be observed.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	return utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE company_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *PostgresStore) scanOne(row *sql.Row) (*Company, error) {
	var c Company
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
