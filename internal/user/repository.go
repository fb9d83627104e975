package user

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound                = errors.New("user not found")
	ErrDuplicateEmail          = errors.New("email already registered")
	ErrDuplicateEmployeeNumber = errors.New("employee number already in use")
)

// Store is the persistence contract for credential records. Uniqueness of
// email and (company_id, employee_number) is authoritative at this level;
// callers' pre-checks are advisory and must tolerate a duplicate error from
// Create/Update under concurrency.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmployeeNumber(ctx context.Context, companyID, employeeNumber string) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	CountByCompany(ctx context.Context, companyID string) (int, error)
	Search(ctx context.Context, q SearchQuery) ([]Member, int, error)
}

// NOTE: assumes a users table with UNIQUE (email) named users_email_key and
// UNIQUE (company_id, employee_number) named users_company_employee_key.
// company_id is NULL for platform admins; the Go side maps NULL to "".
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, company_id, email, password, name, employee_number, phone_number, image_url, is_admin, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	const q = `
INSERT INTO users (id, company_id, email, password, name, employee_number, phone_number, image_url, is_admin, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
	_, err := s.db.ExecContext(ctx, q,
		u.ID,
		nullable(u.CompanyID),
		u.Email,
		u.PasswordHash,
		u.Name,
		u.EmployeeNumber,
		u.PhoneNumber,
		u.ImageURL,
		u.IsAdmin,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapUniqueViolation(err)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *PostgresStore) ExistsByEmployeeNumber(ctx context.Context, companyID, employeeNumber string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE company_id = $1 AND employee_number = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, companyID, employeeNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PostgresStore) Update(ctx context.Context, u *User) error {
	const q = `
UPDATE users
SET password = $2, employee_number = $3, phone_number = $4, image_url = $5, updated_at = $6
WHERE id = $1
`
	res, err := s.db.ExecContext(ctx, q, u.ID, u.PasswordHash, u.EmployeeNumber, u.PhoneNumber, u.ImageURL, u.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
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

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (s *PostgresStore) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE company_id = $1`, companyID).Scan(&n)
	return n, err
}

func (s *PostgresStore) Search(ctx context.Context, query SearchQuery) ([]Member, int, error) {
	query = query.Normalized()

	where := ""
	args := []any{}
	if query.Keyword != "" {
		kw := "%" + query.Keyword + "%"
		switch query.SearchBy {
		case "companyName":
			where = "WHERE c.company_name ILIKE $1"
			args = append(args, kw)
		case "name":
			where = "WHERE u.name ILIKE $1"
			args = append(args, kw)
		case "email":
			where = "WHERE u.email ILIKE $1"
			args = append(args, kw)
		}
	}

	countQ := `
SELECT COUNT(*)
FROM users u
LEFT JOIN companies c ON c.id = u.company_id ` + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.PageSize
	listArgs := append(args, query.PageSize, offset)
	listQ := `
SELECT u.id, u.company_id, u.email, u.password, u.name, u.employee_number, u.phone_number, u.image_url, u.is_admin, u.created_at, u.updated_at,
       COALESCE(c.company_name, '')
FROM users u
LEFT JOIN companies c ON c.id = u.company_id ` + where + `
ORDER BY u.created_at DESC
LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	rows, err := s.db.QueryContext(ctx, listQ, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		var companyID sql.NullString
		if err := rows.Scan(
			&m.ID,
			&companyID,
			&m.Email,
			&m.PasswordHash,
			&m.Name,
			&m.EmployeeNumber,
			&m.PhoneNumber,
			&m.ImageURL,
			&m.IsAdmin,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.CompanyName,
		); err != nil {
			return nil, 0, err
		}
		m.CompanyID = companyID.String
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (s *PostgresStore) scanOne(row *sql.Row) (*User, error) {
	var u User
	var companyID sql.NullString
	if err := row.Scan(
		&u.ID,
		&companyID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.EmployeeNumber,
		&u.PhoneNumber,
		&u.ImageURL,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CompanyID = companyID.String
	return &u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// mapUniqueViolation converts a Postgres unique violation into the matching
// domain sentinel based on the constraint that fired.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrDuplicateEmail
	case "users_company_employee_key":
		return ErrDuplicateEmployeeNumber
	default:
		// An unrecognized constraint is not one of ours to translate.
		return err
	}
}
