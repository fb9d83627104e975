package user

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapUniqueViolation(t *testing.T) {
	uniqueErr := func(constraint string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraint})
	}

	if got := mapUniqueViolation(uniqueErr("users_email_key")); !errors.Is(got, ErrDuplicateEmail) {
		t.Fatalf("email constraint: got %v", got)
	}
	if got := mapUniqueViolation(uniqueErr("users_company_employee_key")); !errors.Is(got, ErrDuplicateEmployeeNumber) {
		t.Fatalf("employee constraint: got %v", got)
	}

	// an unrecognized constraint must surface unchanged, not masquerade as
	// a duplicate email
	unknown := uniqueErr("users_phone_number_key")
	got := mapUniqueViolation(unknown)
	if errors.Is(got, ErrDuplicateEmail) || errors.Is(got, ErrDuplicateEmployeeNumber) {
		t.Fatalf("unknown constraint mapped to a domain sentinel: %v", got)
	}
	if got != unknown {
		t.Fatalf("unknown constraint should pass through, got %v", got)
	}

	// non-unique-violation errors pass through untouched
	plain := errors.New("connection reset")
	if got := mapUniqueViolation(plain); got != plain {
		t.Fatalf("plain error should pass through, got %v", got)
	}
	if got := mapUniqueViolation(nil); got != nil {
		t.Fatalf("nil should pass through, got %v", got)
	}
}
