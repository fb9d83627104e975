package user

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_UniquenessConstraints(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	seed := User{ID: "u1", CompanyID: "co-1", Email: "kim@best.com", Name: "Kim", EmployeeNumber: "E-1"}
	if err := s.Create(ctx, &seed); err != nil {
		t.Fatalf("create: %v", err)
	}

	dupEmail := User{ID: "u2", CompanyID: "co-2", Email: "kim@best.com", Name: "Other", EmployeeNumber: "E-9"}
	if err := s.Create(ctx, &dupEmail); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	dupEmployee := User{ID: "u3", CompanyID: "co-1", Email: "lee@best.com", Name: "Lee", EmployeeNumber: "E-1"}
	if err := s.Create(ctx, &dupEmployee); !errors.Is(err, ErrDuplicateEmployeeNumber) {
		t.Fatalf("expected ErrDuplicateEmployeeNumber, got %v", err)
	}

	// same employee number in another company is fine
	otherCompany := User{ID: "u4", CompanyID: "co-2", Email: "park@other.com", Name: "Park", EmployeeNumber: "E-1"}
	if err := s.Create(ctx, &otherCompany); err != nil {
		t.Fatalf("cross-company employee number: %v", err)
	}

	// updates re-check the employee number within the company
	u4, err := s.FindByID(ctx, "u4")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	u4.CompanyID = "co-1"
	if err := s.Update(ctx, u4); !errors.Is(err, ErrDuplicateEmployeeNumber) {
		t.Fatalf("expected ErrDuplicateEmployeeNumber on update, got %v", err)
	}
}

func TestMemoryStore_SearchOrdersNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	s.CompanyNames["co-1"] = "Best Motors"
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	for i, id := range []string{"u1", "u2", "u3"} {
		u := User{
			ID: id, CompanyID: "co-1", Email: id + "@best.com", Name: id,
			EmployeeNumber: "E-" + id, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Create(ctx, &u); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	members, total, err := s.Search(ctx, SearchQuery{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 3 || len(members) != 3 {
		t.Fatalf("unexpected result: total=%d len=%d", total, len(members))
	}
	if members[0].ID != "u3" || members[2].ID != "u1" {
		t.Fatalf("expected newest first, got %s..%s", members[0].ID, members[2].ID)
	}
	if members[0].CompanyName != "Best Motors" {
		t.Fatalf("company name not resolved: %+v", members[0])
	}
}
