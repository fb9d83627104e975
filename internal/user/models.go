package user

import "time"

// User is a credential record. CompanyID is empty for platform
// administrators, who are not scoped to any tenant.
//
// Invariant: email is globally unique; employee_number is unique within a
// company. Both are enforced by the store.
type User struct {
	ID             string `db:"id"`
	CompanyID      string `db:"company_id"`
	Email          string `db:"email"`
	PasswordHash   string `db:"password"`
	Name           string `db:"name"`
	EmployeeNumber string `db:"employee_number"`
	PhoneNumber    string `db:"phone_number"`
	ImageURL       string `db:"image_url"`
	IsAdmin        bool   `db:"is_admin"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SearchQuery lists users across companies with offset pagination.
// SearchBy accepts "companyName", "name" or "email".
type SearchQuery struct {
	Page     int
	PageSize int
	SearchBy string
	Keyword  string
}

// Normalized applies the pagination defaults and the page-size cap. Stores
// apply it before querying; envelope builders must use the same normalized
// values so totalPages matches the rows actually returned.
func (q SearchQuery) Normalized() SearchQuery {
	out := q
	if out.Page <= 0 {
		out.Page = 1
	}
	if out.PageSize <= 0 {
		out.PageSize = 10
	}
	if out.PageSize > 100 {
		out.PageSize = 100
	}
	return out
}

// Member is a search row: a user joined with their company name.
type Member struct {
	User
	CompanyName string
}
