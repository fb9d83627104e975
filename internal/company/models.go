package company

import "time"

// Company is a tenant boundary. All non-admin users belong to exactly one
// company; data visibility never crosses companies.
//
// Code is the registration code handed to employees. Resolution at signup
// requires the exact (name, code) pair so a leaked code alone is not enough.
type Company struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"companyName" db:"company_name"`
	Code string `json:"companyCode" db:"company_code"`

	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// View is the API shape for a company, including the member headcount.
type View struct {
	ID        string `json:"id"`
	Name      string `json:"companyName"`
	Code      string `json:"companyCode"`
	UserCount int    `json:"userCount"`
}

// ListQuery is an offset-paginated, optionally filtered company listing.
// SearchBy accepts "companyName" or "companyCode"; matching is a
// case-insensitive substring match.
type ListQuery struct {
	Page     int
	PageSize int
	SearchBy string
	Keyword  string
}

func (q ListQuery) normalized() ListQuery {
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

// Page is the offset pagination envelope used by company listings.
type Page struct {
	CurrentPage    int    `json:"currentPage"`
	TotalPages     int    `json:"totalPages"`
	TotalItemCount int    `json:"totalItemCount"`
	Data           []View `json:"data"`
}

func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
