package company

import (
	"context"
	"errors"
	"time"

	"carmate-platform/internal/apperr"
	"carmate-platform/internal/user"

	"github.com/google/uuid"
)

// Service provides tenant administration. All operations are admin-only;
// role enforcement happens in the middleware chain, not here.
type Service struct {
	companies Store
	users     user.Store
	clock     func() time.Time
}

func NewService(companies Store, users user.Store) *Service {
	return &Service{companies: companies, users: users, clock: time.Now}
}

type CreateInput struct {
	Name string `json:"companyName"`
	Code string `json:"companyCode"`
}

type UpdateInput struct {
	Name string `json:"companyName"`
	Code string `json:"companyCode"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	if in.Name == "" || in.Code == "" {
		return View{}, apperr.BadRequest("companyName and companyCode are required")
	}

	if _, err := s.companies.FindByCode(ctx, in.Code); err == nil {
		return View{}, apperr.Conflict("company code already in use")
	} else if !errors.Is(err, ErrNotFound) {
		return View{}, err
	}

	now := s.clock().UTC()
	c := Company{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Code:      in.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companies.Create(ctx, &c); err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			return View{}, apperr.Conflict("company code already in use")
		}
		return View{}, err
	}
	return View{ID: c.ID, Name: c.Name, Code: c.Code, UserCount: 0}, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	q = q.normalized()
	companies, total, err := s.companies.List(ctx, q)
	if err != nil {
		return Page{}, err
	}

	views := make([]View, 0, len(companies))
	for _, c := range companies {
		n, err := s.users.CountByCompany(ctx, c.ID)
		if err != nil {
			return Page{}, err
		}
		views = append(views, View{ID: c.ID, Name: c.Name, Code: c.Code, UserCount: n})
	}

	return Page{
		CurrentPage:    q.Page,
		TotalPages:     totalPages(total, q.PageSize),
		TotalItemCount: total,
		Data:           views,
	}, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (View, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View{}, apperr.NotFound("company not found")
		}
		return View{}, err
	}

	if in.Code != "" && in.Code != c.Code {
		if _, err := s.companies.FindByCode(ctx, in.Code); err == nil {
			return View{}, apperr.Conflict("company code already in use")
		} else if !errors.Is(err, ErrNotFound) {
			return View{}, err
		}
		c.Code = in.Code
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	c.UpdatedAt = s.clock().UTC()

	if err := s.companies.Update(ctx, c); err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			return View{}, apperr.Conflict("company code already in use")
		}
		return View{}, err
	}

	n, err := s.users.CountByCompany(ctx, c.ID)
	if err != nil {
		return View{}, err
	}
	return View{ID: c.ID, Name: c.Name, Code: c.Code, UserCount: n}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("company not found")
		}
		return err
	}
	return nil
}

// MemberView is the API shape for a user row in the cross-company listing.
type MemberView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	EmployeeNumber string    `json:"employeeNumber"`
	PhoneNumber    string    `json:"phoneNumber"`
	Company        CompanyRef `json:"company"`
}

type CompanyRef struct {
	CompanyName string `json:"companyName"`
}

// MemberPage is the offset pagination envelope for member listings.
type MemberPage struct {
	CurrentPage    int          `json:"currentPage"`
	TotalPages     int          `json:"totalPages"`
	TotalItemCount int          `json:"totalItemCount"`
	Data           []MemberView `json:"data"`
}

// ListUsers returns users across all companies. Platform admins only.
func (s *Service) ListUsers(ctx context.Context, q user.SearchQuery) (MemberPage, error) {
	q = q.Normalized()
	members, total, err := s.users.Search(ctx, q)
	if err != nil {
		return MemberPage{}, err
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, MemberView{
			ID:             m.ID,
			Name:           m.Name,
			Email:          m.Email,
			EmployeeNumber: m.EmployeeNumber,
			PhoneNumber:    m.PhoneNumber,
			Company:        CompanyRef{CompanyName: m.CompanyName},
		})
	}

	return MemberPage{
		CurrentPage:    q.Page,
		TotalPages:     totalPages(total, q.PageSize),
		TotalItemCount: total,
		Data:           views,
	}, nil
}
