package user

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for tests and early development.
// It enforces the same uniqueness constraints the Postgres schema does.
//
// CompanyNames lets the cross-company search resolve company names without
// reaching into the company package; tests populate it alongside the
// company store.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]User
	CompanyNames map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]User),
		CompanyNames: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
		if u.CompanyID != "" && existing.CompanyID == u.CompanyID && existing.EmployeeNumber == u.EmployeeNumber {
			return ErrDuplicateEmployeeNumber
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ExistsByEmployeeNumber(_ context.Context, companyID, employeeNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.CompanyID == companyID && u.EmployeeNumber == employeeNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Update(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.users {
		if id == u.ID {
			continue
		}
		if u.CompanyID != "" && existing.CompanyID == u.CompanyID && existing.EmployeeNumber == u.EmployeeNumber {
			return ErrDuplicateEmployeeNumber
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) CountByCompany(_ context.Context, companyID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Search(_ context.Context, q SearchQuery) ([]Member, int, error) {
	q = q.Normalized()

	s.mu.RLock()
	var matched []Member
	for _, u := range s.users {
		m := Member{User: u, CompanyName: s.CompanyNames[u.CompanyID]}
		if s.matches(m, q) {
			matched = append(matched, m)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (q.Page - 1) * q.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *MemoryStore) matches(m Member, q SearchQuery) bool {
	if q.Keyword == "" {
		return true
	}
	kw := strings.ToLower(q.Keyword)
	switch q.SearchBy {
	case "companyName":
		return strings.Contains(strings.ToLower(m.CompanyName), kw)
	case "name":
		return strings.Contains(strings.ToLower(m.Name), kw)
	case "email":
		return strings.Contains(strings.ToLower(m.Email), kw)
	default:
		return true
	}
}
