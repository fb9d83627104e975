package company

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for tests and early development.
// It enforces the same company_code uniqueness the Postgres schema does.
type MemoryStore struct {
	mu        sync.RWMutex
	companies map[string]Company
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{companies: make(map[string]Company)}
}

func (s *MemoryStore) Create(_ context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.companies {
		if existing.Code == c.Code {
			return ErrDuplicateCode
		}
	}
	s.companies[c.ID] = *c
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *MemoryStore) FindByCode(_ context.Context, code string) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.Code == code {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByNameAndCode(_ context.Context, name, code string) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.Name == name && c.Code == code {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context, q ListQuery) ([]Company, int, error) {
	q = q.normalized()

	s.mu.RLock()
	var matched []Company
	for _, c := range s.companies {
		if matchesCompany(c, q) {
			matched = append(matched, c)
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

func (s *MemoryStore) Update(_ context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.companies {
		if id != c.ID && existing.Code == c.Code {
			return ErrDuplicateCode
		}
	}
	s.companies[c.ID] = *c
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[id]; !ok {
		return ErrNotFound
	}
	delete(s.companies, id)
	return nil
}

func matchesCompany(c Company, q ListQuery) bool {
	if q.Keyword == "" {
		return true
	}
	kw := strings.ToLower(q.Keyword)
	switch q.SearchBy {
	case "companyName":
		return strings.Contains(strings.ToLower(c.Name), kw)
	case "companyCode":
		return strings.Contains(strings.ToLower(c.Code), kw)
	default:
		return true
	}
}
