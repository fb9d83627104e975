package auth

import (
	"context"
	"errors"
	"time"

	"carmate-platform/internal/apperr"
	"carmate-platform/internal/company"
	"carmate-platform/internal/user"

	"github.com/google/uuid"
)

// failedLoginMessage is shared by the unknown-email and wrong-password paths
// so responses cannot be used to enumerate registered emails.
const failedLoginMessage = "email or password is incorrect"

// Service orchestrates the credential lifecycle: login, registration, token
// refresh, and password/profile changes. Stores and the token manager are
// injected at construction; the service holds no mutable state of its own.
type Service struct {
	users     user.Store
	companies company.Store
	tokens    *Manager
	clock     func() time.Time
}

func NewService(users user.Store, companies company.Store, tokens *Manager) *Service {
	return &Service{users: users, companies: companies, tokens: tokens, clock: time.Now}
}

// Profile is the sanitized user shape returned by auth and user endpoints.
// It never carries the password hash.
type Profile struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	EmployeeNumber string      `json:"employeeNumber"`
	PhoneNumber    string      `json:"phoneNumber"`
	ImageURL       string      `json:"imageUrl,omitempty"`
	IsAdmin        bool        `json:"isAdmin"`
	Company        *CompanyRef `json:"company"`
}

type CompanyRef struct {
	CompanyName string `json:"companyName"`
}

// Session is the result of login, registration and refresh: the sanitized
// user plus a fresh token pair.
type Session struct {
	User Profile
	TokenPair
}

type RegisterInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	EmployeeNumber string `json:"employeeNumber"`
	PhoneNumber    string `json:"phoneNumber"`
	CompanyName    string `json:"companyName"`
	CompanyCode    string `json:"companyCode"`
}

// Login verifies credentials and issues a token pair. The failure is the
// same for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, apperr.BadRequest("email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, apperr.Authentication(failedLoginMessage)
		}
		return Session{}, err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return Session{}, apperr.Authentication(failedLoginMessage)
	}

	return s.startSession(ctx, u)
}

// Register creates a credential record under the tenant identified by the
// exact (companyName, companyCode) pair and issues a first token pair.
// The store's unique constraints remain authoritative: a concurrent
// registration that slips past the pre-checks still maps to Conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" ||
		in.EmployeeNumber == "" || in.CompanyName == "" || in.CompanyCode == "" {
		return Session{}, apperr.BadRequest("missing required registration fields")
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return Session{}, apperr.Conflict("email already registered")
	} else if !errors.Is(err, user.ErrNotFound) {
		return Session{}, err
	}

	comp, err := s.companies.FindByNameAndCode(ctx, in.CompanyName, in.CompanyCode)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return Session{}, apperr.NotFound("company not found, check the company name and code")
		}
		return Session{}, err
	}

	taken, err := s.users.ExistsByEmployeeNumber(ctx, comp.ID, in.EmployeeNumber)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, apperr.Conflict("employee number already in use")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	now := s.clock().UTC()
	u := &user.User{
		ID:             uuid.NewString(),
		CompanyID:      comp.ID,
		Email:          in.Email,
		PasswordHash:   hash,
		Name:           in.Name,
		EmployeeNumber: in.EmployeeNumber,
		PhoneNumber:    in.PhoneNumber,
		IsAdmin:        false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			return Session{}, apperr.Conflict("email already registered")
		case errors.Is(err, user.ErrDuplicateEmployeeNumber):
			return Session{}, apperr.Conflict("employee number already in use")
		}
		return Session{}, err
	}

	return s.startSession(ctx, u)
}

// Refresh verifies a refresh token, re-loads the credential record (a
// deleted user cannot refresh) and issues a brand-new pair. The old refresh
// token stays technically valid until its own expiry; there is no
// revocation list. Every failure collapses to the same generic error.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	id, err := s.tokens.VerifyRefresh(refreshToken, s.clock())
	if err != nil {
		return Session{}, apperr.Authentication("refresh failed")
	}

	u, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		return Session{}, apperr.Authentication("refresh failed")
	}

	sess, err := s.startSession(ctx, u)
	if err != nil {
		return Session{}, apperr.Authentication("refresh failed")
	}
	return sess, nil
}

// ChangePassword verifies the current password and persists a new one.
// Reusing the current password is rejected.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperr.BadRequest("current and new passwords are required")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}

	if !VerifyPassword(currentPassword, u.PasswordHash) {
		return apperr.BadRequest("current password is incorrect")
	}
	if newPassword == currentPassword {
		return apperr.BadRequest("new password must differ from the current password")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.clock().UTC()
	return s.users.Update(ctx, u)
}

// CurrentUser returns the sanitized profile for the authenticated user.
func (s *Service) CurrentUser(ctx context.Context, userID string) (Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, apperr.NotFound("user not found")
		}
		return Profile{}, err
	}
	return s.profile(ctx, u)
}

// CheckPassword verifies the caller's password and returns the stored hash.
// The frontend re-sends the hash with sensitive follow-up requests.
func (s *Service) CheckPassword(ctx context.Context, userID, password string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", apperr.NotFound("user not found")
		}
		return "", err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return "", apperr.BadRequest("password is incorrect")
	}
	return u.PasswordHash, nil
}

type UpdateProfileInput struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password,omitempty"`
	EmployeeNumber  string `json:"employeeNumber"`
	PhoneNumber     string `json:"phoneNumber"`
	ImageURL        string `json:"imageUrl,omitempty"`
}

// UpdateProfile updates mutable profile fields. The current password gates
// every change; a new password, when present, must differ from it.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, apperr.NotFound("user not found")
		}
		return Profile{}, err
	}

	if !VerifyPassword(in.CurrentPassword, u.PasswordHash) {
		return Profile{}, apperr.BadRequest("current password is incorrect")
	}

	if in.EmployeeNumber != "" && in.EmployeeNumber != u.EmployeeNumber && u.CompanyID != "" {
		taken, err := s.users.ExistsByEmployeeNumber(ctx, u.CompanyID, in.EmployeeNumber)
		if err != nil {
			return Profile{}, err
		}
		if taken {
			return Profile{}, apperr.Conflict("employee number already in use")
		}
		u.EmployeeNumber = in.EmployeeNumber
	}
	if in.PhoneNumber != "" {
		u.PhoneNumber = in.PhoneNumber
	}
	if in.ImageURL != "" {
		u.ImageURL = in.ImageURL
	}
	if in.Password != "" {
		if in.Password == in.CurrentPassword {
			return Profile{}, apperr.BadRequest("new password must differ from the current password")
		}
		hash, err := HashPassword(in.Password)
		if err != nil {
			return Profile{}, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.clock().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmployeeNumber) {
			return Profile{}, apperr.Conflict("employee number already in use")
		}
		return Profile{}, err
	}
	return s.profile(ctx, u)
}

// DeleteUser removes a credential record. Admin-only at the route level;
// self-deletion is rejected here as well.
func (s *Service) DeleteUser(ctx context.Context, adminUserID, targetUserID string) error {
	if adminUserID == targetUserID {
		return apperr.BadRequest("you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, targetUserID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}
	return nil
}

func (s *Service) startSession(ctx context.Context, u *user.User) (Session, error) {
	pair, err := s.tokens.IssuePair(s.clock(), Identity{
		UserID:    u.ID,
		Email:     u.Email,
		CompanyID: u.CompanyID,
		IsAdmin:   u.IsAdmin,
	})
	if err != nil {
		return Session{}, err
	}
	p, err := s.profile(ctx, u)
	if err != nil {
		return Session{}, err
	}
	return Session{User: p, TokenPair: pair}, nil
}

func (s *Service) profile(ctx context.Context, u *user.User) (Profile, error) {
	p := Profile{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		EmployeeNumber: u.EmployeeNumber,
		PhoneNumber:    u.PhoneNumber,
		ImageURL:       u.ImageURL,
		IsAdmin:        u.IsAdmin,
	}
	if u.CompanyID != "" {
		comp, err := s.companies.FindByID(ctx, u.CompanyID)
		if err != nil && !errors.Is(err, company.ErrNotFound) {
			return Profile{}, err
		}
		if comp != nil {
			p.Company = &CompanyRef{CompanyName: comp.Name}
		}
	}
	return p, nil
}
