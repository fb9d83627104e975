package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{BadRequest("x"), 400, CodeBadRequest},
		{Unauthorized("x"), 401, CodeUnauthorized},
		{Authentication("x"), 401, CodeAuthentication},
		{Forbidden("x"), 403, CodeForbidden},
		{TenantIsolation(), 403, CodeTenantIsolation},
		{NotFound("x"), 404, CodeNotFound},
		{Conflict("x"), 409, CodeConflict},
		{Validation("x", nil), 422, CodeValidation},
		{RateLimited(), 429, CodeRateLimited},
		{Internal("x"), 500, CodeInternal},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, tc.err.Status)
		}
		if tc.err.Code != tc.code {
			t.Fatalf("expected code %s, got %s", tc.code, tc.err.Code)
		}
	}
}

func TestFrom_PassesThroughAppErrors(t *testing.T) {
	orig := Conflict("duplicate email")
	wrapped := fmt.Errorf("register: %w", orig)

	got := From(wrapped)
	if got.Code != CodeConflict || got.Status != 409 {
		t.Fatalf("expected conflict to pass through, got %+v", got)
	}
}

func TestFrom_NormalizesUnknownErrors(t *testing.T) {
	got := From(errors.New("pq: connection refused"))
	if got.Code != CodeInternal || got.Status != 500 {
		t.Fatalf("expected internal error, got %+v", got)
	}
	if got.Message == "pq: connection refused" {
		t.Fatalf("raw error message must not become the public message")
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("user not found"))
	if !Is(err, CodeNotFound) {
		t.Fatalf("expected Is to match wrapped code")
	}
	if Is(err, CodeConflict) {
		t.Fatalf("unexpected code match")
	}
}
