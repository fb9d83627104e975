package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carmate-platform/internal/apperr"
	"carmate-platform/internal/auth"
	"carmate-platform/internal/company"
	"carmate-platform/internal/config"
	"carmate-platform/internal/user"

	"github.com/gin-gonic/gin"
)

func testHandlers(t *testing.T) (Handlers, *auth.Manager) {
	t.Helper()
	m, err := auth.NewManager(config.AuthConfig{
		AccessSecret:  strings.Repeat("a", 32),
		RefreshSecret: strings.Repeat("r", 32),
		Issuer:        "carmate",
		Audience:      "carmate-api",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	users := user.NewMemoryStore()
	companies := company.NewMemoryStore()

	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	err = users.Create(context.Background(), &user.User{
		ID: "u1", Email: "kim@best.com", PasswordHash: hash, Name: "Kim",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	return Handlers{
		Auth:      auth.NewService(users, companies, m),
		Companies: company.NewService(companies, users),
		Cookies:   NewCookieConfig(false, 15*time.Minute, 24*time.Hour),
	}, m
}

func cookieByName(res *http.Response, name string) *http.Cookie {
	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := testHandlers(t)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"kim@best.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.User.ID != "u1" || body.Data.AccessToken == "" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	res := w.Result()
	access := cookieByName(res, auth.AccessTokenCookie)
	refresh := cookieByName(res, auth.RefreshTokenCookie)
	if access == nil || refresh == nil {
		t.Fatalf("expected token cookies")
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatalf("token cookies must be HttpOnly")
	}
	if access.Value != body.Data.AccessToken {
		t.Fatalf("cookie and body access token differ")
	}
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := testHandlers(t)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"kim@best.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), apperr.CodeAuthentication) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set cookies")
	}
}

func TestRefreshHandler_CookieBeforeBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, m := testHandlers(t)

	pair, err := m.IssuePair(time.Now(), auth.Identity{UserID: "u1", Email: "kim@best.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gin.New()
	r.POST("/api/auth/refresh", h.Refresh)

	// cookie wins over a garbage body token
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refreshToken":"garbage"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: pair.RefreshToken})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cookie refresh: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// body works without the cookie
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refreshToken":"`+pair.RefreshToken+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("body refresh: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// neither source fails with the generic message
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", w.Code)
	}
}

func TestLogoutHandler_ClearsCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := testHandlers(t)

	r := gin.New()
	r.POST("/api/auth/logout", h.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	res := w.Result()
	access := cookieByName(res, auth.AccessTokenCookie)
	if access == nil || access.Value != "" || access.MaxAge >= 0 {
		t.Fatalf("expected expired access cookie, got %+v", access)
	}
}

func TestFailTranslation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/domain", func(c *gin.Context) { Fail(c, apperr.NotFound("thing not found")) })
	r.GET("/unknown", func(c *gin.Context) { Fail(c, context.DeadlineExceeded) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/domain", nil))
	if w.Code != 404 || !strings.Contains(w.Body.String(), apperr.CodeNotFound) {
		t.Fatalf("domain error: code=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	if w.Code != 500 || !strings.Contains(w.Body.String(), apperr.CodeInternal) {
		t.Fatalf("unknown error: code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestNotImplementedAndNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.NoRoute(NotFoundHandler)
	r.GET("/api/cars", NotImplemented)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cars", nil))
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), apperr.CodeNotFound) {
		t.Fatalf("expected 404 envelope, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompanyHandlers_AdminFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := testHandlers(t)

	r := gin.New()
	r.POST("/api/companies", h.CreateCompany)
	r.GET("/api/companies", h.ListCompanies)

	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(`{"companyName":"Best Motors","companyCode":"BM-01"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/companies?page=1&pageSize=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			CurrentPage    int `json:"currentPage"`
			TotalItemCount int `json:"totalItemCount"`
			Data           []struct {
				Name string `json:"companyName"`
			} `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.TotalItemCount != 1 || body.Data.Data[0].Name != "Best Motors" {
		t.Fatalf("unexpected list body: %s", w.Body.String())
	}
}
