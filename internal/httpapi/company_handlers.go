package httpapi

import (
	"net/http"
	"strconv"

	"carmate-platform/internal/apperr"
	"carmate-platform/internal/company"
	"carmate-platform/internal/user"

	"github.com/gin-gonic/gin"
)

func (h Handlers) CreateCompany(c *gin.Context) {
	var req company.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.BadRequest("invalid json body"))
		return
	}

	view, err := h.Companies.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusCreated, view)
}

func (h Handlers) ListCompanies(c *gin.Context) {
	q := company.ListQuery{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 10),
		SearchBy: c.Query("searchBy"),
		Keyword:  c.Query("keyword"),
	}

	page, err := h.Companies.List(c.Request.Context(), q)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, page)
}

func (h Handlers) UpdateCompany(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		Fail(c, apperr.BadRequest("company id is required"))
		return
	}

	var req company.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.BadRequest("invalid json body"))
		return
	}

	view, err := h.Companies.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, view)
}

func (h Handlers) DeleteCompany(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		Fail(c, apperr.BadRequest("company id is required"))
		return
	}

	if err := h.Companies.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, gin.H{"message": "company deleted"})
}

// ListCompanyUsers lists users across companies with pagination and search.
func (h Handlers) ListCompanyUsers(c *gin.Context) {
	q := user.SearchQuery{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 10),
		SearchBy: c.Query("searchBy"),
		Keyword:  c.Query("keyword"),
	}

	page, err := h.Companies.ListUsers(c.Request.Context(), q)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, http.StatusOK, page)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
