package main

import (
	"carmate-platform/internal/auth"
	"carmate-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, tokens *auth.Manager) {
	r.NoRoute(httpapi.NotFoundHandler)

	// public
	r.GET("/health", h.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)

		session := authGroup.Group("")
		session.Use(auth.Authenticate(tokens))
		{
			session.GET("/me", h.Me)
			session.PATCH("/password", h.ChangePassword)
		}
	}

	users := api.Group("/users")
	{
		// Signup is public; everything else requires a session.
		users.POST("", h.Register)

		me := users.Group("")
		me.Use(auth.Authenticate(tokens))
		{
			me.GET("/me", h.Me)
			me.PATCH("/me", h.UpdateMe)
			me.POST("/check", h.CheckPassword)
		}

		admin := users.Group("")
		admin.Use(auth.Authenticate(tokens), auth.RequireAdmin())
		{
			admin.DELETE("/:id", h.DeleteUser)
		}
	}

	companies := api.Group("/companies")
	companies.Use(auth.Authenticate(tokens), auth.RequireAdmin())
	{
		companies.POST("", h.CreateCompany)
		companies.GET("", h.ListCompanies)
		// /users registers before /:id so gin does not treat it as an id.
		companies.GET("/users", h.ListCompanyUsers)
		companies.PATCH("/:id", h.UpdateCompany)
		companies.DELETE("/:id", h.DeleteCompany)
	}

	// Dealership resources share one middleware chain: a valid session,
	// a company membership, and data scoped to the caller's own company.
	tenantChain := []gin.HandlerFunc{
		auth.Authenticate(tokens),
		auth.RequireCompanyUser(),
		auth.CheckTenantAccess(),
	}
	for _, prefix := range []string{"/cars", "/customers", "/contracts"} {
		g := api.Group(prefix)
		g.Use(tenantChain...)
		{
			g.GET("", httpapi.NotImplemented)
			g.POST("", httpapi.NotImplemented)
			g.GET("/:id", httpapi.NotImplemented)
			g.PATCH("/:id", httpapi.NotImplemented)
			g.DELETE("/:id", httpapi.NotImplemented)
		}
	}
}
