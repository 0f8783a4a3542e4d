package routes

import (
	"github.com/gin-gonic/gin"

	"cityplus-be/controllers"
	"cityplus-be/middlewares"
	"cityplus-be/models"
)

// AdminRoutes sets up the admin dashboard endpoints, all admin-only.
func AdminRoutes(r *gin.Engine, a *controllers.AdminController, auth *middlewares.AuthMiddleware) {
	admin := r.Group("/api/admin", auth.RequireAuth(), auth.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/summary", a.Summary)
		admin.GET("/users", a.Users)
		admin.GET("/staff", a.Staff)
		admin.PATCH("/users/:userId/status", a.UpdateUserStatus)
	}
}
