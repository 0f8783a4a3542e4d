package routes

import (
	"github.com/gin-gonic/gin"

	"cityplus-be/controllers"
	"cityplus-be/middlewares"
	"cityplus-be/models"
)

// IssueRoutes sets up the issue lifecycle endpoints.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, auth *middlewares.AuthMiddleware) {
	issues := r.Group("/api/issues")
	{
		// Public landing feed, no authentication.
		issues.GET("", ic.Public)

		issues.POST("", auth.RequireAuth(), auth.RequireRoles(models.RoleCitizen), ic.Create)
		issues.GET("/my", auth.RequireAuth(), auth.RequireRoles(models.RoleCitizen), ic.Mine)
		issues.GET("/all", auth.RequireAuth(), ic.All)
		issues.GET("/assigned/mine", auth.RequireAuth(), auth.RequireRoles(models.RoleStaff), ic.AssignedMine)
		issues.PATCH("/:id/status", auth.RequireAuth(), auth.RequireRoles(models.RoleStaff, models.RoleAdmin), ic.UpdateStatus)
		issues.PATCH("/:id/assign", auth.RequireAuth(), auth.RequireRoles(models.RoleAdmin), ic.Assign)
		issues.GET("/:id", auth.RequireAuth(), ic.GetByID)
	}
}
