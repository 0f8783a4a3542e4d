package routes

import (
	"github.com/gin-gonic/gin"

	"cityplus-be/controllers"
)

// AuthRoutes sets up registration and login. All four are public; the role a
// registration endpoint grants is fixed by the endpoint itself.
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ac.RegisterCitizen)
		auth.POST("/register-staff", ac.RegisterStaff)
		auth.POST("/register-admin", ac.RegisterAdmin)
		auth.POST("/login", ac.Login)
	}
}
