package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cityplus-be/apperrors"
)

// All responses share the {success, message, data} envelope.

func OK(c *gin.Context, message string, data gin.H) {
	respond(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data gin.H) {
	respond(c, http.StatusCreated, message, data)
}

func respond(c *gin.Context, status int, message string, data gin.H) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Fail maps the error onto the taxonomy and writes the failure envelope.
func Fail(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.JSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}

// AbortWith is Fail for middlewares: it also stops the handler chain.
func AbortWith(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}
