package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cityplus-be/apperrors"
	"cityplus-be/models"
	"cityplus-be/stores"
	"cityplus-be/utils"
)

type AuthController struct {
	users  stores.UserStore
	tokens *utils.TokenManager
	log    *zap.Logger
}

func NewAuthController(users stores.UserStore, tokens *utils.TokenManager, log *zap.Logger) *AuthController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthController{users: users, tokens: tokens, log: log}
}

type registerInput struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterCitizen handles citizen self-registration.
func (ac *AuthController) RegisterCitizen(c *gin.Context) {
	ac.register(c, models.RoleCitizen, "Citizen registered successfully")
}

// RegisterStaff creates a staff account.
func (ac *AuthController) RegisterStaff(c *gin.Context) {
	ac.register(c, models.RoleStaff, "Staff registered successfully")
}

// RegisterAdmin creates an admin account.
func (ac *AuthController) RegisterAdmin(c *gin.Context) {
	ac.register(c, models.RoleAdmin, "Admin registered successfully")
}

// The role comes from the endpoint, never from the request body, so there is
// no self-service role escalation.
func (ac *AuthController) register(c *gin.Context, role models.Role, message string) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "All fields are required"))
		return
	}

	ctx := c.Request.Context()

	if _, err := ac.users.GetByEmail(ctx, input.Email); err == nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrConflict, "Email already registered"))
		return
	} else if !errors.Is(err, stores.ErrNotFound) {
		ac.log.Error("email lookup failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     role,
		Status:   models.StatusActive,
	}

	if err := user.HashPassword(); err != nil {
		ac.log.Error("password hashing failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	created, err := ac.users.Create(ctx, user)
	if err != nil {
		// The unique index backstops the pre-check under concurrency.
		if errors.Is(err, stores.ErrDuplicateEmail) {
			utils.Fail(c, apperrors.WithMessage(apperrors.ErrConflict, "Email already registered"))
			return
		}
		ac.log.Error("user insert failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	utils.Created(c, message, gin.H{
		"user": gin.H{
			"id":    created.ID,
			"name":  created.Name,
			"email": created.Email,
			"role":  created.Role,
		},
	})
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates any role and issues a bearer token.
func (ac *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, apperrors.ErrInvalidCredentials)
		return
	}

	user, err := ac.users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		// Same message as a wrong password; don't reveal whether the
		// email exists.
		utils.Fail(c, apperrors.ErrInvalidCredentials)
		return
	}

	// Status is checked before the password so a blocked account gets the
	// restriction message regardless of what was typed.
	switch user.Status {
	case models.StatusBlocked:
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrAccountRestricted, "Your account has been blocked. Please contact support."))
		return
	case models.StatusTerminated:
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrAccountRestricted, "Your account has been terminated. Please contact support."))
		return
	}

	if !user.ComparePassword(input.Password) {
		utils.Fail(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := ac.tokens.Generate(user.ID.Hex(), string(user.Role))
	if err != nil {
		ac.log.Error("token generation failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	utils.OK(c, "Login successful", gin.H{
		"token": token,
		"role":  user.Role,
		"name":  user.Name,
	})
}
