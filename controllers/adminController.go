package controllers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"cityplus-be/apperrors"
	"cityplus-be/models"
	"cityplus-be/stores"
	"cityplus-be/utils"
)

// AdminController serves the admin dashboard: aggregate counts, user
// management, and the staff list that feeds assignment dropdowns. Every route
// behind it is gated to the admin role.
type AdminController struct {
	users  stores.UserStore
	issues stores.IssueStore
	log    *zap.Logger
}

func NewAdminController(users stores.UserStore, issues stores.IssueStore, log *zap.Logger) *AdminController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminController{users: users, issues: issues, log: log}
}

// Summary handles GET /api/admin/summary.
func (a *AdminController) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	userCounts, err := a.users.Counts(ctx)
	if err != nil {
		a.log.Error("user counts failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	issueCounts, err := a.issues.Counts(ctx)
	if err != nil {
		a.log.Error("issue counts failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	utils.OK(c, "Summary fetched successfully", gin.H{
		"users":  userCounts,
		"issues": issueCounts,
	})
}

// Users handles GET /api/admin/users.
func (a *AdminController) Users(c *gin.Context) {
	users, err := a.users.List(c.Request.Context())
	if err != nil {
		a.log.Error("user list failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	payload := make([]gin.H, 0, len(users))
	for _, u := range users {
		payload = append(payload, gin.H{
			"id":        u.ID,
			"name":      u.Name,
			"email":     u.Email,
			"role":      u.Role,
			"status":    u.Status,
			"createdAt": u.CreatedAt,
		})
	}

	utils.OK(c, "Users fetched successfully", gin.H{"users": payload})
}

// Staff handles GET /api/admin/staff.
func (a *AdminController) Staff(c *gin.Context) {
	staff, err := a.users.ListByRole(c.Request.Context(), models.RoleStaff)
	if err != nil {
		a.log.Error("staff list failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	payload := make([]gin.H, 0, len(staff))
	for _, u := range staff {
		payload = append(payload, gin.H{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		})
	}

	utils.OK(c, "Staff fetched successfully", gin.H{"staff": payload})
}

type updateUserStatusInput struct {
	Status string `json:"status"`
}

// UpdateUserStatus handles PATCH /api/admin/users/:userId/status. Admin
// accounts are off limits, including the caller's own.
func (a *AdminController) UpdateUserStatus(c *gin.Context) {
	var input updateUserStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid status provided."))
		return
	}

	status := models.AccountStatus(input.Status)
	if !models.ValidAccountStatus(status) {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid status provided."))
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "User not found."))
		return
	}

	ctx := c.Request.Context()

	target, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "User not found."))
			return
		}
		a.log.Error("user lookup failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	if target.Role == models.RoleAdmin {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrForbidden, "Cannot change status of admin accounts."))
		return
	}

	updated, err := a.users.UpdateStatus(ctx, userID, status)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "User not found."))
			return
		}
		a.log.Error("status update failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	utils.OK(c, fmt.Sprintf("User status updated to %s.", status), gin.H{"user": updated})
}
