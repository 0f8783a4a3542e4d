package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"cityplus-be/apperrors"
	"cityplus-be/cache"
	"cityplus-be/middlewares"
	"cityplus-be/models"
	"cityplus-be/stores"
	"cityplus-be/utils"
)

type IssueController struct {
	issues          stores.IssueStore
	users           stores.UserStore
	uploads         *utils.Uploader
	feed            *cache.FeedCache
	publicFeedLimit int64
	log             *zap.Logger
}

func NewIssueController(issues stores.IssueStore, users stores.UserStore, uploads *utils.Uploader, feed *cache.FeedCache, publicFeedLimit int64, log *zap.Logger) *IssueController {
	if log == nil {
		log = zap.NewNop()
	}
	if publicFeedLimit <= 0 {
		publicFeedLimit = 50
	}
	return &IssueController{
		issues:          issues,
		users:           users,
		uploads:         uploads,
		feed:            feed,
		publicFeedLimit: publicFeedLimit,
		log:             log,
	}
}

// userRef is the reporter/assignee shape attached for staff and admin views.
type userRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// issueDetail shadows the raw reference fields with resolved identities.
type issueDetail struct {
	models.Issue
	Citizen    interface{} `json:"citizen"`
	AssignedTo interface{} `json:"assignedTo"`
}

// Create handles POST /api/issues (citizen, multipart form with an optional
// single image).
func (ic *IssueController) Create(c *gin.Context) {
	reporter, ok := middlewares.CallerID(c)
	if !ok {
		utils.Fail(c, apperrors.ErrUnauthenticated)
		return
	}

	title := c.PostForm("title")
	category := c.PostForm("category")
	ward := c.PostForm("ward")
	location := c.PostForm("location")
	priority := c.PostForm("priority")
	description := c.PostForm("description")

	if title == "" || category == "" || ward == "" || location == "" || priority == "" || description == "" {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "All fields are required"))
		return
	}
	if !models.ValidPriority(models.IssuePriority(priority)) {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid priority"))
		return
	}

	lat, err := optionalFloat(c.PostForm("lat"))
	if err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid coordinates"))
		return
	}
	lng, err := optionalFloat(c.PostForm("lng"))
	if err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid coordinates"))
		return
	}

	var image *string
	if fh, err := c.FormFile("image"); err == nil {
		path, err := ic.uploads.Save(fh)
		if err != nil {
			if errors.Is(err, utils.ErrUnsupportedImage) {
				utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
				return
			}
			ic.log.Error("image save failed", zap.Error(err))
			utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
			return
		}
		image = &path
	} else if !errors.Is(err, http.ErrMissingFile) {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid image upload"))
		return
	}

	issue := models.Issue{
		Title:       title,
		Category:    category,
		Ward:        ward,
		Location:    location,
		Priority:    models.IssuePriority(priority),
		Description: description,
		Status:      models.StatusOpen,
		Citizen:     reporter,
		Lat:         lat,
		Lng:         lng,
		Image:       image,
	}

	created, err := ic.issues.Create(c.Request.Context(), issue)
	if err != nil {
		ic.log.Error("issue insert failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	ic.feed.Invalidate(c.Request.Context())
	utils.Created(c, "Issue created", gin.H{"issue": created})
}

// Public handles GET /api/issues, the unauthenticated landing feed. Reporter
// identities stay raw ids here; names and emails are never attached.
func (ic *IssueController) Public(c *gin.Context) {
	ctx := c.Request.Context()

	if issues, ok := ic.feed.Get(ctx); ok {
		utils.OK(c, "Public issues fetched successfully", gin.H{"issues": issues})
		return
	}

	issues, err := ic.issues.ListRecent(ctx, ic.publicFeedLimit)
	if err != nil {
		ic.log.Error("public feed query failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	ic.feed.Set(ctx, issues)
	utils.OK(c, "Public issues fetched successfully", gin.H{"issues": issues})
}

// Mine handles GET /api/issues/my (citizen).
func (ic *IssueController) Mine(c *gin.Context) {
	reporter, ok := middlewares.CallerID(c)
	if !ok {
		utils.Fail(c, apperrors.ErrUnauthenticated)
		return
	}

	issues, err := ic.issues.ListByReporter(c.Request.Context(), reporter)
	if err != nil {
		ic.log.Error("my issues query failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	utils.OK(c, "Issues fetched successfully", gin.H{"issues": issues})
}

// All handles GET /api/issues/all. One operation serves all three roles; the
// caller's role only controls whether reference fields are expanded.
func (ic *IssueController) All(c *gin.Context) {
	role, ok := middlewares.CallerRole(c)
	if !ok {
		utils.Fail(c, apperrors.ErrUnauthenticated)
		return
	}

	ctx := c.Request.Context()
	issues, err := ic.issues.ListAll(ctx)
	if err != nil {
		ic.log.Error("all issues query failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	if role != models.RoleStaff && role != models.RoleAdmin {
		utils.OK(c, "Issues fetched successfully", gin.H{"issues": issues})
		return
	}

	details, err := ic.resolveDetails(ctx, issues)
	if err != nil {
		ic.log.Error("identity resolution failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}
	utils.OK(c, "Issues fetched successfully", gin.H{"issues": details})
}

// AssignedMine handles GET /api/issues/assigned/mine (staff).
func (ic *IssueController) AssignedMine(c *gin.Context) {
	assignee, ok := middlewares.CallerID(c)
	if !ok {
		utils.Fail(c, apperrors.ErrUnauthenticated)
		return
	}

	ctx := c.Request.Context()
	issues, err := ic.issues.ListByAssignee(ctx, assignee)
	if err != nil {
		ic.log.Error("assigned issues query failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	details, err := ic.resolveDetails(ctx, issues)
	if err != nil {
		ic.log.Error("identity resolution failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}
	utils.OK(c, "Issues fetched successfully", gin.H{"issues": details})
}

// GetByID handles GET /api/issues/:id. Any authenticated role may read any
// issue; the detail view is shared across dashboards.
func (ic *IssueController) GetByID(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Issue not found"))
		return
	}

	ctx := c.Request.Context()
	issue, err := ic.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Issue not found"))
			return
		}
		ic.log.Error("issue lookup failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	details, err := ic.resolveDetails(ctx, []models.Issue{issue})
	if err != nil {
		ic.log.Error("identity resolution failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}
	utils.OK(c, "Issue fetched successfully", gin.H{"issue": details[0]})
}

type updateStatusInput struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/issues/:id/status (staff/admin). The
// resolvedAt side effect holds in both directions: resolving stamps the time,
// reopening clears it.
func (ic *IssueController) UpdateStatus(c *gin.Context) {
	var input updateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid status"))
		return
	}

	status := models.IssueStatus(input.Status)
	if !models.ValidIssueStatus(status) {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid status"))
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Issue not found"))
		return
	}

	var resolvedAt *time.Time
	if status == models.StatusResolved {
		now := time.Now()
		resolvedAt = &now
	}

	issue, err := ic.issues.UpdateStatus(c.Request.Context(), issueID, status, resolvedAt)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Issue not found"))
			return
		}
		ic.log.Error("status update failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	ic.feed.Invalidate(c.Request.Context())
	utils.OK(c, "Status updated", gin.H{"issue": issue})
}

type assignInput struct {
	StaffID string `json:"staffId"`
}

// Assign handles PATCH /api/issues/:id/assign (admin). Reassignment simply
// overwrites the previous assignee.
func (ic *IssueController) Assign(c *gin.Context) {
	var input assignInput
	if err := c.ShouldBindJSON(&input); err != nil || input.StaffID == "" {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrValidation, "staffId required"))
		return
	}

	ctx := c.Request.Context()

	staffID, err := primitive.ObjectIDFromHex(input.StaffID)
	if err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Staff user not found"))
		return
	}
	staff, err := ic.users.GetByID(ctx, staffID)
	if err != nil || staff.Role != models.RoleStaff {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Staff user not found"))
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Issue not found"))
		return
	}

	issue, err := ic.issues.Assign(ctx, issueID, staffID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Fail(c, apperrors.WithMessage(apperrors.ErrNotFound, "Issue not found"))
			return
		}
		ic.log.Error("assignment failed", zap.Error(err))
		utils.Fail(c, apperrors.Wrap(err, apperrors.ErrInternal))
		return
	}

	ic.feed.Invalidate(ctx)

	detail := issueDetail{
		Issue:   issue,
		Citizen: issue.Citizen,
		AssignedTo: userRef{
			ID:    staff.ID,
			Name:  staff.Name,
			Email: staff.Email,
		},
	}
	utils.OK(c, "Issue assigned successfully", gin.H{"issue": detail})
}

// resolveDetails attaches reporter and assignee identities with one batched
// lookup instead of a query per issue.
func (ic *IssueController) resolveDetails(ctx context.Context, issues []models.Issue) ([]issueDetail, error) {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, issue := range issues {
		idSet[issue.Citizen] = struct{}{}
		if issue.AssignedTo != nil {
			idSet[*issue.AssignedTo] = struct{}{}
		}
	}

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := ic.users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	ref := func(id primitive.ObjectID) interface{} {
		if u, ok := users[id]; ok {
			return userRef{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		// Dangling reference; keep the raw id.
		return id
	}

	details := make([]issueDetail, 0, len(issues))
	for _, issue := range issues {
		d := issueDetail{Issue: issue, Citizen: ref(issue.Citizen)}
		if issue.AssignedTo != nil {
			d.AssignedTo = ref(*issue.AssignedTo)
		}
		details = append(details, d)
	}
	return details, nil
}

func optionalFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
