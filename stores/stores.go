package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityplus-be/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore is the persistence contract for identities.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// GetMany resolves a batch of user ids, used to attach reporter and
	// assignee details to issue listings. Missing ids are simply absent
	// from the result map.
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AccountStatus) (models.User, error)
	Counts(ctx context.Context) (models.UserCounts, error)
}

// IssueStore is the persistence contract for complaints. UpdateStatus and
// Assign are single atomic find-and-update operations so concurrent requests
// against the same issue cannot lose writes.
type IssueStore interface {
	Create(ctx context.Context, issue models.Issue) (models.Issue, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Issue, error)
	ListRecent(ctx context.Context, limit int64) ([]models.Issue, error)
	ListAll(ctx context.Context) ([]models.Issue, error)
	ListByReporter(ctx context.Context, reporter primitive.ObjectID) ([]models.Issue, error)
	ListByAssignee(ctx context.Context, assignee primitive.ObjectID) ([]models.Issue, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus, resolvedAt *time.Time) (models.Issue, error)
	Assign(ctx context.Context, id, staffID primitive.ObjectID) (models.Issue, error)
	Counts(ctx context.Context) (models.IssueCounts, error)
}
