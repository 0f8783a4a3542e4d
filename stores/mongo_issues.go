package stores

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cityplus-be/models"
)

type MongoIssueStore struct {
	collection *mongo.Collection
}

func NewMongoIssueStore(db *mongo.Database) *MongoIssueStore {
	return &MongoIssueStore{collection: db.Collection("issues")}
}

func (s *MongoIssueStore) Create(ctx context.Context, issue models.Issue) (models.Issue, error) {
	now := time.Now()
	issue.ID = primitive.NewObjectID()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

func (s *MongoIssueStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Issue, error) {
	var issue models.Issue
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Issue{}, ErrNotFound
		}
		return models.Issue{}, err
	}
	return issue, nil
}

func (s *MongoIssueStore) ListRecent(ctx context.Context, limit int64) ([]models.Issue, error) {
	return s.find(ctx, bson.M{}, limit)
}

func (s *MongoIssueStore) ListAll(ctx context.Context) ([]models.Issue, error) {
	return s.find(ctx, bson.M{}, 0)
}

func (s *MongoIssueStore) ListByReporter(ctx context.Context, reporter primitive.ObjectID) ([]models.Issue, error) {
	return s.find(ctx, bson.M{"citizen": reporter}, 0)
}

func (s *MongoIssueStore) ListByAssignee(ctx context.Context, assignee primitive.ObjectID) ([]models.Issue, error) {
	return s.find(ctx, bson.M{"assignedTo": assignee}, 0)
}

func (s *MongoIssueStore) find(ctx context.Context, filter bson.M, limit int64) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions = findOptions.SetLimit(limit)
	}

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// UpdateStatus writes the status and resolvedAt in one atomic update.
// resolvedAt must be nil for any status other than Resolved.
func (s *MongoIssueStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus, resolvedAt *time.Time) (models.Issue, error) {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"resolvedAt": resolvedAt,
		"updatedAt":  time.Now(),
	}}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *MongoIssueStore) Assign(ctx context.Context, id, staffID primitive.ObjectID) (models.Issue, error) {
	update := bson.M{"$set": bson.M{
		"assignedTo": staffID,
		"updatedAt":  time.Now(),
	}}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *MongoIssueStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (models.Issue, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue models.Issue
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Issue{}, ErrNotFound
		}
		return models.Issue{}, err
	}
	return issue, nil
}

func (s *MongoIssueStore) Counts(ctx context.Context) (models.IssueCounts, error) {
	var counts models.IssueCounts
	var err error

	if counts.Total, err = s.collection.CountDocuments(ctx, bson.M{}); err != nil {
		return models.IssueCounts{}, err
	}
	if counts.Open, err = s.collection.CountDocuments(ctx, bson.M{"status": models.StatusOpen}); err != nil {
		return models.IssueCounts{}, err
	}
	if counts.InProgress, err = s.collection.CountDocuments(ctx, bson.M{"status": models.StatusInProgress}); err != nil {
		return models.IssueCounts{}, err
	}
	if counts.Resolved, err = s.collection.CountDocuments(ctx, bson.M{"status": models.StatusResolved}); err != nil {
		return models.IssueCounts{}, err
	}
	return counts, nil
}
