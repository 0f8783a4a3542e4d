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

type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection("users")}
}

func (s *MongoUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *MongoUserStore) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	result := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (s *MongoUserStore) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoUserStore) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.find(ctx, bson.M{"role": role})
}

func (s *MongoUserStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AccountStatus) (models.User, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *MongoUserStore) Counts(ctx context.Context) (models.UserCounts, error) {
	var counts models.UserCounts
	var err error

	if counts.Total, err = s.collection.CountDocuments(ctx, bson.M{}); err != nil {
		return models.UserCounts{}, err
	}
	if counts.Citizens, err = s.collection.CountDocuments(ctx, bson.M{"role": models.RoleCitizen}); err != nil {
		return models.UserCounts{}, err
	}
	if counts.Staff, err = s.collection.CountDocuments(ctx, bson.M{"role": models.RoleStaff}); err != nil {
		return models.UserCounts{}, err
	}
	if counts.Admins, err = s.collection.CountDocuments(ctx, bson.M{"role": models.RoleAdmin}); err != nil {
		return models.UserCounts{}, err
	}
	return counts, nil
}
