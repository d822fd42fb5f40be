package repository

import (
	"context"

	"lmsops/internal/model"
	"lmsops/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationsCollection is the collection the LMS stores notifications in
const NotificationsCollection = "notifications"

// INotificationRepository defines notification persistence
type INotificationRepository interface {
	FindLatest(ctx context.Context, limit int64) ([]*model.Notification, error)
	FindByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]*model.Notification, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// NotificationRepository implements notification persistence
type NotificationRepository struct {
	base *generic.MongoBaseRepository[*model.Notification]
}

func NewNotificationRepository(db *mongo.Database) INotificationRepository {
	return &NotificationRepository{
		base: generic.NewBaseRepository[*model.Notification](db.Collection(NotificationsCollection)),
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (r *NotificationRepository) FindLatest(ctx context.Context, limit int64) ([]*model.Notification, error) {
	return r.base.FindMany(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(limit))
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]*model.Notification, error) {
	return r.base.FindMany(ctx, bson.M{"recipient": recipient}, options.Find().SetSort(newestFirst))
}

func (r *NotificationRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.base.DeleteMany(ctx, bson.M{})
}

func (r *NotificationRepository) Count(ctx context.Context) (int64, error) {
	return r.base.Count(ctx, bson.M{})
}
