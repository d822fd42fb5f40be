package generic

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BaseRepository Interface
type BaseRepository[T Entity] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id string) (T, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error)
	FindMany(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	Count(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// MongoBaseRepository Implementation
type MongoBaseRepository[T Entity] struct {
	Collection *mongo.Collection
}

func NewBaseRepository[T Entity](collection *mongo.Collection) *MongoBaseRepository[T] {
	return &MongoBaseRepository[T]{Collection: collection}
}

// 1. Create
func (r *MongoBaseRepository[T]) Create(ctx context.Context, entity T) error {
	entity.SetID(primitive.NewObjectID())
	_, err := r.Collection.InsertOne(ctx, entity)
	return err
}

// 2. GetByID returns the zero T when no document matches.
func (r *MongoBaseRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, errors.New("invalid id")
	}
	return r.FindOne(ctx, bson.M{"_id": objID})
}

// 3. FindOne returns the zero T when no document matches.
func (r *MongoBaseRepository[T]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error) {
	var entity T
	err := r.Collection.FindOne(ctx, filter, opts...).Decode(&entity)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, nil
		}
		return zero, err
	}
	return entity, nil
}

// 4. FindMany
func (r *MongoBaseRepository[T]) FindMany(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := r.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entities := []T{}
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.Collection.Name(), err)
	}
	return entities, nil
}

// 5. UpdateFields ($set) returns the number of matched documents
func (r *MongoBaseRepository[T]) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// 6. DeleteMany
func (r *MongoBaseRepository[T]) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// 7. Count
func (r *MongoBaseRepository[T]) Count(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.Collection.CountDocuments(ctx, filter, opts...)
}
