package repository

import (
	"context"
	"fmt"
	"time"

	"lmsops/internal/model"
	"lmsops/pkg/generic"
	"lmsops/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection is the collection the LMS stores users in
const UsersCollection = "users"

// emailCollation compares emails ignoring case, so an allow-list entry keeps
// its user however either side is capitalised.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

// IUserRepository defines user persistence
type IUserRepository interface {
	FindAll(ctx context.Context) ([]*model.User, error)
	FindInstructors(ctx context.Context) ([]*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindFirstByRole(ctx context.Context, role string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
	SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	DeleteAdmins(ctx context.Context, adminEmail string) (int64, error)
	DeleteAllExcept(ctx context.Context, emails []string) (int64, error)
	CountAllExcept(ctx context.Context, emails []string) (int64, error)
}

// UserRepository implements user persistence
type UserRepository struct {
	base *generic.MongoBaseRepository[*model.User]
}

func NewUserRepository(db *mongo.Database) IUserRepository {
	return &UserRepository{base: generic.NewBaseRepository[*model.User](db.Collection(UsersCollection))}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	return r.base.FindMany(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

// FindInstructors returns teachers and legacy mentors
func (r *UserRepository) FindInstructors(ctx context.Context) ([]*model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"role": model.RoleTeacher},
		bson.M{"isMentor": true},
	}}
	return r.base.FindMany(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.base.FindOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.base.GetByID(ctx, id.Hex())
}

// FindFirstByRole returns the oldest user holding role, or nil
func (r *UserRepository) FindFirstByRole(ctx context.Context, role string) (*model.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.base.FindOne(ctx, bson.M{"role": role}, opts)
}

// Create inserts a user, hashing a plaintext password first the way the
// LMS pre-save hook does.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	hash, err := util.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hash

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := r.base.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetFields applies a $set to one user and bumps updatedAt
func (r *UserRepository) SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	matched, err := r.base.UpdateFields(ctx, id, set)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("no user with id %s", id.Hex())
	}
	return nil
}

// DeleteAdmins removes every admin and any user already holding adminEmail
func (r *UserRepository) DeleteAdmins(ctx context.Context, adminEmail string) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"role": model.RoleAdmin},
		bson.M{"email": adminEmail},
	}}
	return r.base.DeleteMany(ctx, filter)
}

// DeleteAllExcept removes every user whose email is not in emails, compared
// case-insensitively
func (r *UserRepository) DeleteAllExcept(ctx context.Context, emails []string) (int64, error) {
	return r.base.DeleteMany(ctx, notIn(emails), options.Delete().SetCollation(emailCollation))
}

func (r *UserRepository) CountAllExcept(ctx context.Context, emails []string) (int64, error) {
	return r.base.Count(ctx, notIn(emails), options.Count().SetCollation(emailCollation))
}

func notIn(emails []string) bson.M {
	list := bson.A{}
	for _, e := range emails {
		list = append(list, e)
	}
	return bson.M{"email": bson.M{"$nin": list}}
}
