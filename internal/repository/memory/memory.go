// Package memory provides in-memory user and notification repositories with
// the same semantics as the Mongo ones, including the unique email index.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"lmsops/internal/model"
	"lmsops/internal/repository"
	"lmsops/pkg/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicateEmail mirrors the unique index on users.email
var ErrDuplicateEmail = errors.New("E11000 duplicate key error: email")

// Users is an in-memory IUserRepository. Set Err to make every call fail.
type Users struct {
	mu     sync.Mutex
	users  []*model.User
	Err    error
	Writes int
}

var _ repository.IUserRepository = (*Users)(nil)

// NewUsers returns a repository seeded with copies of users.
func NewUsers(users ...*model.User) *Users {
	r := &Users{}
	for _, u := range users {
		c := *u
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		r.users = append(r.users, &c)
	}
	return r
}

// All returns copies of every stored user in insertion order.
func (r *Users) All() []model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out
}

func (r *Users) find(match func(*model.User) bool) []*model.User {
	var out []*model.User
	for _, u := range r.users {
		if match(u) {
			c := *u
			out = append(out, &c)
		}
	}
	return out
}

func (r *Users) first(match func(*model.User) bool) *model.User {
	found := r.find(match)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func (r *Users) FindAll(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.find(func(*model.User) bool { return true }), nil
}

func (r *Users) FindInstructors(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	found := r.find(func(u *model.User) bool { return u.IsInstructor() })
	sort.SliceStable(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.first(func(u *model.User) bool { return u.Email == email }), nil
}

func (r *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.first(func(u *model.User) bool { return u.ID == id }), nil
}

func (r *Users) FindFirstByRole(ctx context.Context, role string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.first(func(u *model.User) bool { return u.Role == role }), nil
}

func (r *Users) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, ErrDuplicateEmail
		}
	}
	hash, err := util.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hash
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	c := *user
	r.users = append(r.users, &c)
	r.Writes++
	return user, nil
}

func (r *Users) SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		for k, v := range fields {
			s, _ := v.(string)
			switch k {
			case "role":
				u.Role = s
			case "professionalTitle":
				u.ProfessionalTitle = s
			case "organization":
				u.Organization = s
			case "website":
				u.Website = s
			case "linkedIn":
				u.LinkedIn = s
			case "qualifications":
				u.Qualifications = s
			default:
				return fmt.Errorf("memory: unsupported field %q", k)
			}
		}
		u.UpdatedAt = time.Now().UTC()
		r.Writes++
		return nil
	}
	return fmt.Errorf("no user with id %s", id.Hex())
}

func (r *Users) deleteWhere(match func(*model.User) bool) int64 {
	kept := r.users[:0]
	var n int64
	for _, u := range r.users {
		if match(u) {
			n++
			continue
		}
		kept = append(kept, u)
	}
	r.users = kept
	if n > 0 {
		r.Writes++
	}
	return n
}

func (r *Users) DeleteAdmins(ctx context.Context, adminEmail string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return r.deleteWhere(func(u *model.User) bool {
		return u.Role == model.RoleAdmin || u.Email == adminEmail
	}), nil
}

func (r *Users) DeleteAllExcept(ctx context.Context, emails []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	allow := toSet(emails)
	return r.deleteWhere(func(u *model.User) bool { return !allow[strings.ToLower(u.Email)] }), nil
}

func (r *Users) CountAllExcept(ctx context.Context, emails []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	allow := toSet(emails)
	return int64(len(r.find(func(u *model.User) bool { return !allow[strings.ToLower(u.Email)] }))), nil
}

// toSet lowercases its keys, matching the case-insensitive collation the
// Mongo repository deletes with.
func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[strings.ToLower(s)] = true
	}
	return set
}

// Notifications is an in-memory INotificationRepository. Set Err to make every call fail.
type Notifications struct {
	mu    sync.Mutex
	items []*model.Notification
	Err   error
}

var _ repository.INotificationRepository = (*Notifications)(nil)

// NewNotifications returns a repository seeded with copies of items.
func NewNotifications(items ...*model.Notification) *Notifications {
	r := &Notifications{}
	for _, n := range items {
		c := *n
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		r.items = append(r.items, &c)
	}
	return r
}

func (r *Notifications) newestFirst(match func(*model.Notification) bool) []*model.Notification {
	var out []*model.Notification
	for _, n := range r.items {
		if match(n) {
			c := *n
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *Notifications) FindLatest(ctx context.Context, limit int64) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := r.newestFirst(func(*model.Notification) bool { return true })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Notifications) FindByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.newestFirst(func(n *model.Notification) bool { return n.Recipient == recipient }), nil
}

func (r *Notifications) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	n := int64(len(r.items))
	r.items = nil
	return n, nil
}

func (r *Notifications) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.items)), nil
}
