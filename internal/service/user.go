package service

import (
	"context"
	"fmt"
	"sort"

	"lmsops/internal/common"
	"lmsops/internal/config"
	"lmsops/internal/model"
	"lmsops/internal/repository"
	"lmsops/pkg/util"

	"go.uber.org/zap"
)

// UserService implements the user maintenance operations
type UserService struct {
	repo   repository.IUserRepository
	cfg    *config.Config
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(cfg *config.Config, repo repository.IUserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, cfg: cfg, logger: logger}
}

// ListAll returns every user
func (s *UserService) ListAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListInstructors returns teachers and legacy mentors
func (s *UserService) ListInstructors(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindInstructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return users, nil
}

// RemoveUnseeded deletes every user whose email is not in the seed allow-list.
// With dryRun set it only counts them.
func (s *UserService) RemoveUnseeded(ctx context.Context, dryRun bool) (int64, error) {
	allow := s.cfg.SeedEmails
	if len(allow) == 0 {
		return 0, common.ErrEmptyAllowList
	}

	if dryRun {
		n, err := s.repo.CountAllExcept(ctx, allow)
		if err != nil {
			return 0, fmt.Errorf("failed to count users: %w", err)
		}
		return n, nil
	}

	n, err := s.repo.DeleteAllExcept(ctx, allow)
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}
	s.logger.Info("removed non-seeded users", zap.Int64("deleted", n), zap.Strings("kept", allow))
	return n, nil
}

// AdminResult describes the outcome of ReplaceAdmin
type AdminResult struct {
	Admin   *model.User
	Removed int64
}

// ReplaceAdmin deletes every existing admin (and any account holding the admin
// email) and inserts a single fresh admin from configuration.
func (s *UserService) ReplaceAdmin(ctx context.Context) (*AdminResult, error) {
	admin := s.cfg.Admin
	if s.cfg.UsesDefaultAdminPassword() {
		s.logger.Warn("creating admin with the built-in default password; set ADMIN_PASSWORD")
	}

	removed, err := s.repo.DeleteAdmins(ctx, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to remove existing admin: %w", err)
	}
	if removed > 0 {
		s.logger.Info("removed existing admin accounts", zap.Int64("deleted", removed))
	}

	created, err := s.repo.Create(ctx, &model.User{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: admin.Password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		if removed > 0 {
			s.logger.Warn("admin insert failed after existing admins were deleted; no admin account remains",
				zap.Int64("deleted", removed), zap.String("email", admin.Email), zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return &AdminResult{Admin: created, Removed: removed}, nil
}

// PromotionResult describes the outcome of PromoteToTeacher
type PromotionResult struct {
	User         *model.User
	PreviousRole string
	Backfilled   []string
}

// PromoteToTeacher sets the user's role to teacher and fills any empty
// instructor field with the configured default. The user is not touched when
// the email is invalid or unknown.
func (s *UserService) PromoteToTeacher(ctx context.Context, email string) (*PromotionResult, error) {
	email = util.NormalizeEmail(email)
	if err := util.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidEmail, err)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrUserNotFound, email)
	}

	d := s.cfg.TeacherDefaults
	defaults := model.InstructorProfile{
		ProfessionalTitle: d.ProfessionalTitle,
		Organization:      d.Organization,
		Website:           d.Website,
		LinkedIn:          d.LinkedIn,
		Qualifications:    d.Qualifications,
	}
	fields := user.Backfill(defaults)
	// only the defaults actually written need to be non-blank
	for _, name := range defaults.Missing() {
		if _, needed := fields[name]; needed {
			return nil, fmt.Errorf("%w: %s", common.ErrBlankTeacherDefault, name)
		}
	}
	backfilled := make([]string, 0, len(fields))
	for k := range fields {
		backfilled = append(backfilled, k)
	}
	sort.Strings(backfilled)
	fields["role"] = model.RoleTeacher

	if err := s.repo.SetFields(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	previous := user.Role
	applyFields(user, fields)
	return &PromotionResult{User: user, PreviousRole: previous, Backfilled: backfilled}, nil
}

func applyFields(u *model.User, fields map[string]interface{}) {
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
		}
	}
}
