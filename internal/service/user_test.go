package service

import (
	"context"
	"errors"
	"testing"

	"lmsops/internal/common"
	"lmsops/internal/config"
	"lmsops/internal/model"
	"lmsops/internal/repository/memory"
	"lmsops/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newUserService(t *testing.T, repo *memory.Users) *UserService {
	t.Helper()
	return NewUserService(config.Defaults(), repo, zap.NewNop())
}

func TestReplaceAdmin_LeavesExactlyOneAdmin(t *testing.T) {
	tests := []struct {
		name  string
		users []*model.User
	}{
		{name: "no admin yet"},
		{
			name: "one admin",
			users: []*model.User{
				{Name: "Old", Email: "old-admin@lms.com", Role: model.RoleAdmin},
			},
		},
		{
			name: "several admins and a student",
			users: []*model.User{
				{Name: "A1", Email: "a1@lms.com", Role: model.RoleAdmin},
				{Name: "A2", Email: "a2@lms.com", Role: model.RoleAdmin},
				{Name: "S", Email: "s@lms.com", Role: model.RoleStudent},
			},
		},
		{
			name: "admin email held by a non-admin",
			users: []*model.User{
				{Name: "Squatter", Email: "admin@lms.com", Role: model.RoleStudent},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.NewUsers(tc.users...)
			svc := newUserService(t, repo)

			res, err := svc.ReplaceAdmin(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "admin@lms.com", res.Admin.Email)

			var admins []model.User
			for _, u := range repo.All() {
				if u.Role == model.RoleAdmin {
					admins = append(admins, u)
				}
			}
			require.Len(t, admins, 1)
			assert.Equal(t, "admin@lms.com", admins[0].Email)
			assert.True(t, util.VerifyPassword(config.DefaultAdminPassword, admins[0].Password))
		})
	}
}

func TestReplaceAdmin_KeepsOtherUsers(t *testing.T) {
	repo := memory.NewUsers(
		&model.User{Name: "A", Email: "a@lms.com", Role: model.RoleAdmin},
		&model.User{Name: "T", Email: "t@lms.com", Role: model.RoleTeacher},
	)
	svc := newUserService(t, repo)

	res, err := svc.ReplaceAdmin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Removed)
	assert.Len(t, repo.All(), 2)
}

func TestReplaceAdmin_RepoError(t *testing.T) {
	repo := memory.NewUsers()
	repo.Err = errors.New("connection reset")
	svc := newUserService(t, repo)

	_, err := svc.ReplaceAdmin(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRemoveUnseeded(t *testing.T) {
	repo := memory.NewUsers(
		&model.User{Email: "admin@lms.com", Role: model.RoleAdmin},
		&model.User{Email: "teacher@lms.com", Role: model.RoleTeacher},
		&model.User{Email: "random1@gmail.com", Role: model.RoleStudent},
		&model.User{Email: "random2@gmail.com", Role: model.RoleStudent},
	)
	svc := newUserService(t, repo)

	n, err := svc.RemoveUnseeded(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	allow := map[string]bool{}
	for _, e := range config.Defaults().SeedEmails {
		allow[e] = true
	}
	remaining := repo.All()
	assert.Len(t, remaining, 2)
	for _, u := range remaining {
		assert.True(t, allow[u.Email], "%s should have been removed", u.Email)
	}

	// student@lms.com was never present: running again is a no-op
	n, err = svc.RemoveUnseeded(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Len(t, repo.All(), 2)
}

func TestRemoveUnseeded_DryRunDoesNotDelete(t *testing.T) {
	repo := memory.NewUsers(
		&model.User{Email: "admin@lms.com"},
		&model.User{Email: "x@y.com"},
	)
	svc := newUserService(t, repo)

	n, err := svc.RemoveUnseeded(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, repo.All(), 2)
}

func TestRemoveUnseeded_EmptyAllowList(t *testing.T) {
	repo := memory.NewUsers(&model.User{Email: "x@y.com"})
	cfg := config.Defaults()
	cfg.SeedEmails = nil
	svc := NewUserService(cfg, repo, zap.NewNop())

	_, err := svc.RemoveUnseeded(context.Background(), false)
	assert.ErrorIs(t, err, common.ErrEmptyAllowList)
	assert.Len(t, repo.All(), 1)
}

func TestPromoteToTeacher_BackfillsMissingFields(t *testing.T) {
	repo := memory.NewUsers(&model.User{
		Name:         "Sam",
		Email:        "sam@lms.com",
		Role:         model.RoleStudent,
		Organization: "Sam's Own Org",
	})
	svc := newUserService(t, repo)

	res, err := svc.PromoteToTeacher(context.Background(), "  SAM@lms.com ")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, res.PreviousRole)
	assert.Equal(t, []string{"linkedIn", "professionalTitle", "qualifications", "website"}, res.Backfilled)

	stored := repo.All()[0]
	assert.Equal(t, model.RoleTeacher, stored.Role)
	assert.Empty(t, stored.MissingInstructorFields())
	assert.Equal(t, "Sam's Own Org", stored.Organization, "existing values are preserved")
	assert.Equal(t, config.DefaultTeacherTitle, stored.ProfessionalTitle)
	assert.Equal(t, config.DefaultTeacherWebsite, stored.Website)

	assert.Equal(t, stored.Role, res.User.Role)
	assert.Equal(t, stored.Qualifications, res.User.Qualifications)
}

func TestPromoteToTeacher_CompleteProfileUntouched(t *testing.T) {
	repo := memory.NewUsers(&model.User{
		Email:             "pro@lms.com",
		Role:              model.RoleTeacher,
		ProfessionalTitle: "Professor",
		Organization:      "MIT",
		Website:           "https://pro.dev",
		LinkedIn:          "https://linkedin.com/in/pro",
		Qualifications:    "PhD",
	})
	svc := newUserService(t, repo)

	res, err := svc.PromoteToTeacher(context.Background(), "pro@lms.com")
	require.NoError(t, err)
	assert.Empty(t, res.Backfilled)
	assert.Equal(t, "Professor", repo.All()[0].ProfessionalTitle)
}

func TestPromoteToTeacher_UnknownEmailMakesNoMutation(t *testing.T) {
	repo := memory.NewUsers(&model.User{Email: "someone@lms.com", Role: model.RoleStudent})
	svc := newUserService(t, repo)

	_, err := svc.PromoteToTeacher(context.Background(), "ghost@lms.com")
	require.ErrorIs(t, err, common.ErrUserNotFound)
	assert.Equal(t, 0, repo.Writes)
	assert.Equal(t, model.RoleStudent, repo.All()[0].Role)
}

func TestPromoteToTeacher_InvalidEmail(t *testing.T) {
	repo := memory.NewUsers()
	svc := newUserService(t, repo)

	_, err := svc.PromoteToTeacher(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, common.ErrInvalidEmail)
}

func TestListInstructors(t *testing.T) {
	repo := memory.NewUsers(
		&model.User{Name: "Zed", Email: "z@lms.com", Role: model.RoleTeacher},
		&model.User{Name: "Amy", Email: "a@lms.com", Role: model.RoleStudent, IsMentor: true},
		&model.User{Name: "Bob", Email: "b@lms.com", Role: model.RoleStudent},
	)
	svc := newUserService(t, repo)

	users, err := svc.ListInstructors(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Amy", users[0].Name)
	assert.Equal(t, "Zed", users[1].Name)
}

func TestListAll_Error(t *testing.T) {
	repo := memory.NewUsers()
	repo.Err = errors.New("boom")
	svc := newUserService(t, repo)

	_, err := svc.ListAll(context.Background())
	assert.ErrorContains(t, err, "failed to list users")
}

// insertFails deletes like the real repository but rejects every insert.
type insertFails struct {
	*memory.Users
}

func (r insertFails) Create(ctx context.Context, user *model.User) (*model.User, error) {
	return nil, memory.ErrDuplicateEmail
}

func TestReplaceAdmin_WarnsWhenInsertFailsAfterDelete(t *testing.T) {
	repo := memory.NewUsers(
		&model.User{Email: "a1@lms.com", Role: model.RoleAdmin},
		&model.User{Email: "a2@lms.com", Role: model.RoleAdmin},
	)
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.Defaults()
	cfg.Admin.Password = "not-the-default"
	svc := NewUserService(cfg, insertFails{repo}, zap.New(core))

	_, err := svc.ReplaceAdmin(context.Background())
	require.ErrorIs(t, err, memory.ErrDuplicateEmail)
	assert.Empty(t, repo.All())

	entries := logs.FilterField(zap.Int64("deleted", 2)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestRemoveUnseeded_AllowListIgnoresCase(t *testing.T) {
	repo := memory.NewUsers(
		&model.User{Email: "admin@lms.com", Role: model.RoleAdmin},
		&model.User{Email: "Teacher@LMS.com", Role: model.RoleTeacher},
		&model.User{Email: "stranger@lms.com", Role: model.RoleStudent},
	)
	cfg := config.Defaults()
	cfg.SeedEmails = []string{"admin@lms.com", "teacher@lms.com"}
	svc := NewUserService(cfg, repo, zap.NewNop())

	n, err := svc.RemoveUnseeded(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var kept []string
	for _, u := range repo.All() {
		kept = append(kept, u.Email)
	}
	assert.ElementsMatch(t, []string{"admin@lms.com", "Teacher@LMS.com"}, kept)
}

func TestPromoteToTeacher_BlankDefaultRefused(t *testing.T) {
	repo := memory.NewUsers(&model.User{Email: "sam@lms.com", Role: model.RoleStudent})
	cfg := config.Defaults()
	cfg.TeacherDefaults.ProfessionalTitle = ""
	svc := NewUserService(cfg, repo, zap.NewNop())

	_, err := svc.PromoteToTeacher(context.Background(), "sam@lms.com")
	require.ErrorIs(t, err, common.ErrBlankTeacherDefault)
	assert.Contains(t, err.Error(), "professionalTitle")
	assert.Equal(t, 0, repo.Writes)
	assert.Equal(t, model.RoleStudent, repo.All()[0].Role)
}

func TestPromoteToTeacher_BlankDefaultUnusedIsFine(t *testing.T) {
	repo := memory.NewUsers(&model.User{Email: "sam@lms.com", Role: model.RoleStudent, ProfessionalTitle: "Dr"})
	cfg := config.Defaults()
	cfg.TeacherDefaults.ProfessionalTitle = ""
	svc := NewUserService(cfg, repo, zap.NewNop())

	res, err := svc.PromoteToTeacher(context.Background(), "sam@lms.com")
	require.NoError(t, err)
	assert.Empty(t, res.User.MissingInstructorFields())
}
