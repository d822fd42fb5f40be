package service

import (
	"context"
	"fmt"

	"lmsops/internal/common"
	"lmsops/internal/config"
	"lmsops/internal/model"
	"lmsops/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NotificationService implements the notification maintenance operations
type NotificationService struct {
	repo   repository.INotificationRepository
	users  repository.IUserRepository
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repository.INotificationRepository, users repository.IUserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, logger: logger}
}

// ClearAll deletes every notification and returns how many were removed.
// With dryRun set it only counts them.
func (s *NotificationService) ClearAll(ctx context.Context, dryRun bool) (int64, error) {
	if dryRun {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count notifications: %w", err)
		}
		return n, nil
	}

	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	s.logger.Info("cleared notifications", zap.Int64("deleted", n))
	return n, nil
}

// Latest returns the most recent notifications, newest first.
// limit is clamped to [1, config.MaxLatestLimit].
func (s *NotificationService) Latest(ctx context.Context, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = config.DefaultLatestLimit
	}
	if limit > config.MaxLatestLimit {
		limit = config.MaxLatestLimit
	}

	notifications, err := s.repo.FindLatest(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// ForTeacher returns a teacher and their notifications. When recipient is the
// zero ObjectID the first teacher in the collection is used.
func (s *NotificationService) ForTeacher(ctx context.Context, recipient primitive.ObjectID) (*model.User, []*model.Notification, error) {
	var (
		teacher *model.User
		err     error
	)
	if recipient.IsZero() {
		teacher, err = s.users.FindFirstByRole(ctx, model.RoleTeacher)
	} else {
		teacher, err = s.users.FindByID(ctx, recipient)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find teacher: %w", err)
	}
	if teacher == nil {
		if recipient.IsZero() {
			return nil, nil, common.ErrNoTeacher
		}
		return nil, nil, fmt.Errorf("%w: %s", common.ErrUserNotFound, recipient.Hex())
	}

	notifications, err := s.repo.FindByRecipient(ctx, teacher.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch notifications for %s: %w", teacher.Email, err)
	}
	return teacher, notifications, nil
}
