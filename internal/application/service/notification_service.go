package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/domain/workflow"
)

// NotificationService manages the append-only per-user notification mailbox.
type NotificationService interface {
	// Enqueue appends one notification. A blank recipient or message is
	// tolerated as a silent no-op so a missing role member never fails the
	// workflow action that triggered it.
	Enqueue(ctx context.Context, userID, message string) (*entity.Notification, error)

	// NotifyRole fans one message out to every current member of the role.
	NotifyRole(ctx context.Context, role workflow.Role, message string) error

	// ListUnread returns the user's unread notifications, newest first.
	ListUnread(ctx context.Context, userID string) ([]*entity.Notification, error)

	// MarkRead flips the read flag. Idempotent; an already-read or missing
	// notification is a no-op.
	MarkRead(ctx context.Context, id int64) error
}

type notificationServiceImpl struct {
	notificationRepo port.NotificationRepository
	roleDirectory    port.RoleDirectory
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo port.NotificationRepository,
	roleDirectory port.RoleDirectory,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		roleDirectory:    roleDirectory,
		logger:           logger,
	}
}

// Enqueue appends a notification for one user
func (s *notificationServiceImpl) Enqueue(ctx context.Context, userID, message string) (*entity.Notification, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(message) == "" {
		return nil, nil
	}

	notification := &entity.Notification{
		UserID:    userID,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error("Failed to enqueue notification", "error", err, "user_id", userID)
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	return notification, nil
}

// NotifyRole resolves role membership live at call time and enqueues one
// notification per member. Zero members is a no-op, not a failure.
func (s *notificationServiceImpl) NotifyRole(ctx context.Context, role workflow.Role, message string) error {
	members, err := s.roleDirectory.UsersInRole(ctx, role)
	if err != nil {
		s.logger.Error("Failed to resolve role members", "error", err, "role", role.String())
		return fmt.Errorf("resolve %s members: %w", role, err)
	}
	if len(members) == 0 {
		s.logger.Info("No members to notify", "role", role.String())
		return nil
	}

	for _, userID := range members {
		if _, err := s.Enqueue(ctx, userID, message); err != nil {
			return err
		}
	}

	s.logger.Info("Role notified", "role", role.String(), "members", len(members))
	return nil
}

// ListUnread returns the current unread set for a user
func (s *notificationServiceImpl) ListUnread(ctx context.Context, userID string) ([]*entity.Notification, error) {
	notifications, err := s.notificationRepo.ListUnread(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list unread notifications", "error", err, "user_id", userID)
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one notification as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id int64) error {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		s.logger.Error("Failed to mark notification read", "error", err, "id", id)
		return err
	}
	return nil
}
