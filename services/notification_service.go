package services

import (
	"context"
	"fmt"
	"time"

	"fittrack/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier delivers social-graph events to a user. Delivery is best-effort:
// Notify never fails the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

type Pusher interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

type NotificationService struct {
	db     *gorm.DB
	hub    *RealtimeHub
	push   Pusher
	effort BestEffort
}

// NewNotificationService wires persistence with optional realtime and push
// fan-out; hub and push may be nil.
func NewNotificationService(db *gorm.DB, hub *RealtimeHub, push Pusher, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{db: db, hub: hub, push: push, effort: BestEffort{Log: log}}
}

func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	fields := logrus.Fields{"user_id": n.UserID, "type": n.Type}

	s.effort.Run(ctx, "notification.persist", fields, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Create(&n).Error
	})
	if s.hub != nil {
		s.effort.Run(ctx, "notification.realtime", fields, func(context.Context) error {
			return s.hub.Broadcast(n.UserID, map[string]any{
				"kind":         "notification.created",
				"notification": n,
			})
		})
	}
	if s.push != nil {
		s.effort.Run(ctx, "notification.push", fields, func(ctx context.Context) error {
			return s.push.PushToUser(ctx, n.UserID, "FitTrack", n.Message, map[string]string{
				"type":           n.Type,
				"notificationId": fmt.Sprintf("%d", n.ID),
			})
		})
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	out := []models.Notification{}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
