package models

import "time"

const (
	NotificationFollowRequest   = "follow_request"
	NotificationNewFollower     = "new_follower"
	NotificationRequestAccepted = "request_accepted"
)

type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index" json:"userId"`
	ActorID   uint       `json:"actorId"`
	Type      string     `gorm:"size:32" json:"type"`
	Message   string     `gorm:"type:text" json:"message"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}
