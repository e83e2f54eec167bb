package models

import "time"

// Follow is an accepted edge follower -> following.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"followerId"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowRequest is a pending edge towards a private account.
type FollowRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequesterID uint      `gorm:"not null;index;uniqueIndex:idx_follow_request_pair" json:"requesterId"`
	TargetID    uint      `gorm:"not null;index;uniqueIndex:idx_follow_request_pair" json:"targetId"`
	CreatedAt   time.Time `json:"createdAt"`
}
