package models

import "time"

type Schedule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Task      string    `gorm:"not null" json:"task"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	Time      string    `gorm:"size:5" json:"time"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
