package models

import "time"

type Workout struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Exercise  string    `gorm:"index;not null" json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Weight    float64   `json:"weight"`
	Calories  float64   `json:"calories"`
	Date      time.Time `gorm:"index;not null" json:"date"` // midnight UTC
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
