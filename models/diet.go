package models

import "time"

// Diet is one logged food entry.
type Diet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Food      string    `gorm:"not null" json:"food"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	Time      string    `gorm:"size:5" json:"time"`         // HH:MM
	Date      time.Time `gorm:"index;not null" json:"date"` // midnight UTC
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
