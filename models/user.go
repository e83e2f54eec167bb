package models

import (
	"time"
)

// User is the identity record. Username stays nil until the user picks one.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Username  *string   `gorm:"uniqueIndex;size:20" json:"username"`
	Password  *string   `json:"-"` // nil for firebase accounts
	IsPrivate bool      `gorm:"not null;default:false" json:"isPrivate"`
	CreatedAt time.Time `json:"createdAt"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// Handle returns the username or "" when none is set.
func (u *User) Handle() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Age       *int      `json:"age"`
	Gender    string    `json:"gender"`
	Height    float64   `json:"height"` // cm
	Weight    float64   `json:"weight"` // kg
	Goal      string    `json:"goal"`
	Bio       string    `gorm:"type:text" json:"bio"`
	ImageURL  string    `json:"imageUrl"`
	ImageKey  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
