package model

import "time"

// DefaultRole is assigned to every account created through signup.
const DefaultRole = "user"

// User represents a garage customer account.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Firstname string    `json:"firstname" gorm:"size:100;not null"`
	Lastname  string    `json:"lastname" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never serialized
	Role      string    `json:"role" gorm:"size:50;not null;default:'user'"`
	PhotoName string    `json:"photo_name" gorm:"size:255;not null;default:''"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
