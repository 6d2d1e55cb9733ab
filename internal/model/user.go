package model

import "time"

// User is a journal author.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:100;not null"` // Never expose in JSON
	JoinedAt     time.Time `json:"joined_at" gorm:"not null"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`

	Entries []Entry `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

