// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the authentication record. The email is the login identifier;
// everything the rest of the site shows about a person lives on Profile.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsStaff     bool           `gorm:"default:false" json:"-"`
	IsSuperuser bool           `gorm:"default:false" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Profile     *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Posts       []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
