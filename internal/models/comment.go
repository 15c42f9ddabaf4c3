package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is attached to a post. Comments are immutable once created; the
// only supported operations are create and delete.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	User    User   `gorm:"foreignKey:UserID" json:"-"`
	Post    Post   `gorm:"foreignKey:PostID" json:"-"`
	Content string `gorm:"not null" json:"content"`
	// AuthorName is the comment author's profile name; computed at query time.
	AuthorName string         `gorm:"->" json:"author_name,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// MaxCommentLen caps comment text length.
const MaxCommentLen = 255
