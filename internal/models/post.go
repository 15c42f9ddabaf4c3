package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a user-authored book review. Book metadata is a snapshot taken from
// the catalog API when the post is created, not a live reference.
type Post struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	User         User   `gorm:"foreignKey:UserID" json:"-"`
	Title        string `gorm:"not null" json:"title"`
	Reason       string `gorm:"not null" json:"reason"`
	Impressions  string `gorm:"not null" json:"impressions"`
	Satisfaction int    `gorm:"not null" json:"satisfaction"`
	BookTitle    string `gorm:"not null" json:"book_title"`
	BookAuthor   string `gorm:"not null" json:"book_author"`
	ISBN         string `gorm:"not null;size:13" json:"isbn"`
	// AuthorName is the post author's profile name; computed at query time.
	AuthorName string `gorm:"->" json:"author_name,omitempty"`
	// CommentsCount is not persisted; computed at query time.
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Field limits for posts, matching the storage schema.
const (
	MaxPostTitleLen       = 25
	MaxPostReasonLen      = 25
	MaxPostImpressionsLen = 255
	MinSatisfaction       = 1
	MaxSatisfaction       = 5
)

// CanModify is the ownership rule for posts and comments: only the creating
// user may mutate or delete their record.
func CanModify(actorID, ownerID uint) bool {
	return actorID != 0 && actorID == ownerID
}
