package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pressroom/constants"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	IsAdmin      bool
	SessionToken string    `gorm:"index"`
	Posts        []Post    `gorm:"foreignKey:AuthorID"`
	Comments     []Comment `gorm:"foreignKey:AuthorID"`
}

type Post struct {
	gorm.Model
	AuthorID *uint `gorm:"index"` // nil for posts imported from the news feed
	Author   *User
	// Display name of the external author on imported posts
	FeedAuthor  string
	Title       string `gorm:"uniqueIndex"`
	Slug        string `gorm:"index"`
	Subtitle    string
	PublishedAt time.Time
	Body        string `gorm:"type:text"`
	ImageURL    string
	// Raw feed payload the post was imported from, for provenance
	FeedItem datatypes.JSON
	Comments []Comment `gorm:"foreignKey:PostID"`
}

// DisplayDate renders the publish date the way post pages show it.
func (p Post) DisplayDate() string {
	return p.PublishedAt.Format(constants.DISPLAY_DATE_LAYOUT)
}

// Imported reports whether the post came from the news feed rather than a local author.
func (p Post) Imported() bool {
	return p.AuthorID == nil
}

// AuthorName returns the local author's name, or the feed author for imported posts.
func (p Post) AuthorName() string {
	if p.Author != nil {
		return p.Author.Name
	}
	return p.FeedAuthor
}

type Comment struct {
	gorm.Model
	AuthorID uint `gorm:"index"`
	Author   User
	PostID   uint   `gorm:"index"`
	Text     string `gorm:"type:text"`
}
