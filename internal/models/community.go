package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is an entry on the community feed.
type Post struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	Author     string                      `gorm:"size:128;not null" json:"author"`
	AvatarURL  string                      `gorm:"size:512" json:"avatar_url"`
	Content    string                      `gorm:"type:text;not null" json:"content"`
	Likes      int                         `gorm:"not null;default:0" json:"likes"`
	Shares     int                         `gorm:"not null;default:0" json:"shares"`
	Bookmarked bool                        `gorm:"not null;default:false" json:"bookmarked"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Images     datatypes.JSONSlice[string] `json:"images"`
	Comments   []PostComment               `json:"comments"`
	CreatedAt  time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// PostComment is a comment attached to a feed post.
type PostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Author    string    `gorm:"size:128;not null" json:"author"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Article is a long-form wellness article.
type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	Author    string    `gorm:"size:128;not null" json:"author"`
	AvatarURL string    `gorm:"size:512" json:"avatar"`
	ReadTime  string    `gorm:"size:32" json:"read_time"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
