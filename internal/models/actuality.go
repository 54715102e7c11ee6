package models

import "time"

// Actuality is a post. When ActualityID is set it is a comment on that parent.
type Actuality struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"user_id" gorm:"not null;index"`
	CategoryID  uint        `json:"category_id" gorm:"not null;index"`
	ActualityID *uint       `json:"actuality_id" gorm:"index"`
	Message     string      `json:"message" gorm:"type:text;not null"`
	Image       string      `json:"image"` // empty when no image was attached
	CreatedAt   time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time   `json:"updated_at"`
	User        User        `json:"user" gorm:"foreignKey:UserID"`
	Category    Category    `json:"-" gorm:"foreignKey:CategoryID"`
	Likes       []Like      `json:"likes,omitempty" gorm:"foreignKey:ActualityID"`
	Comments    []Actuality `json:"comments,omitempty" gorm:"foreignKey:ActualityID"`
}

// IsComment reports whether the actuality is a reply to another one.
func (a *Actuality) IsComment() bool {
	return a.ActualityID != nil
}

// FeedItem is one top-level actuality joined with its author and category.
type FeedItem struct {
	ID          uint        `json:"id"`
	ActualityID *uint       `json:"actuality_id"`
	CategoryID  uint        `json:"category_id"`
	Message     string      `json:"message"`
	Image       string      `json:"image"`
	CreatedAt   time.Time   `json:"created_at"`
	Category    string      `json:"category"`
	Color       string      `json:"color"`
	Name        string      `json:"name"`
	Forename    string      `json:"forename"`
	Avatar      string      `json:"avatar"`
	UserID      uint        `json:"user_id"`
	Likes       []Like      `json:"likes" gorm:"-"`
	Comments    []Actuality `json:"comments" gorm:"-"`
}

// LikedBy reports whether userID is among the item's likes.
func (f FeedItem) LikedBy(userID uint) bool {
	for _, l := range f.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

type CreateActualityRequest struct {
	CategoryID uint   `form:"category_id" json:"category_id" validate:"required"`
	Message    string `form:"message" json:"message" validate:"required"`
}

type CreateCommentRequest struct {
	Content string `form:"content" json:"content" validate:"required"`
}
