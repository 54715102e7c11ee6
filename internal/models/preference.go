package models

import "time"

// Preference subscribes a user to a category's posts in the personalized feed.
type Preference struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_preference_user_category"`
	CategoryID uint      `json:"category_id" gorm:"not null;index;uniqueIndex:idx_preference_user_category"`
	CreatedAt  time.Time `json:"created_at"`
	Category   Category  `json:"-" gorm:"foreignKey:CategoryID"`
}

type PreferencesRequest struct {
	CategoryIDs []uint `form:"category_ids" json:"category_ids"`
}
