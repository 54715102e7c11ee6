package models

import "time"

// Like records that a user liked an actuality. One row per (user, actuality).
type Like struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_like_user_actuality"`
	ActualityID uint      `json:"actuality_id" gorm:"not null;index;uniqueIndex:idx_like_user_actuality"`
	CreatedAt   time.Time `json:"created_at"`
}
