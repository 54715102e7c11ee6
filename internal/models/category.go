package models

import "time"

type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Color     string    `json:"color" gorm:"size:7;not null"`
	Order     int       `json:"order" gorm:"column:sort_order;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategorySummary is a category with its count of top-level actualities and
// whether the current user prefers it. Field order is the JSON contract.
type CategorySummary struct {
	Name             string `json:"name"`
	Color            string `json:"color"`
	ID               uint   `json:"id"`
	TotalActualities int64  `json:"totalActualities"`
	Preference       bool   `json:"preference" gorm:"-"`
}

type CategoryRequest struct {
	Name  string `form:"name" json:"name" validate:"required,max=100"`
	Color string `form:"color" json:"color" validate:"required,hexcolor"`
	Order int    `form:"order" json:"order" validate:"min=0"`
}
