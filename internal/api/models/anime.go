package models

import "time"

type Anime struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MalID     int64     `json:"mal_id" gorm:"uniqueIndex;not null"`
	Title     string    `json:"title" gorm:"not null;index;size:255"`
	Synopsis  *string   `json:"synopsis,omitempty" gorm:"type:text"`
	Score     *float64  `json:"score,omitempty" gorm:"type:decimal(4,2)"`
	Episodes  *int      `json:"episodes,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty" gorm:"size:500"`
	Status    *string   `json:"status,omitempty" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Anime) TableName() string {
	return "anime"
}
