package models

import "time"

// Diary statuses. No transition graph is enforced: any status may move to
// any other via update.
const (
	StatusWatching  = "watching"
	StatusCompleted = "completed"
	StatusPlanned   = "planned"
	StatusDropped   = "dropped"
)

// ValidStatus reports whether s is one of the four diary statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusPlanned, StatusDropped:
		return true
	}
	return false
}

type DiaryEntry struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string    `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_anime"`
	AnimeID         int64     `json:"anime_id" gorm:"not null;index;uniqueIndex:idx_user_anime"`
	UserScore       int       `json:"user_score" gorm:"not null;check:user_score >= 1 AND user_score <= 10"`
	Status          string    `json:"status" gorm:"not null;default:'watching';size:50;index"`
	EpisodesWatched int       `json:"episodes_watched" gorm:"default:0"`
	Notes           *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Association. Anime deletion is blocked while entries reference it;
	// the user-side cascade lives on User.DiaryEntries.
	Anime *Anime `json:"anime,omitempty" gorm:"foreignKey:AnimeID;constraint:OnDelete:RESTRICT;"`
}

func (DiaryEntry) TableName() string {
	return "diary_entries"
}
