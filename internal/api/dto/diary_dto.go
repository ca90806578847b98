package dto

// AddDiaryRequest: add an anime to the diary. user_score deliberately has
// no binding tag so an out-of-range zero reaches the service's range check
// instead of a generic binding error.
type AddDiaryRequest struct {
	AnimeID         int64   `json:"anime_id" binding:"required"`
	UserScore       int     `json:"user_score"`
	Status          *string `json:"status,omitempty"`
	EpisodesWatched *int    `json:"episodes_watched,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// UpdateDiaryRequest: partial entry update
type UpdateDiaryRequest struct {
	UserScore       *int    `json:"user_score,omitempty"`
	Status          *string `json:"status,omitempty"`
	EpisodesWatched *int    `json:"episodes_watched,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}
