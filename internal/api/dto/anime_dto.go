package dto

// CreateAnimeRequest: manual catalog insertion
type CreateAnimeRequest struct {
	MalID    int64    `json:"mal_id" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Synopsis *string  `json:"synopsis,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Episodes *int     `json:"episodes,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
	Status   *string  `json:"status,omitempty"`
}

// UpdateAnimeRequest: partial update, absent fields stay as they are
type UpdateAnimeRequest struct {
	Title    *string  `json:"title,omitempty"`
	Synopsis *string  `json:"synopsis,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Episodes *int     `json:"episodes,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
	Status   *string  `json:"status,omitempty"`
}
