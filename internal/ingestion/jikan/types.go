package jikan

// searchResponse mirrors the subset of the Jikan v4 /anime payload the
// diary cares about.
type searchResponse struct {
	Data []AnimeData `json:"data"`
}

// AnimeData is one catalog hit as returned by Jikan.
type AnimeData struct {
	MalID    int64    `json:"mal_id"`
	Title    string   `json:"title"`
	Synopsis *string  `json:"synopsis"`
	Score    *float64 `json:"score"`
	Episodes *int     `json:"episodes"`
	Status   *string  `json:"status"`
	Images   struct {
		JPG struct {
			ImageURL *string `json:"image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

// ImageURL flattens the nested images block.
func (a AnimeData) ImageURL() *string {
	return a.Images.JPG.ImageURL
}
