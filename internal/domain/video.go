package domain

// Video is a normalized entry of the external video host library. It is
// never persisted locally; courses only hold its ID.
type Video struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	DurationSeconds float64 `json:"duration"`
	Description     *string `json:"description"`
	Link            *string `json:"link"`
	ThumbnailURL    *string `json:"thumbnail"`
	PlaybackHash    *string `json:"hash"`
}

// Project is a folder of the video host library.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
