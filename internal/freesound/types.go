package freesound

import "github.com/rifaterdemsahin/soundcue/internal/scoring"

// searchResponse is the APIv2 text search envelope.
type searchResponse struct {
	Count   int     `json:"count"`
	Results []Sound `json:"results"`
}

// Previews holds the preview rendition URLs served for a sound.
type Previews struct {
	HQMP3 string `json:"preview-hq-mp3"`
	LQMP3 string `json:"preview-lq-mp3"`
}

// Sound is the subset of Freesound sound metadata the assistant
// requests from the search endpoint.
type Sound struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Duration    float64  `json:"duration"`
	Previews    Previews `json:"previews"`
	License     string   `json:"license"`
	AvgRating   float64  `json:"avg_rating"`
	NumRatings  int      `json:"num_ratings"`
	Username    string   `json:"username"`
	URL         string   `json:"url"`
}

// PreviewURL returns the best available preview rendition, preferring
// the high-quality mp3. Empty when the sound exposes no preview.
func (s Sound) PreviewURL() string {
	if s.Previews.HQMP3 != "" {
		return s.Previews.HQMP3
	}
	return s.Previews.LQMP3
}

// Candidate converts the sound into the scorer's read-only metadata
// form.
func (s Sound) Candidate() scoring.Candidate {
	return scoring.Candidate{
		ID:          s.ID,
		Name:        s.Name,
		URL:         s.URL,
		Tags:        s.Tags,
		Description: s.Description,
		Duration:    s.Duration,
		License:     s.License,
		AvgRating:   s.AvgRating,
		NumRatings:  s.NumRatings,
	}
}
