package scoring

import "github.com/rifaterdemsahin/soundcue/internal/requirement"

// RankedMatch is one retained candidate in a scoring report. Ranks
// are 1-based and strictly increasing.
type RankedMatch struct {
	Rank    int     `json:"rank"`
	Score   float64 `json:"score"`
	SoundID int64   `json:"sound_id"`
	Name    string  `json:"name"`
	URL     string  `json:"url,omitempty"`
}

// TrackRequirements echoes the requirement fields a track report was
// scored against.
type TrackRequirements struct {
	Genre       string `json:"genre"`
	Mood        string `json:"mood"`
	BPM         string `json:"bpm"`
	Instruments string `json:"instruments"`
	Duration    int    `json:"duration"`
}

// TrackReport records the outcome of scoring one music track
// requirement.
type TrackReport struct {
	TrackNumber  int               `json:"track_number"`
	Title        string            `json:"title"`
	Requirements TrackRequirements `json:"requirements"`
	SearchQuery  string            `json:"search_query"`
	TopMatches   []RankedMatch     `json:"top_matches"`
}

// EffectReport records the outcome of scoring one sound effect.
type EffectReport struct {
	Category    string        `json:"category"`
	Effect      string        `json:"effect"`
	SearchQuery string        `json:"search_query"`
	TopMatches  []RankedMatch `json:"top_matches"`
}

// NewTrackReport builds a report for the given track, query, and
// retained candidates. Zero candidates yield a report with an empty
// match list, never an error.
func NewTrackReport(track requirement.MusicTrack, query string, top []ScoredCandidate) TrackReport {
	return TrackReport{
		TrackNumber: track.TrackNumber,
		Title:       track.Title,
		Requirements: TrackRequirements{
			Genre:       track.Genre,
			Mood:        track.Mood,
			BPM:         track.BPM,
			Instruments: track.Instruments,
			Duration:    track.TargetDuration,
		},
		SearchQuery: query,
		TopMatches:  rankedMatches(top),
	}
}

// NewEffectReport builds a report for one effect within a category.
func NewEffectReport(category, effect, query string, top []ScoredCandidate) EffectReport {
	return EffectReport{
		Category:    category,
		Effect:      effect,
		SearchQuery: query,
		TopMatches:  rankedMatches(top),
	}
}

func rankedMatches(top []ScoredCandidate) []RankedMatch {
	matches := make([]RankedMatch, len(top))
	for i, sc := range top {
		matches[i] = RankedMatch{
			Rank:    i + 1,
			Score:   sc.Score,
			SoundID: sc.Candidate.ID,
			Name:    sc.Candidate.Name,
			URL:     sc.Candidate.URL,
		}
	}
	return matches
}
