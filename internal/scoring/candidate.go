// Package scoring ranks search candidates against cue sheet
// requirements using deterministic metadata heuristics. It performs
// no I/O and holds no state; identical inputs always produce
// identical scores.
package scoring

// Candidate is the metadata for one externally hosted audio asset as
// returned by a search. Scoring reads it and never mutates it; absent
// fields (no tags, empty description, zero rating) simply contribute
// nothing.
type Candidate struct {
	ID          int64
	Name        string
	URL         string
	Tags        []string
	Description string
	Duration    float64 // seconds; 0 means unknown
	License     string
	AvgRating   float64 // 0-5; 0 means unrated
	NumRatings  int
}

// ScoredCandidate pairs a candidate with its score on the 0-100 scale.
type ScoredCandidate struct {
	Score     float64
	Candidate Candidate
}
