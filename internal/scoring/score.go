package scoring

import (
	"math"
	"strings"

	"github.com/rifaterdemsahin/soundcue/internal/requirement"
)

// candidateText holds the lowercased candidate fields keywords are
// matched against.
type candidateText struct {
	name        string
	tags        []string
	description string
}

func lowerText(c Candidate) candidateText {
	tags := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = strings.ToLower(t)
	}
	return candidateText{
		name:        strings.ToLower(c.Name),
		tags:        tags,
		description: strings.ToLower(c.Description),
	}
}

// present reports whether kw appears as a substring of the name or
// description, or matches a tag exactly.
func (t candidateText) present(kw string) bool {
	if strings.Contains(t.name, kw) || strings.Contains(t.description, kw) {
		return true
	}
	for _, tag := range t.tags {
		if tag == kw {
			return true
		}
	}
	return false
}

// splitKeywords splits requirement text into lowercased keywords on
// whitespace, optionally treating commas as separators too.
func splitKeywords(text string, commas bool) []string {
	text = strings.ToLower(text)
	if commas {
		text = strings.ReplaceAll(text, ",", " ")
	}
	return strings.Fields(text)
}

// MusicScore rates how well a candidate satisfies a music track
// requirement, on a 0-100 scale.
//
// Contributions accumulate in a fixed order, and each text category
// caps the running total rather than its own contribution: genre
// keywords add 5 each (running total capped at 25), mood keywords add
// 4 each (capped at 50), instrument keywords add 3 each (capped at
// 65). Duration proximity adds up to 10, rating quality up to 10
// discounted toward zero for thinly rated sounds, and license
// preference up to 5. The order-dependent clamping is load-bearing:
// points earned past a cap are wasted, so reordering the categories
// changes results.
func MusicScore(track requirement.MusicTrack, c Candidate) float64 {
	text := lowerText(c)
	score := 0.0

	for _, kw := range splitKeywords(track.Genre, false) {
		if text.present(kw) {
			score += 5
		}
	}
	score = math.Min(score, 25)

	for _, kw := range splitKeywords(track.Mood, true) {
		if text.present(kw) {
			score += 4
		}
	}
	score = math.Min(score, 50)

	for _, kw := range splitKeywords(track.Instruments, true) {
		if text.present(kw) {
			score += 3
		}
	}
	score = math.Min(score, 65)

	// Duration proximity applies only when both sides are known.
	if track.TargetDuration != 0 && c.Duration > 0 {
		diff := math.Abs(float64(track.TargetDuration) - c.Duration)
		switch {
		case diff < 5:
			score += 10
		case diff < 10:
			score += 7
		case diff < 20:
			score += 4
		}
	}

	// Ratings from few voters carry proportionally less weight; full
	// weight from 10 ratings up.
	if c.AvgRating > 0 {
		weight := math.Min(float64(c.NumRatings)/10, 1.0)
		score += (c.AvgRating / 5.0) * 10 * weight
	}

	switch {
	case strings.Contains(c.License, "Creative Commons 0"),
		strings.Contains(c.License, "CC0"):
		score += 5
	case strings.Contains(c.License, "Attribution"):
		score += 3
	}

	return math.Min(score, 100)
}

// EffectScore rates how well a candidate matches one named sound
// effect, on a 0-100 scale. The name tiers are exclusive: a candidate
// whose name contains every effect keyword earns 40, one containing
// at least one keyword earns 20. Tag matches add 10 each (capped at
// 30), description matches 5 each (capped at 15), and the rating adds
// up to 15 with no vote-count discount.
func EffectScore(effect string, c Candidate) float64 {
	text := lowerText(c)
	keywords := strings.Fields(strings.ToLower(effect))
	score := 0.0

	allInName, anyInName := true, false
	for _, kw := range keywords {
		if strings.Contains(text.name, kw) {
			anyInName = true
		} else {
			allInName = false
		}
	}
	switch {
	case allInName:
		score += 40
	case anyInName:
		score += 20
	}

	tagMatches := 0.0
	for _, kw := range keywords {
		for _, tag := range text.tags {
			if strings.Contains(tag, kw) {
				tagMatches++
				break
			}
		}
	}
	score += math.Min(tagMatches*10, 30)

	descMatches := 0.0
	for _, kw := range keywords {
		if strings.Contains(text.description, kw) {
			descMatches++
		}
	}
	score += math.Min(descMatches*5, 15)

	score += (c.AvgRating / 5.0) * 15

	return math.Min(score, 100)
}

// ScoreMusic scores every candidate against the track. The result
// order mirrors the input order, which SelectTopN relies on for
// stable tie-breaking.
func ScoreMusic(track requirement.MusicTrack, candidates []Candidate) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredCandidate{Score: MusicScore(track, c), Candidate: c}
	}
	return scored
}

// ScoreEffect scores every candidate against one effect name, in
// input order.
func ScoreEffect(effect string, candidates []Candidate) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredCandidate{Score: EffectScore(effect, c), Candidate: c}
	}
	return scored
}
