package requirement

import (
	"strconv"
	"strings"
)

// DefaultDuration is the target duration, in seconds, assumed for a
// track whose time range cannot be parsed.
const DefaultDuration = 30

// Default BPM window returned when the BPM field cannot be parsed.
const (
	DefaultBPMLow  = 80
	DefaultBPMHigh = 140
)

// MusicTrack is one music requirement extracted from the cue sheet.
// TrackNumber comes from the track heading and reflects document
// order. The remaining fields are free text taken verbatim from the
// labeled lines. Values are immutable after parsing.
type MusicTrack struct {
	TrackNumber int
	Title       string
	TimeRange   string
	Genre       string
	Mood        string
	BPM         string
	Instruments string

	// TargetDuration is derived from TimeRange in seconds.
	// DefaultDuration when the range did not parse; negative when the
	// document lists an end time before the start time.
	TargetDuration int
}

// EffectCategory groups the sound-effect names requested under one
// category heading. Effects keep their document order.
type EffectCategory struct {
	Name    string
	Effects []string
}

// SearchQuery derives a search query from the track's genre. Known
// genre families map to curated queries that return better candidates
// than the raw genre text; unknown genres fall back to their first
// two words.
func (t MusicTrack) SearchQuery() string {
	genre := strings.ToLower(t.Genre)

	switch {
	case strings.Contains(genre, "orchestral"):
		return "orchestral cinematic"
	case strings.Contains(genre, "electronic") && strings.Contains(genre, "pop"):
		return "electronic music loop"
	case strings.Contains(genre, "electronic"):
		return "electronic music"
	case strings.Contains(genre, "industrial"):
		return "industrial electronic"
	case strings.Contains(genre, "progressive"):
		return "progressive music"
	case strings.Contains(genre, "tech"), strings.Contains(genre, "corporate"):
		return "corporate tech music"
	case strings.Contains(genre, "epic"):
		return "epic music"
	}

	words := strings.Fields(genre)
	if len(words) == 0 {
		return "music"
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

// SearchFilter derives the search filter expression for this track.
// Short targets favor 10-120s results; targets of a minute or more
// also accept loops.
func (t MusicTrack) SearchFilter() string {
	switch {
	case t.TargetDuration != 0 && t.TargetDuration < 60:
		return "duration:[10 TO 120] tag:music"
	case t.TargetDuration >= 60:
		return "duration:[30 TO 300] tag:music OR tag:loop"
	default:
		return "tag:music"
	}
}

// BPMRange returns the (low, high) BPM window for this track. A
// hyphenated value is split into its two bounds, a single value is
// widened by +-5, and anything unparseable falls back to
// (DefaultBPMLow, DefaultBPMHigh).
func (t MusicTrack) BPMRange() (int, int) {
	raw := strings.TrimSpace(t.BPM)

	if strings.Contains(raw, "-") {
		parts := strings.SplitN(raw, "-", 2)
		low, errLow := strconv.Atoi(strings.TrimSpace(parts[0]))
		high, errHigh := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errLow != nil || errHigh != nil {
			return DefaultBPMLow, DefaultBPMHigh
		}
		return low, high
	}

	b, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultBPMLow, DefaultBPMHigh
	}
	return b - 5, b + 5
}

// DirName returns the on-disk directory name for this category:
// lowercased, spaces replaced with underscores, ampersands spelled
// out.
func (c EffectCategory) DirName() string {
	name := strings.ToLower(c.Name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "&", "and")
	return name
}
