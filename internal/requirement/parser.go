package requirement

import (
	"fmt"
	"strconv"
	"strings"
)

// Cue sheet structure markers.
const (
	trackPrefix     = "### Track "
	effectsHeading  = "## Sound Effects Library"
	categoryPrefix  = "### "
	checklistPrefix = "- [ ] "
)

// trackLabels are the labeled lines every track block must carry,
// in this exact order. Blocks that deviate are skipped.
var trackLabels = []string{
	"**Time:**",
	"- **Genre:**",
	"- **Mood:**",
	"- **BPM:**",
	"- **Instruments:**",
}

// Diagnostic describes a cue sheet block the parser skipped.
type Diagnostic struct {
	Line   int
	Reason string
}

// Parser extracts requirements from cue sheet text. The zero value is
// ready to use. Parsing is best-effort: malformed blocks are dropped
// rather than failing the whole document.
type Parser struct {
	// Diagnose, when non-nil, is called once for each skipped block.
	Diagnose func(Diagnostic)
}

// ParseMusic extracts music track requirements in document order.
// A block whose heading or labeled lines do not match the expected
// shape contributes nothing and raises no error.
func (p *Parser) ParseMusic(content string) []MusicTrack {
	lines := splitLines(content)

	var tracks []MusicTrack
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], trackPrefix) {
			continue
		}
		track, ok := p.parseTrackBlock(lines, i)
		if ok {
			tracks = append(tracks, track)
			i += len(trackLabels)
		}
	}
	return tracks
}

// ParseEffects extracts sound-effect categories from the
// "## Sound Effects Library" section, preserving category and effect
// order. A document without the section yields nil.
func (p *Parser) ParseEffects(content string) []EffectCategory {
	lines := splitLines(content)

	start := -1
	for i, line := range lines {
		if line == effectsHeading {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	// The section runs until the next top-level heading.
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") && !strings.HasPrefix(lines[i], categoryPrefix) {
			end = i
			break
		}
	}

	var categories []EffectCategory
	for i := start; i < end; i++ {
		if !strings.HasPrefix(lines[i], categoryPrefix) {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(lines[i], categoryPrefix))

		var effects []string
		j := i + 1
		for ; j < end; j++ {
			if !strings.HasPrefix(lines[j], checklistPrefix) {
				break
			}
			effects = append(effects, strings.TrimSpace(strings.TrimPrefix(lines[j], checklistPrefix)))
		}
		if len(effects) == 0 {
			p.skip(i+1, "category has no checklist entries")
			continue
		}
		categories = append(categories, EffectCategory{Name: name, Effects: effects})
		i = j - 1
	}
	return categories
}

// parseTrackBlock parses the heading at lines[start] plus the labeled
// lines that must immediately follow it.
func (p *Parser) parseTrackBlock(lines []string, start int) (MusicTrack, bool) {
	rest := strings.TrimPrefix(lines[start], trackPrefix)
	colon := strings.Index(rest, ":")
	if colon < 0 {
		p.skip(start+1, "track heading missing title separator")
		return MusicTrack{}, false
	}
	num, err := strconv.Atoi(strings.TrimSpace(rest[:colon]))
	if err != nil || num <= 0 {
		p.skip(start+1, "track heading has no numeric index")
		return MusicTrack{}, false
	}

	values := make([]string, len(trackLabels))
	for j, label := range trackLabels {
		idx := start + 1 + j
		if idx >= len(lines) {
			p.skip(idx, "track block truncated")
			return MusicTrack{}, false
		}
		if !strings.HasPrefix(lines[idx], label) {
			p.skip(idx+1, fmt.Sprintf("expected %s line", label))
			return MusicTrack{}, false
		}
		values[j] = strings.TrimSpace(strings.TrimPrefix(lines[idx], label))
	}

	track := MusicTrack{
		TrackNumber: num,
		Title:       strings.TrimSpace(rest[colon+1:]),
		TimeRange:   values[0],
		Genre:       values[1],
		Mood:        values[2],
		BPM:         values[3],
		Instruments: values[4],
	}
	track.TargetDuration = durationFromRange(track.TimeRange)
	return track, true
}

func (p *Parser) skip(line int, reason string) {
	if p.Diagnose != nil {
		p.Diagnose(Diagnostic{Line: line, Reason: reason})
	}
}

// durationFromRange computes end minus start, in seconds, from a
// "HH:MM:SS - HH:MM:SS" range. Any shape it cannot decompose falls
// back to DefaultDuration. Ranges whose end precedes their start
// produce negative durations and are passed through untouched.
func durationFromRange(timeRange string) int {
	parts := strings.Split(timeRange, " - ")
	if len(parts) != 2 {
		return DefaultDuration
	}
	start, okStart := clockSeconds(parts[0])
	end, okEnd := clockSeconds(parts[1])
	if !okStart || !okEnd {
		return DefaultDuration
	}
	return end - start
}

// clockSeconds converts an "HH:MM:SS" clock string to total seconds.
func clockSeconds(clock string) (int, bool) {
	fields := strings.Split(strings.TrimSpace(clock), ":")
	if len(fields) != 3 {
		return 0, false
	}
	total := 0
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// splitLines splits document text into lines with trailing carriage
// returns removed.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
