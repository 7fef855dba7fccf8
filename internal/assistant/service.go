// Package assistant orchestrates the cue sheet pipeline: parse
// requirements, search for candidates, score and select them, then
// download the winners and write scoring reports. Each requirement is
// processed independently; no failure halts the run.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rifaterdemsahin/soundcue/internal/catalog"
	"github.com/rifaterdemsahin/soundcue/internal/download"
	"github.com/rifaterdemsahin/soundcue/internal/filesystem"
	"github.com/rifaterdemsahin/soundcue/internal/freesound"
	"github.com/rifaterdemsahin/soundcue/internal/requirement"
	"github.com/rifaterdemsahin/soundcue/internal/scoring"
)

// Output subdirectories.
const (
	musicDirName = "music_tracks"
	sfxDirName   = "sound_effects"
)

// Searcher is the search collaborator. A failed search and an empty
// result page are treated identically as "no candidates".
type Searcher interface {
	SearchText(ctx context.Context, query, filter string, pageSize int) ([]freesound.Sound, error)
}

// Saver stores one sound preview on disk and returns the filename
// written.
type Saver interface {
	Save(ctx context.Context, s freesound.Sound, dir, prefix string) (string, error)
}

// Recorder persists run history.
type Recorder interface {
	BeginRun(ctx context.Context, document string) (string, error)
	FinishRun(ctx context.Context, runID string, tracks, effects, downloads int) error
	RecordDownload(ctx context.Context, d catalog.Download) error
}

// Options configures a pipeline run.
type Options struct {
	DocumentPath       string
	OutputDir          string
	MusicTopN          int // previews downloaded per track
	EffectTopN         int // previews downloaded per effect
	MusicPageSize      int
	EffectPageSize     int
	EffectsPerCategory int // effects processed per category
}

// DefaultOptions returns the options used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		MusicTopN:          3,
		EffectTopN:         2,
		MusicPageSize:      20,
		EffectPageSize:     10,
		EffectsPerCategory: 5,
	}
}

// Summary totals one pipeline run.
type Summary struct {
	RunID      string
	Tracks     int
	Categories int
	Downloads  int
	MusicFiles int
	MusicBytes int64
	SFXFiles   int
	SFXBytes   int64
}

// Service runs the pipeline.
type Service struct {
	searcher Searcher
	saver    Saver
	recorder Recorder
	logger   *slog.Logger
	opts     Options
}

// NewService creates the pipeline service. Zero option fields fall
// back to DefaultOptions values.
func NewService(searcher Searcher, saver Saver, recorder Recorder, logger *slog.Logger, opts Options) *Service {
	def := DefaultOptions()
	if opts.MusicTopN <= 0 {
		opts.MusicTopN = def.MusicTopN
	}
	if opts.EffectTopN <= 0 {
		opts.EffectTopN = def.EffectTopN
	}
	if opts.MusicPageSize <= 0 {
		opts.MusicPageSize = def.MusicPageSize
	}
	if opts.EffectPageSize <= 0 {
		opts.EffectPageSize = def.EffectPageSize
	}
	if opts.EffectsPerCategory <= 0 {
		opts.EffectsPerCategory = def.EffectsPerCategory
	}
	return &Service{
		searcher: searcher,
		saver:    saver,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "assistant")),
		opts:     opts,
	}
}

// Run executes one full pipeline pass: music tracks, then sound
// effects, then a summary. A missing cue sheet yields an empty run,
// not an error.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	content := s.readDocument()

	parser := requirement.Parser{
		Diagnose: func(d requirement.Diagnostic) {
			s.logger.Debug("skipped cue sheet block",
				slog.Int("line", d.Line),
				slog.String("reason", d.Reason))
		},
	}
	tracks := parser.ParseMusic(content)
	categories := parser.ParseEffects(content)

	runID, err := s.recorder.BeginRun(ctx, s.opts.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}

	s.logger.Info("cue sheet parsed",
		slog.Int("tracks", len(tracks)),
		slog.Int("categories", len(categories)))

	downloads := s.processTracks(ctx, runID, tracks)
	downloads += s.processEffects(ctx, runID, categories)

	if err := s.recorder.FinishRun(ctx, runID, len(tracks), len(categories), downloads); err != nil {
		s.logger.Warn("recording run finish failed", "error", err)
	}

	summary := &Summary{
		RunID:      runID,
		Tracks:     len(tracks),
		Categories: len(categories),
		Downloads:  downloads,
	}
	summary.MusicFiles, summary.MusicBytes = countAudio(filepath.Join(s.opts.OutputDir, musicDirName))
	summary.SFXFiles, summary.SFXBytes = countAudio(filepath.Join(s.opts.OutputDir, sfxDirName))

	s.logger.Info("run complete",
		slog.String("run_id", runID),
		slog.Int("downloads", downloads),
		slog.Int("music_files", summary.MusicFiles),
		slog.Int64("music_bytes", summary.MusicBytes),
		slog.Int("sfx_files", summary.SFXFiles),
		slog.Int64("sfx_bytes", summary.SFXBytes))

	return summary, nil
}

// readDocument loads the cue sheet text. A missing document is a
// recoverable condition reported as zero requirements.
func (s *Service) readDocument() string {
	data, err := os.ReadFile(s.opts.DocumentPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("cue sheet not found", slog.String("path", s.opts.DocumentPath))
		} else {
			s.logger.Warn("reading cue sheet failed",
				slog.String("path", s.opts.DocumentPath), "error", err)
		}
		return ""
	}
	return string(data)
}

// processTracks searches, scores, selects, and downloads for each
// music track. Returns the number of previews saved.
func (s *Service) processTracks(ctx context.Context, runID string, tracks []requirement.MusicTrack) int {
	musicDir := filepath.Join(s.opts.OutputDir, musicDirName)
	saved := 0

	for _, track := range tracks {
		query := track.SearchQuery()
		filter := track.SearchFilter()

		s.logger.Info("processing track",
			slog.Int("track", track.TrackNumber),
			slog.String("title", track.Title),
			slog.String("query", query),
			slog.String("filter", filter))

		sounds := s.search(ctx, query, filter, s.opts.MusicPageSize)
		scored := scoring.ScoreMusic(track, candidates(sounds))
		top := scoring.SelectTopN(scored, s.opts.MusicTopN)

		report := scoring.NewTrackReport(track, query, top)
		reportName := fmt.Sprintf("track%02d_scoring_report.json", track.TrackNumber)
		s.writeReport(filepath.Join(musicDir, reportName), report)

		if len(top) == 0 {
			s.logger.Info("no candidates for track", slog.Int("track", track.TrackNumber))
			continue
		}

		byID := soundsByID(sounds)
		label := fmt.Sprintf("Track %d: %s", track.TrackNumber, track.Title)
		for i, match := range top {
			prefix := fmt.Sprintf("track%02d_match%d", track.TrackNumber, i+1)
			if s.saveMatch(ctx, runID, "music", label, byID[match.Candidate.ID], match, i+1, musicDir, prefix) {
				saved++
			}
		}
	}
	return saved
}

// processEffects searches, scores, selects, and downloads for each
// effect in each category. Returns the number of previews saved.
func (s *Service) processEffects(ctx context.Context, runID string, categories []requirement.EffectCategory) int {
	saved := 0

	for _, cat := range categories {
		categoryDir := filepath.Join(s.opts.OutputDir, sfxDirName, cat.DirName())

		effects := cat.Effects
		if len(effects) > s.opts.EffectsPerCategory {
			effects = effects[:s.opts.EffectsPerCategory]
		}

		for _, effect := range effects {
			s.logger.Info("processing effect",
				slog.String("category", cat.Name),
				slog.String("effect", effect))

			sounds := s.search(ctx, effect, "", s.opts.EffectPageSize)
			scored := scoring.ScoreEffect(effect, candidates(sounds))
			top := scoring.SelectTopN(scored, s.opts.EffectTopN)

			safeEffect := safeEffectName(effect)
			report := scoring.NewEffectReport(cat.Name, effect, effect, top)
			reportName := fmt.Sprintf("sfx_%s_scoring_report.json", safeEffect)
			s.writeReport(filepath.Join(categoryDir, reportName), report)

			if len(top) == 0 {
				s.logger.Info("no candidates for effect", slog.String("effect", effect))
				continue
			}

			byID := soundsByID(sounds)
			label := fmt.Sprintf("%s: %s", cat.Name, effect)
			for i, match := range top {
				prefix := fmt.Sprintf("sfx_%s_match%d", safeEffect, i+1)
				if s.saveMatch(ctx, runID, "sfx", label, byID[match.Candidate.ID], match, i+1, categoryDir, prefix) {
					saved++
				}
			}
		}
	}
	return saved
}

// search asks the collaborator for candidates. Errors are logged and
// reported as an empty result; the pipeline never distinguishes a
// failed search from one with no matches.
func (s *Service) search(ctx context.Context, query, filter string, pageSize int) []freesound.Sound {
	sounds, err := s.searcher.SearchText(ctx, query, filter, pageSize)
	if err != nil {
		s.logger.Warn("search failed, continuing without candidates",
			slog.String("query", query), "error", err)
		return nil
	}
	return sounds
}

// saveMatch downloads one selected preview and records it. Failures
// are logged per item and never abort the run.
func (s *Service) saveMatch(ctx context.Context, runID, kind, label string, sound freesound.Sound, match scoring.ScoredCandidate, rank int, dir, prefix string) bool {
	name, err := s.saver.Save(ctx, sound, dir, prefix)
	if err != nil {
		s.logger.Warn("download failed",
			slog.Int64("sound_id", sound.ID),
			slog.String("name", sound.Name),
			"error", err)
		return false
	}

	err = s.recorder.RecordDownload(ctx, catalog.Download{
		RunID:       runID,
		Kind:        kind,
		Requirement: label,
		SoundID:     sound.ID,
		Name:        sound.Name,
		Score:       match.Score,
		Rank:        rank,
		License:     sound.License,
		FilePath:    filepath.Join(dir, name),
	})
	if err != nil {
		s.logger.Warn("recording download failed", "error", err)
	}
	return true
}

// writeReport serializes a scoring report as indented JSON and writes
// it atomically.
func (s *Service) writeReport(path string, report any) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		s.logger.Warn("encoding report failed", slog.String("path", path), "error", err)
		return
	}
	if err := filesystem.WriteFileAtomic(path, data, 0o644); err != nil {
		s.logger.Warn("writing report failed", slog.String("path", path), "error", err)
	}
}

// candidates converts search results into the scorer's form.
func candidates(sounds []freesound.Sound) []scoring.Candidate {
	cs := make([]scoring.Candidate, len(sounds))
	for i, snd := range sounds {
		cs[i] = snd.Candidate()
	}
	return cs
}

// soundsByID indexes a result page by sound ID so selected candidates
// can be mapped back to their preview URLs.
func soundsByID(sounds []freesound.Sound) map[int64]freesound.Sound {
	m := make(map[int64]freesound.Sound, len(sounds))
	for _, snd := range sounds {
		m[snd.ID] = snd
	}
	return m
}

// safeEffectName derives the filename fragment for an effect.
func safeEffectName(effect string) string {
	return download.SafeName(effect, 30)
}

// countAudio walks dir counting mp3 files and their total size.
func countAudio(dir string) (int, int64) {
	files := 0
	var bytes int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".mp3") {
			return nil //nolint:nilerr // a missing output dir just counts as zero
		}
		if info, infoErr := d.Info(); infoErr == nil {
			files++
			bytes += info.Size()
		}
		return nil
	})
	return files, bytes
}
