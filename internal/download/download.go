// Package download retrieves sound previews and stores them on disk
// together with JSON metadata sidecars.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rifaterdemsahin/soundcue/internal/filesystem"
	"github.com/rifaterdemsahin/soundcue/internal/freesound"
)

// maxNameLen caps the sound-name fragment embedded in filenames.
const maxNameLen = 50

// PreviewFetcher retrieves preview audio for a sound.
type PreviewFetcher interface {
	FetchPreview(ctx context.Context, s freesound.Sound) ([]byte, error)
}

// Metadata is the sidecar record written next to each downloaded
// preview.
type Metadata struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Duration    float64  `json:"duration"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Username    string   `json:"username"`
	License     string   `json:"license"`
	URL         string   `json:"url"`
	AvgRating   float64  `json:"avg_rating"`
	NumRatings  int      `json:"num_ratings"`
	Filename    string   `json:"filename"`
}

// Downloader fetches previews and writes them atomically with their
// metadata sidecars.
type Downloader struct {
	fetcher PreviewFetcher
	logger  *slog.Logger
}

// New creates a Downloader.
func New(fetcher PreviewFetcher, logger *slog.Logger) *Downloader {
	return &Downloader{
		fetcher: fetcher,
		logger:  logger.With(slog.String("component", "download")),
	}
}

// Save fetches the sound's preview and writes it under dir as
// <prefix>_<id>_<safe name>.mp3 plus a <filename>.json sidecar.
// It returns the audio filename written.
func (d *Downloader) Save(ctx context.Context, s freesound.Sound, dir, prefix string) (string, error) {
	data, err := d.fetcher.FetchPreview(ctx, s)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%d_%s.mp3", prefix, s.ID, SafeName(s.Name, maxNameLen))
	path := filepath.Join(dir, name)
	if err := filesystem.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing preview: %w", err)
	}

	meta := Metadata{
		ID:          s.ID,
		Name:        s.Name,
		Duration:    s.Duration,
		Tags:        s.Tags,
		Description: s.Description,
		Username:    s.Username,
		License:     s.License,
		URL:         s.URL,
		AvgRating:   s.AvgRating,
		NumRatings:  s.NumRatings,
		Filename:    name,
	}
	sidecar, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	if err := filesystem.WriteFileAtomic(path+".json", sidecar, 0o644); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	d.logger.Info("saved preview",
		slog.String("file", name),
		slog.Int("size_kb", len(data)/1024))

	return name, nil
}
