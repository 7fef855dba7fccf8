package catalog

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog", "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return c
}

func TestRunLifecycle(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	runID, err := c.BeginRun(ctx, "input/source_music.md")
	if err != nil {
		t.Fatalf("BeginRun() error: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a non-empty run ID")
	}

	run, err := c.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if run == nil {
		t.Fatal("expected the run to exist")
	}
	if run.Document != "input/source_music.md" {
		t.Errorf("unexpected document %q", run.Document)
	}
	if run.FinishedAt != nil {
		t.Error("expected an unfinished run")
	}

	if err := c.FinishRun(ctx, runID, 5, 3, 12); err != nil {
		t.Fatalf("FinishRun() error: %v", err)
	}

	run, err = c.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("GetRun() after finish error: %v", err)
	}
	if run.FinishedAt == nil {
		t.Error("expected a finish timestamp")
	}
	if run.Tracks != 5 || run.Effects != 3 || run.Downloads != 12 {
		t.Errorf("unexpected counts: %d tracks, %d effects, %d downloads",
			run.Tracks, run.Effects, run.Downloads)
	}
}

func TestGetRunUnknown(t *testing.T) {
	c := openTestCatalog(t)

	run, err := c.GetRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil for unknown run, got %+v", run)
	}
}

func TestRecordAndListDownloads(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	runID, err := c.BeginRun(ctx, "doc.md")
	if err != nil {
		t.Fatalf("BeginRun() error: %v", err)
	}

	first := Download{
		RunID:       runID,
		Kind:        "music",
		Requirement: "Track 1: Opening Title",
		SoundID:     412345,
		Name:        "Epic Orchestral Strings",
		Score:       36,
		Rank:        1,
		License:     "Creative Commons 0",
		FilePath:    "output/music_tracks/track01_match1_412345_Epic_Orchestral_Strings.mp3",
	}
	second := Download{
		RunID:       runID,
		Kind:        "sfx",
		Requirement: "Impacts & Hits: glass break",
		SoundID:     567890,
		Name:        "Glass Shattering Sound",
		Score:       20,
		Rank:        1,
		FilePath:    "output/sound_effects/impacts_and_hits/sfx_glass_break_match1_567890_Glass_Shattering_Sound.mp3",
	}

	if err := c.RecordDownload(ctx, first); err != nil {
		t.Fatalf("RecordDownload() error: %v", err)
	}
	if err := c.RecordDownload(ctx, second); err != nil {
		t.Fatalf("RecordDownload() error: %v", err)
	}

	downloads, err := c.RunDownloads(ctx, runID)
	if err != nil {
		t.Fatalf("RunDownloads() error: %v", err)
	}
	if len(downloads) != 2 {
		t.Fatalf("expected 2 downloads, got %d", len(downloads))
	}
	if downloads[0].SoundID != 412345 || downloads[1].SoundID != 567890 {
		t.Errorf("unexpected download order: %d, %d", downloads[0].SoundID, downloads[1].SoundID)
	}
	if downloads[0].Kind != "music" || downloads[1].Kind != "sfx" {
		t.Errorf("unexpected kinds: %q, %q", downloads[0].Kind, downloads[1].Kind)
	}
	if downloads[0].Score != 36 {
		t.Errorf("expected score 36, got %v", downloads[0].Score)
	}
}

func TestRunDownloadsIsolatedByRun(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	firstRun, err := c.BeginRun(ctx, "doc.md")
	if err != nil {
		t.Fatalf("BeginRun() error: %v", err)
	}
	secondRun, err := c.BeginRun(ctx, "doc.md")
	if err != nil {
		t.Fatalf("BeginRun() error: %v", err)
	}

	d := Download{RunID: firstRun, Kind: "music", Requirement: "Track 1", SoundID: 1, Name: "a", Score: 1, Rank: 1, FilePath: "a.mp3"}
	if err := c.RecordDownload(ctx, d); err != nil {
		t.Fatalf("RecordDownload() error: %v", err)
	}

	downloads, err := c.RunDownloads(ctx, secondRun)
	if err != nil {
		t.Fatalf("RunDownloads() error: %v", err)
	}
	if len(downloads) != 0 {
		t.Errorf("expected no downloads for the second run, got %d", len(downloads))
	}
}

func TestDistinctRunIDs(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	a, err := c.BeginRun(ctx, "doc.md")
	if err != nil {
		t.Fatalf("BeginRun() error: %v", err)
	}
	b, err := c.BeginRun(ctx, "doc.md")
	if err != nil {
		t.Fatalf("BeginRun() error: %v", err)
	}
	if a == b {
		t.Errorf("expected distinct run IDs, both %q", a)
	}
}
