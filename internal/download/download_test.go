package download

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rifaterdemsahin/soundcue/internal/freesound"
)

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) FetchPreview(_ context.Context, _ freesound.Sound) ([]byte, error) {
	return f.data, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	audio := []byte("fake mp3 bytes")
	d := New(&fakeFetcher{data: audio}, testLogger())

	s := freesound.Sound{
		ID:          412345,
		Name:        "Epic Orchestral Strings",
		Duration:    32.4,
		Tags:        []string{"epic", "orchestral"},
		Description: "A short orchestral swell.",
		Username:    "orchestralist",
		License:     "Creative Commons 0",
		URL:         "https://freesound.org/s/412345/",
		AvgRating:   4.5,
		NumRatings:  20,
	}

	name, err := d.Save(context.Background(), s, dir, "track01_match1")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	want := "track01_match1_412345_Epic_Orchestral_Strings.mp3"
	if name != want {
		t.Errorf("Save() = %q, want %q", name, want)
	}

	got, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading audio file: %v", err)
	}
	if string(got) != string(audio) {
		t.Errorf("unexpected audio contents %q", got)
	}

	sidecar, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	var meta Metadata
	if err := json.Unmarshal(sidecar, &meta); err != nil {
		t.Fatalf("parsing sidecar: %v", err)
	}
	if meta.ID != 412345 || meta.Name != "Epic Orchestral Strings" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Filename != name {
		t.Errorf("expected filename %q in sidecar, got %q", name, meta.Filename)
	}
	if meta.License != "Creative Commons 0" || meta.Username != "orchestralist" {
		t.Errorf("unexpected metadata %+v", meta)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sound_effects", "ui_sounds")
	d := New(&fakeFetcher{data: []byte("x")}, testLogger())

	name, err := d.Save(context.Background(), freesound.Sound{ID: 1, Name: "click"}, dir, "sfx_click_match1")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Errorf("expected audio file to exist: %v", err)
	}
}

func TestSaveFetchError(t *testing.T) {
	dir := t.TempDir()
	fetchErr := errors.New("network down")
	d := New(&fakeFetcher{err: fetchErr}, testLogger())

	_, err := d.Save(context.Background(), freesound.Sound{ID: 1, Name: "click"}, dir, "p")
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files after failed fetch, found %d", len(entries))
	}
}

func TestSaveTruncatesLongNames(t *testing.T) {
	dir := t.TempDir()
	d := New(&fakeFetcher{data: []byte("x")}, testLogger())

	long := "This Is An Extremely Long Sound Name That Goes On And On Well Past Any Reasonable Length"
	name, err := d.Save(context.Background(), freesound.Sound{ID: 7, Name: long}, dir, "p")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	// prefix + "_7_" + 50 runes + ".mp3"
	if len(name) > len("p_7_")+maxNameLen+len(".mp3") {
		t.Errorf("filename %q exceeds the name cap", name)
	}
}
