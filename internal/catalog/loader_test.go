package catalog

import (
	"io"
	"log/slog"
	"testing"
	"testing/fstest"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const exercisesJSON = `[
  {"id": "leg-press", "name": "Sled 45° Leg Press", "equipments": ["sled machine"], "targetMuscles": ["quads"], "bodyParts": ["upper legs"], "secondaryMuscles": ["glutes"], "instructions": []},
  {"id": "", "name": "Nameless Machine", "equipments": [], "targetMuscles": [], "bodyParts": [], "secondaryMuscles": [], "instructions": []},
  {"id": "chest-press", "name": "Lever Chest Press", "equipments": ["leverage machine"], "targetMuscles": ["pectorals"], "bodyParts": ["chest"], "secondaryMuscles": ["triceps"], "instructions": []}
]`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"exercises.json":  {Data: []byte(exercisesJSON)},
		"equipments.json": {Data: []byte(`[{"name": "barbell"}, {"name": ""}, {"name": "cable"}]`)},
		"bodyparts.json":  {Data: []byte(`[{"name": "chest"}]`)},
		"muscles.json":    {Data: []byte(`[{"name": "quads"}, {"name": "pectorals"}]`)},
	}
}

// TestExercisesFiltersMalformed verifies that records missing required
// fields are dropped at the load boundary rather than crashing consumers.
func TestExercisesFiltersMalformed(t *testing.T) {
	l := NewLoader(testFS(), discard())
	records, err := l.Exercises()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (malformed dropped)", len(records))
	}
	if records[0].ID != "leg-press" || records[1].ID != "chest-press" {
		t.Errorf("unexpected record order: %q, %q", records[0].ID, records[1].ID)
	}
}

// TestExercisesCached verifies the write-once cache: after the first load the
// underlying file is never read again.
func TestExercisesCached(t *testing.T) {
	fsys := testFS()
	l := NewLoader(fsys, discard())
	if _, err := l.Exercises(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Corrupt the backing file; the cached value must survive.
	fsys["exercises.json"].Data = []byte("not json")
	records, err := l.Exercises()
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records from cache, want 2", len(records))
	}
}

// TestLoadFailureNotCached verifies that a failed load is retried rather than
// poisoning the cache.
func TestLoadFailureNotCached(t *testing.T) {
	fsys := testFS()
	fsys["exercises.json"].Data = []byte("not json")
	l := NewLoader(fsys, discard())

	if _, err := l.Exercises(); err == nil {
		t.Fatal("expected parse error, got nil")
	}

	fsys["exercises.json"].Data = []byte(exercisesJSON)
	records, err := l.Exercises()
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records after retry, want 2", len(records))
	}
}

// TestMissingResource verifies that an absent dataset file is a wrapped
// error, not a panic.
func TestMissingResource(t *testing.T) {
	l := NewLoader(fstest.MapFS{}, discard())
	if _, err := l.Exercises(); err == nil {
		t.Error("expected error for missing exercises.json")
	}
	if _, err := l.Equipments(); err == nil {
		t.Error("expected error for missing equipments.json")
	}
}

// TestFacetNames verifies the facet listings and that unnamed entries are
// filtered.
func TestFacetNames(t *testing.T) {
	l := NewLoader(testFS(), discard())

	equipments, err := l.Equipments()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(equipments) != 2 || equipments[0] != "barbell" || equipments[1] != "cable" {
		t.Errorf("equipments = %v, want [barbell cable]", equipments)
	}

	muscles, err := l.Muscles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(muscles) != 2 {
		t.Errorf("muscles = %v, want 2 entries", muscles)
	}

	parts, err := l.BodyParts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 1 || parts[0] != "chest" {
		t.Errorf("bodyparts = %v, want [chest]", parts)
	}
}
