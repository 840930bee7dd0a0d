package catalog

import (
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/claude/liftlog/internal/config"
)

const queryExercisesJSON = `[
  {"id": "bench-press", "name": "Barbell Bench Press", "equipments": ["barbell"], "targetMuscles": ["pectorals"], "bodyParts": ["chest"], "secondaryMuscles": ["triceps"], "instructions": []},
  {"id": "incline-press", "name": "Incline Dumbbell Press", "equipments": ["dumbbell"], "targetMuscles": ["pectorals"], "bodyParts": ["chest"], "secondaryMuscles": ["delts"], "instructions": []},
  {"id": "leg-press", "name": "Sled Leg Press", "equipments": ["sled machine"], "targetMuscles": ["quads"], "bodyParts": ["upper legs"], "secondaryMuscles": ["glutes"], "instructions": []},
  {"id": "lat-pulldown", "name": "Cable Lat Pulldown", "equipments": ["cable"], "targetMuscles": ["lats"], "bodyParts": ["back"], "secondaryMuscles": ["biceps"], "instructions": []},
  {"id": "squat", "name": "Barbell Squat", "equipments": ["barbell"], "targetMuscles": ["quads"], "bodyParts": ["upper legs"], "secondaryMuscles": ["glutes", "spinal erectors"], "instructions": []}
]`

func testEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	fsys := fstest.MapFS{"exercises.json": {Data: []byte(queryExercisesJSON)}}
	loader := NewLoader(fsys, discard())
	return NewEngine(loader, config.QueryConfig{SearchThreshold: 0.4, PageSize: 20}, discard(), opts...)
}

func ids(p Page) []string {
	out := make([]string, len(p.Exercises))
	for i, e := range p.Exercises {
		out[i] = e.ID
	}
	return out
}

// TestSearchExactName verifies that an exact name match is the only and
// highest-ranked result for a specific query.
func TestSearchExactName(t *testing.T) {
	p := testEngine(t).Find(Query{Search: "bench press"})
	if p.TotalExercises != 1 {
		t.Fatalf("TotalExercises = %d, want 1; got %v", p.TotalExercises, ids(p))
	}
	if p.Exercises[0].ID != "bench-press" {
		t.Errorf("top result = %q, want bench-press", p.Exercises[0].ID)
	}
}

// TestSearchFuzzyTypo verifies that a misspelled query still finds its
// target via edit distance.
func TestSearchFuzzyTypo(t *testing.T) {
	p := testEngine(t).Find(Query{Search: "lat puldown"})
	got := ids(p)
	if len(got) == 0 || got[0] != "lat-pulldown" {
		t.Errorf("results = %v, want lat-pulldown first", got)
	}
}

// TestSearchByMuscle verifies that a muscle-name query matches through the
// weighted field set, with dataset order preserved among equal scores.
func TestSearchByMuscle(t *testing.T) {
	p := testEngine(t).Find(Query{Search: "quads"})
	got := ids(p)
	want := []string{"leg-press", "squat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("results = %v, want %v", got, want)
	}
}

// TestSearchThreshold verifies that a stricter threshold drops approximate
// matches that the default admits.
func TestSearchThreshold(t *testing.T) {
	e := testEngine(t)

	loose := e.Find(Query{Search: "lat puldown"})
	if loose.TotalExercises == 0 {
		t.Fatal("default threshold should admit the typo match")
	}

	strict := e.Find(Query{Search: "lat puldown", SearchThreshold: 0.05})
	if strict.TotalExercises != 0 {
		t.Errorf("threshold 0.05 admitted %v, want none", ids(strict))
	}
}

// TestNameOnlyFallback verifies the degraded search mode: substring match on
// name only. Its result set differs from fuzzy mode: a muscle query finds
// nothing.
func TestNameOnlyFallback(t *testing.T) {
	e := testEngine(t, WithNameOnlySearch())

	p := e.Find(Query{Search: "press"})
	want := []string{"bench-press", "incline-press", "leg-press"}
	if !reflect.DeepEqual(ids(p), want) {
		t.Errorf("name-only 'press' = %v, want %v", ids(p), want)
	}

	if p := e.Find(Query{Search: "quads"}); p.TotalExercises != 0 {
		t.Errorf("name-only 'quads' = %v, want none", ids(p))
	}
}

// TestFacetFilters verifies AND composition across facets and OR within a
// facet's candidate list.
func TestFacetFilters(t *testing.T) {
	e := testEngine(t)

	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{
			name: "single facet",
			q:    Query{TargetMuscles: []string{"pectorals"}},
			want: []string{"bench-press", "incline-press"},
		},
		{
			name: "AND across facets",
			q:    Query{Equipments: []string{"barbell"}, TargetMuscles: []string{"quads"}},
			want: []string{"squat"},
		},
		{
			name: "OR within a facet",
			q:    Query{Equipments: []string{"cable", "sled machine"}},
			want: []string{"leg-press", "lat-pulldown"},
		},
		{
			name: "body part plus equipment",
			q:    Query{BodyParts: []string{"chest"}, Equipments: []string{"dumbbell"}},
			want: []string{"incline-press"},
		},
		{
			name: "no overlap",
			q:    Query{BodyParts: []string{"back"}, Equipments: []string{"barbell"}},
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(e.Find(tc.q))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("results = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestSort verifies stable sorting by name in both directions and that an
// unknown sort field leaves dataset order untouched.
func TestSort(t *testing.T) {
	e := testEngine(t)

	asc := ids(e.Find(Query{Sort: &Sort{Field: "name", Direction: Ascending}}))
	wantAsc := []string{"bench-press", "squat", "lat-pulldown", "incline-press", "leg-press"}
	if !reflect.DeepEqual(asc, wantAsc) {
		t.Errorf("asc = %v, want %v", asc, wantAsc)
	}

	desc := ids(e.Find(Query{Sort: &Sort{Field: "name", Direction: Descending}}))
	wantDesc := []string{"leg-press", "incline-press", "lat-pulldown", "squat", "bench-press"}
	if !reflect.DeepEqual(desc, wantDesc) {
		t.Errorf("desc = %v, want %v", desc, wantDesc)
	}

	unknown := ids(e.Find(Query{Sort: &Sort{Field: "difficulty", Direction: Ascending}}))
	wantOrig := []string{"bench-press", "incline-press", "leg-press", "lat-pulldown", "squat"}
	if !reflect.DeepEqual(unknown, wantOrig) {
		t.Errorf("unknown field = %v, want dataset order %v", unknown, wantOrig)
	}
}

// TestPagination verifies the page-slicing arithmetic: slice lengths sum to
// the filtered total and the counts follow ceil division.
func TestPagination(t *testing.T) {
	e := testEngine(t)

	var seen int
	for offset := 0; ; offset += 2 {
		p := e.Find(Query{Offset: offset, Limit: 2})
		if p.TotalExercises != 5 {
			t.Fatalf("TotalExercises = %d, want 5", p.TotalExercises)
		}
		if p.TotalPages != 3 {
			t.Fatalf("TotalPages = %d, want 3", p.TotalPages)
		}
		if wantPage := offset/2 + 1; p.CurrentPage != wantPage {
			t.Errorf("CurrentPage = %d, want %d", p.CurrentPage, wantPage)
		}
		if len(p.Exercises) == 0 {
			break
		}
		seen += len(p.Exercises)
	}
	if seen != 5 {
		t.Errorf("sum of page lengths = %d, want 5", seen)
	}
}

// TestPaginationEdges verifies the defined behavior for out-of-range and
// degenerate inputs: empty slices, never errors.
func TestPaginationEdges(t *testing.T) {
	e := testEngine(t)

	if p := e.Find(Query{Offset: 100}); len(p.Exercises) != 0 || p.TotalExercises != 5 {
		t.Errorf("offset beyond range: %d results, total %d; want 0 and 5", len(p.Exercises), p.TotalExercises)
	}

	if p := e.Find(Query{Limit: -1}); len(p.Exercises) != 0 || p.TotalPages != 0 {
		t.Errorf("negative limit: %d results, %d pages; want 0 and 0", len(p.Exercises), p.TotalPages)
	}

	// Zero limit means unset and falls back to the engine default.
	if p := e.Find(Query{}); len(p.Exercises) != 5 || p.TotalPages != 1 {
		t.Errorf("default limit: %d results, %d pages; want 5 and 1", len(p.Exercises), p.TotalPages)
	}
}

// TestFindDeterministic verifies identical output for identical input.
func TestFindDeterministic(t *testing.T) {
	e := testEngine(t)
	q := Query{Search: "press", TargetMuscles: []string{"pectorals"}, Sort: &Sort{Field: "name", Direction: Ascending}}
	first := e.Find(q)
	second := e.Find(q)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same query produced different pages:\n%v\n%v", first, second)
	}
}

// TestDatasetUnavailable verifies the empty-page policy when the dataset
// cannot be loaded.
func TestDatasetUnavailable(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, discard())
	e := NewEngine(loader, config.QueryConfig{}, discard())
	p := e.Find(Query{Search: "bench"})
	if len(p.Exercises) != 0 || p.TotalExercises != 0 {
		t.Errorf("unavailable dataset: %d results, total %d; want empty page", len(p.Exercises), p.TotalExercises)
	}
}

// TestGet verifies single-record lookup by ID.
func TestGet(t *testing.T) {
	e := testEngine(t)
	rec, ok := e.Get("squat")
	if !ok || rec.Name != "Barbell Squat" {
		t.Errorf("Get(squat) = %v, %v", rec, ok)
	}
	if _, ok := e.Get("nonexistent"); ok {
		t.Error("Get(nonexistent) should report false")
	}
}
