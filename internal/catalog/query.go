package catalog

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/models"
)

// Sort directions, matching the dataset's query convention.
const (
	Ascending  = 1
	Descending = -1
)

// Sort names a single sort key for a query.
type Sort struct {
	Field     string
	Direction int
}

// Query describes one catalog lookup. Zero values mean "unset": an unset
// threshold and limit fall back to the engine defaults, a negative limit
// yields an empty page.
type Query struct {
	Search          string
	SearchThreshold float64
	TargetMuscles   []string
	Equipments      []string
	BodyParts       []string
	Sort            *Sort
	Offset          int
	Limit           int
}

// Page is one slice of query results plus counts over the full filtered set.
type Page struct {
	Exercises      []models.ExerciseRecord `json:"exercises"`
	TotalExercises int                     `json:"totalExercises"`
	TotalPages     int                     `json:"totalPages"`
	CurrentPage    int                     `json:"currentPage"`
}

// Field weights for the fuzzy search, mirroring the catalog's relevance
// order: name dominates, secondary muscles barely count.
const (
	weightName             = 0.40
	weightTargetMuscles    = 0.25
	weightBodyParts        = 0.20
	weightEquipments       = 0.15
	weightSecondaryMuscles = 0.10
)

// Engine searches, filters, sorts, and paginates the catalog. It is a pure
// query layer: deterministic for deterministic input, no writes.
type Engine struct {
	loader           *Loader
	log              *slog.Logger
	defaultThreshold float64
	defaultLimit     int
	nameOnly         bool
}

// EngineOption configures a new Engine.
type EngineOption func(*Engine)

// WithNameOnlySearch restricts search to case-insensitive substring matching
// on the exercise name. This is the degraded mode used when fuzzy ranking is
// not wanted; its result sets differ from the fuzzy mode's.
func WithNameOnlySearch() EngineOption {
	return func(e *Engine) { e.nameOnly = true }
}

// NewEngine creates a query engine over the given loader.
func NewEngine(loader *Loader, cfg config.QueryConfig, log *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		loader:           loader,
		log:              log,
		defaultThreshold: cfg.SearchThreshold,
		defaultLimit:     cfg.PageSize,
	}
	if e.defaultThreshold == 0 {
		e.defaultThreshold = config.DefaultSearchThreshold
	}
	if e.defaultLimit == 0 {
		e.defaultLimit = config.DefaultPageSize
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Find runs a query against the catalog. A dataset load failure surfaces as
// an empty page, not an error. The detail is logged for operators.
func (e *Engine) Find(q Query) Page {
	records, err := e.loader.Exercises()
	if err != nil {
		e.log.Error("exercise dataset unavailable", "error", err)
		return Page{Exercises: []models.ExerciseRecord{}}
	}

	if q.Search != "" {
		if e.nameOnly {
			records = filterByName(records, q.Search)
		} else {
			threshold := q.SearchThreshold
			if threshold == 0 {
				threshold = e.defaultThreshold
			}
			records = rankBySimilarity(records, q.Search, threshold)
		}
	} else {
		records = append([]models.ExerciseRecord(nil), records...)
	}

	records = applyFacets(records, q)

	if q.Sort != nil {
		sortRecords(records, *q.Sort)
	}

	return paginate(records, q.Offset, q.Limit, e.defaultLimit)
}

// Get looks up a single record by ID.
func (e *Engine) Get(id string) (*models.ExerciseRecord, bool) {
	records, err := e.loader.Exercises()
	if err != nil {
		e.log.Error("exercise dataset unavailable", "error", err)
		return nil, false
	}
	for i := range records {
		if records[i].ID == id {
			rec := records[i]
			return &rec, true
		}
	}
	return nil, false
}

// filterByName is the degraded search mode: case-insensitive substring match
// on the name only, original order preserved.
func filterByName(records []models.ExerciseRecord, search string) []models.ExerciseRecord {
	term := strings.ToLower(search)
	matched := make([]models.ExerciseRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Name), term) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// rankBySimilarity scores every record against the search term over the
// weighted field set, drops records scoring above the threshold, and orders
// the rest by ascending score (descending relevance). Ties keep dataset
// order.
func rankBySimilarity(records []models.ExerciseRecord, search string, threshold float64) []models.ExerciseRecord {
	type scored struct {
		rec   models.ExerciseRecord
		score float64
		index int
	}

	query := normalizeText(search)
	matched := make([]scored, 0, len(records))
	for i, rec := range records {
		s := recordScore(rec, query)
		if s <= threshold {
			matched = append(matched, scored{rec: rec, score: s, index: i})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score < matched[j].score
		}
		return matched[i].index < matched[j].index
	})

	out := make([]models.ExerciseRecord, len(matched))
	for i, m := range matched {
		out[i] = m.rec
	}
	return out
}

// recordScore is the weighted dissimilarity of a record against a normalized
// query: 0 is a perfect match, 1 no resemblance. Field scores combine as a
// product of each field's best value score raised to the field's weight, so
// a perfect hit on any single field makes the record a perfect match and
// heavier fields pull the combined score harder.
func recordScore(rec models.ExerciseRecord, query string) float64 {
	fields := []struct {
		weight float64
		values []string
	}{
		{weightName, []string{rec.Name}},
		{weightTargetMuscles, rec.TargetMuscles},
		{weightBodyParts, rec.BodyParts},
		{weightEquipments, rec.Equipments},
		{weightSecondaryMuscles, rec.SecondaryMuscles},
	}

	score := 1.0
	for _, f := range fields {
		if len(f.values) == 0 {
			continue
		}
		best := 1.0
		for _, v := range f.values {
			if d := dissimilarity(query, normalizeText(v)); d < best {
				best = d
			}
		}
		score *= math.Pow(best, f.weight)
	}
	return score
}

// dissimilarity compares a normalized query against a normalized field value.
// Substring containment counts as an exact hit; otherwise each query token
// scores its best normalized edit distance against the value and its tokens,
// and the token scores are averaged.
func dissimilarity(query, text string) float64 {
	if query == "" || text == "" {
		return 1
	}
	if strings.Contains(text, query) {
		return 0
	}

	textTokens := strings.Fields(text)
	queryTokens := strings.Fields(query)
	var sum float64
	for _, qt := range queryTokens {
		best := normalizedDistance(qt, text)
		for _, tt := range textTokens {
			if d := normalizedDistance(qt, tt); d < best {
				best = d
			}
		}
		sum += best
	}
	return sum / float64(len(queryTokens))
}

// normalizedDistance maps Levenshtein edit distance into [0, 1] by dividing
// by the longer string's length.
func normalizedDistance(a, b string) float64 {
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longer)
}

// normalizeText lowercases and strips everything but letters, digits, and
// single spaces.
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// applyFacets keeps records intersecting every supplied facet list: AND
// across facets, OR within a facet's candidates.
func applyFacets(records []models.ExerciseRecord, q Query) []models.ExerciseRecord {
	if len(q.TargetMuscles) == 0 && len(q.Equipments) == 0 && len(q.BodyParts) == 0 {
		return records
	}
	matched := make([]models.ExerciseRecord, 0, len(records))
	for _, rec := range records {
		if len(q.TargetMuscles) > 0 && !intersects(rec.TargetMuscles, q.TargetMuscles) {
			continue
		}
		if len(q.Equipments) > 0 && !intersects(rec.Equipments, q.Equipments) {
			continue
		}
		if len(q.BodyParts) > 0 && !intersects(rec.BodyParts, q.BodyParts) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// sortRecords stable-sorts in place by the named field. Unknown fields leave
// the order untouched.
func sortRecords(records []models.ExerciseRecord, s Sort) {
	key := fieldKey(s.Field)
	if key == nil {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		cmp := strings.Compare(key(records[i]), key(records[j]))
		if s.Direction == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func fieldKey(field string) func(models.ExerciseRecord) string {
	switch field {
	case "name":
		return func(r models.ExerciseRecord) string { return r.Name }
	case "id":
		return func(r models.ExerciseRecord) string { return r.ID }
	default:
		return nil
	}
}

// paginate slices [offset, offset+limit) out of the filtered set and fills
// in the counts. A negative limit yields an empty page; an offset past the
// end yields an empty slice with the counts intact.
func paginate(records []models.ExerciseRecord, offset, limit, defaultLimit int) Page {
	if limit == 0 {
		limit = defaultLimit
	}
	total := len(records)
	if limit < 0 {
		return Page{Exercises: []models.ExerciseRecord{}, TotalExercises: total}
	}
	if offset < 0 {
		offset = 0
	}

	page := Page{
		TotalExercises: total,
		TotalPages:     (total + limit - 1) / limit,
		CurrentPage:    offset/limit + 1,
	}
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	page.Exercises = append([]models.ExerciseRecord{}, records[start:end]...)
	return page
}
