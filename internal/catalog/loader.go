package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/claude/liftlog/internal/models"
)

// Resource names of the static dataset files (<name>.json under the FS root).
const (
	ResourceExercises  = "exercises"
	ResourceEquipments = "equipments"
	ResourceBodyParts  = "bodyparts"
	ResourceMuscles    = "muscles"
)

// namedItem is the shape of the facet listing files.
type namedItem struct {
	Name string `json:"name"`
}

// Loader exposes the exercise dataset as an addressable, cached collection.
// Each resource is decoded once per process lifetime; concurrent callers
// read the same cached value. There is no invalidation path; a restart is
// required to pick up dataset changes.
type Loader struct {
	fsys fs.FS
	log  *slog.Logger

	mu    sync.Mutex
	cache map[string]any
}

// NewLoader creates a Loader reading from the given filesystem, typically
// either the embedded dataset or an os.DirFS override.
func NewLoader(fsys fs.FS, log *slog.Logger) *Loader {
	return &Loader{
		fsys:  fsys,
		log:   log,
		cache: make(map[string]any),
	}
}

// load decodes <resource>.json into T, caching the decoded value under the
// resource name. The first successful decode wins; failures are not cached
// so a transient read error does not poison the process.
func load[T any](l *Loader, resource string) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[resource]; ok {
		return cached.(T), nil
	}

	var value T
	data, err := fs.ReadFile(l.fsys, resource+".json")
	if err != nil {
		return value, fmt.Errorf("reading dataset resource %q: %w", resource, err)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("parsing dataset resource %q: %w", resource, err)
	}

	l.cache[resource] = value
	return value, nil
}

// Exercises returns the full exercise collection. Records missing required
// fields are dropped with a warning rather than failing the whole load.
func (l *Loader) Exercises() ([]models.ExerciseRecord, error) {
	l.mu.Lock()
	if cached, ok := l.cache[ResourceExercises]; ok {
		l.mu.Unlock()
		return cached.([]models.ExerciseRecord), nil
	}
	l.mu.Unlock()

	data, err := fs.ReadFile(l.fsys, ResourceExercises+".json")
	if err != nil {
		return nil, fmt.Errorf("reading dataset resource %q: %w", ResourceExercises, err)
	}
	var raw []models.ExerciseRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dataset resource %q: %w", ResourceExercises, err)
	}

	records := make([]models.ExerciseRecord, 0, len(raw))
	for _, rec := range raw {
		if !rec.Valid() {
			l.log.Warn("dropping malformed exercise record", "id", rec.ID, "name", rec.Name)
			continue
		}
		records = append(records, rec)
	}

	l.mu.Lock()
	if cached, ok := l.cache[ResourceExercises]; ok {
		records = cached.([]models.ExerciseRecord)
	} else {
		l.cache[ResourceExercises] = records
	}
	l.mu.Unlock()
	return records, nil
}

// Equipments returns the known equipment names.
func (l *Loader) Equipments() ([]string, error) {
	return l.names(ResourceEquipments)
}

// BodyParts returns the known body part names.
func (l *Loader) BodyParts() ([]string, error) {
	return l.names(ResourceBodyParts)
}

// Muscles returns the known muscle names.
func (l *Loader) Muscles() ([]string, error) {
	return l.names(ResourceMuscles)
}

func (l *Loader) names(resource string) ([]string, error) {
	items, err := load[[]namedItem](l, resource)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name == "" {
			l.log.Warn("dropping unnamed dataset entry", "resource", resource)
			continue
		}
		names = append(names, item.Name)
	}
	return names, nil
}
