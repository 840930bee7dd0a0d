// Package storage persists workout plans and the application state blob in
// a local SQLite database. Values are stored as JSON, one row per plan and a
// single row for the state, mirroring the key-value layout the app state has
// always had.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/liftlog/internal/models"
)

// Store wraps the SQLite database holding plans and app state.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the database at dir/liftlog.db.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "liftlog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id         TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS app_state (
			id   INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePlan validates and stores a plan, replacing any existing plan with the
// same ID.
func (s *Store) SavePlan(plan *models.WorkoutPlan) error {
	if plan.ID == "" {
		return fmt.Errorf("plan has no id")
	}
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("validating plan: %w", err)
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encoding plan %s: %w", plan.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO plans (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		plan.ID, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving plan %s: %w", plan.ID, err)
	}
	return nil
}

// LoadPlan returns the plan with the given ID, or nil when no such plan
// exists. Absence is not an error; callers decide what to do about it.
func (s *Store) LoadPlan(id string) (*models.WorkoutPlan, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM plans WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", id, err)
	}

	var plan models.WorkoutPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", id, err)
	}
	return &plan, nil
}

// ListPlans returns all stored plans in creation order.
func (s *Store) ListPlans() ([]models.WorkoutPlan, error) {
	rows, err := s.db.Query(`SELECT data FROM plans ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []models.WorkoutPlan
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		var plan models.WorkoutPlan
		if err := json.Unmarshal([]byte(data), &plan); err != nil {
			s.log.Warn("skipping undecodable plan row", "error", err)
			continue
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// DeletePlan removes a plan. Deleting an absent plan is a no-op.
func (s *Store) DeletePlan(id string) error {
	if _, err := s.db.Exec(`DELETE FROM plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	return nil
}

// LoadState returns the persisted application state, or the empty defaults
// when none has been saved yet. Session logs failing the closed schema are
// dropped here, at the load boundary, with a warning; consumers never see
// malformed history.
func (s *Store) LoadState() (*models.AppState, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM app_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewAppState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading app state: %w", err)
	}

	var state models.AppState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decoding app state: %w", err)
	}
	if state.SchemaVersion > models.StateSchemaVersion {
		return nil, fmt.Errorf("app state schema version %d is newer than supported %d",
			state.SchemaVersion, models.StateSchemaVersion)
	}
	state.SchemaVersion = models.StateSchemaVersion

	kept := state.Logs[:0]
	for i := range state.Logs {
		if err := state.Logs[i].Validate(); err != nil {
			s.log.Warn("dropping malformed session log", "date", state.Logs[i].Date, "error", err)
			continue
		}
		kept = append(kept, state.Logs[i])
	}
	state.Logs = kept
	if state.Logs == nil {
		state.Logs = []models.WorkoutSessionLog{}
	}
	return &state, nil
}

// SaveState persists the application state. The write is durable when this
// returns; dependent reads (missing-session scans, progression lookups)
// may follow immediately.
func (s *Store) SaveState(state *models.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding app state: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO app_state (id, data) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("saving app state: %w", err)
	}
	return nil
}

// AppendSessionLog is the session-completion flow: validate the log, append
// it to the history, advance lastSessionDate, and persist. This is the only
// writer of session history in the program.
func (s *Store) AppendSessionLog(entry models.WorkoutSessionLog) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validating session log: %w", err)
	}

	state, err := s.LoadState()
	if err != nil {
		return err
	}
	state.Logs = append(state.Logs, entry)
	state.LastSessionDate = entry.Date
	return s.SaveState(state)
}
