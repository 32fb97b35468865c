// Package persistence stores finished encounters in SQLite.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"wildfight/internal/combat"
)

var ErrNotFound = errors.New("persistence: encounter not found")

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS encounters (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		turns INTEGER NOT NULL,
		transcript_json TEXT NOT NULL,
		events_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS encounter_units (
		encounter_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		unit_id TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		team TEXT NOT NULL,
		species TEXT NOT NULL,
		alive INTEGER NOT NULL,
		fled INTEGER NOT NULL,
		vitality REAL NOT NULL,
		boldness REAL NOT NULL,
		behavior TEXT NOT NULL,
		damage_dealt REAL NOT NULL,
		damage_taken REAL NOT NULL,
		PRIMARY KEY (encounter_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_encounters_outcome ON encounters(outcome);
	CREATE INDEX IF NOT EXISTS idx_encounters_scenario ON encounters(scenario);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type encounterRow struct {
	ID             string `db:"id"`
	Scenario       string `db:"scenario"`
	Seed           int64  `db:"seed"`
	Outcome        string `db:"outcome"`
	Turns          int    `db:"turns"`
	TranscriptJSON string `db:"transcript_json"`
	EventsJSON     string `db:"events_json"`
}

type unitRow struct {
	UnitID      string  `db:"unit_id"`
	Name        string  `db:"name"`
	Kind        string  `db:"kind"`
	Team        string  `db:"team"`
	Species     string  `db:"species"`
	Alive       bool    `db:"alive"`
	Fled        bool    `db:"fled"`
	Vitality    float64 `db:"vitality"`
	Boldness    float64 `db:"boldness"`
	Behavior    string  `db:"behavior"`
	DamageDealt float64 `db:"damage_dealt"`
	DamageTaken float64 `db:"damage_taken"`
}

// SaveResult writes one encounter, replacing any earlier copy with the
// same ID.
func (db *DB) SaveResult(res combat.Result) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM encounter_units WHERE encounter_id = ?", res.ID); err != nil {
		return err
	}
	transcriptJSON, err := json.Marshal(res.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript %s: %w", res.ID, err)
	}
	eventsJSON, err := json.Marshal(res.Events)
	if err != nil {
		return fmt.Errorf("marshal events %s: %w", res.ID, err)
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO encounters
		(id, scenario, seed, outcome, turns, transcript_json, events_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Scenario, res.Seed, res.Outcome.String(), res.Turns,
		string(transcriptJSON), string(eventsJSON),
	); err != nil {
		return fmt.Errorf("insert encounter: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO encounter_units
		(encounter_id, seq, unit_id, name, kind, team, species, alive, fled,
		 vitality, boldness, behavior, damage_dealt, damage_taken)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range res.Units {
		if _, err := stmt.Exec(res.ID, i, string(u.ID), u.Name, u.Kind, u.Team, u.Species,
			u.Alive, u.Fled, u.Vitality, u.Boldness, u.Behavior, u.DamageDealt, u.DamageTaken,
		); err != nil {
			return fmt.Errorf("insert unit %s: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// SaveResults writes a batch in one go.
func (db *DB) SaveResults(results []combat.Result) error {
	slog.Info("saving encounters", "count", len(results))
	for _, r := range results {
		if err := db.SaveResult(r); err != nil {
			return fmt.Errorf("save %s: %w", r.ID, err)
		}
	}
	return nil
}

func (db *DB) GetResult(id string) (combat.Result, error) {
	var row encounterRow
	err := db.conn.Get(&row, "SELECT * FROM encounters WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return combat.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return combat.Result{}, err
	}

	res := combat.Result{ID: row.ID, Scenario: row.Scenario, Seed: row.Seed, Turns: row.Turns}
	if res.Outcome, err = combat.ParseOutcome(row.Outcome); err != nil {
		return combat.Result{}, err
	}
	if err := json.Unmarshal([]byte(row.TranscriptJSON), &res.Transcript); err != nil {
		return combat.Result{}, fmt.Errorf("decode transcript: %w", err)
	}
	if err := json.Unmarshal([]byte(row.EventsJSON), &res.Events); err != nil {
		return combat.Result{}, fmt.Errorf("decode events: %w", err)
	}

	var units []unitRow
	if err := db.conn.Select(&units, `SELECT unit_id, name, kind, team, species, alive, fled,
		vitality, boldness, behavior, damage_dealt, damage_taken
		FROM encounter_units WHERE encounter_id = ? ORDER BY seq`, id); err != nil {
		return combat.Result{}, err
	}
	for _, u := range units {
		res.Units = append(res.Units, combat.UnitSummary{
			ID:          combat.UnitID(u.UnitID),
			Name:        u.Name,
			Kind:        u.Kind,
			Team:        u.Team,
			Species:     u.Species,
			Alive:       u.Alive,
			Fled:        u.Fled,
			Vitality:    u.Vitality,
			Boldness:    u.Boldness,
			Behavior:    u.Behavior,
			DamageDealt: u.DamageDealt,
			DamageTaken: u.DamageTaken,
		})
	}
	return res, nil
}

// OutcomeCounts tallies stored encounters by outcome, optionally for one
// scenario.
func (db *DB) OutcomeCounts(scenario string) (map[string]int, error) {
	var rows []struct {
		Outcome string `db:"outcome"`
		N       int    `db:"n"`
	}
	q := "SELECT outcome, COUNT(*) AS n FROM encounters"
	var args []any
	if scenario != "" {
		q += " WHERE scenario = ?"
		args = append(args, scenario)
	}
	q += " GROUP BY outcome"
	if err := db.conn.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Outcome] = r.N
	}
	return out, nil
}

// Summary is one line of RecentEncounters.
type Summary struct {
	ID       string `db:"id" json:"id"`
	Scenario string `db:"scenario" json:"scenario"`
	Seed     int64  `db:"seed" json:"seed"`
	Outcome  string `db:"outcome" json:"outcome"`
	Turns    int    `db:"turns" json:"turns"`
}

// RecentEncounters lists the latest saved encounters, newest first.
func (db *DB) RecentEncounters(limit int) ([]Summary, error) {
	var out []Summary
	err := db.conn.Select(&out,
		"SELECT id, scenario, seed, outcome, turns FROM encounters ORDER BY rowid DESC LIMIT ?",
		limit,
	)
	return out, err
}
