package apitest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"entrylog/internal/api"
)

const (
	// migration queries
	createEntriesTableSQL = `
  CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type TEXT NOT NULL,
  person_name TEXT NOT NULL,
  place_from TEXT NOT NULL DEFAULT '',
  place_to TEXT NOT NULL DEFAULT '',
  timestamp TEXT NOT NULL,
  time_display TEXT NOT NULL
  )`

	// entry queries
	createEntrySQL   = `INSERT INTO entries (type, person_name, place_from, place_to, timestamp, time_display) VALUES (?, ?, ?, ?, ?, ?)`
	getEntrySQL      = `SELECT id, type, person_name, place_from, place_to, timestamp, time_display FROM entries WHERE id = ?`
	getAllEntriesSQL = `SELECT id, type, person_name, place_from, place_to, timestamp, time_display FROM entries ORDER BY id`
	deleteEntrySQL   = `DELETE FROM entries WHERE id = ?`
	deleteAllSQL     = `DELETE FROM entries`
)

const (
	timestampLayout   = time.RFC3339Nano
	timeDisplayLayout = "2006-01-02 15:04:05"
)

// Store keeps entries in a sqlite file, in insertion order.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	// ensure directory exists
	err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers anyway; one connection keeps the tests simple
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(createEntriesTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// inserts a record stamped with at and returns it as stored
func (s *Store) Create(e api.NewEntry, at time.Time) (api.Entry, error) {
	res, err := s.db.Exec(createEntrySQL,
		e.Type,
		e.PersonName,
		e.PlaceFrom,
		e.PlaceTo,
		at.Format(timestampLayout),
		at.Format(timeDisplayLayout),
	)
	if err != nil {
		return api.Entry{}, fmt.Errorf("error inserting entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return api.Entry{}, err
	}

	var entry api.Entry
	err = s.db.QueryRow(getEntrySQL, id).Scan(
		&entry.ID,
		&entry.Type,
		&entry.PersonName,
		&entry.PlaceFrom,
		&entry.PlaceTo,
		&entry.Timestamp,
		&entry.TimeDisplay,
	)
	if err != nil {
		return api.Entry{}, fmt.Errorf("error reading inserted entry: %w", err)
	}
	return entry, nil
}

// get all entries, oldest first
func (s *Store) All() ([]api.Entry, error) {
	rows, err := s.db.Query(getAllEntriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []api.Entry{}
	for rows.Next() {
		var entry api.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.PersonName,
			&entry.PlaceFrom,
			&entry.PlaceTo,
			&entry.Timestamp,
			&entry.TimeDisplay,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// deleting an unknown id is not an error
func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec(deleteEntrySQL, id)
	return err
}

func (s *Store) Clear() error {
	_, err := s.db.Exec(deleteAllSQL)
	return err
}
