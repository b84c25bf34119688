// Package store is taskdeck's local SQLite database. It keeps the activity
// journal of backend operations and the task table served by the sandbox
// backend.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imkarma/taskdeck/internal/task"
	_ "modernc.org/sqlite"
)

// Store provides access to the taskdeck database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; the sandbox serves requests concurrently.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		state       TEXT NOT NULL DEFAULT 'Not Started',
		created_at  DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		op          TEXT NOT NULL,
		target      TEXT DEFAULT '',
		outcome     TEXT NOT NULL,
		detail      TEXT DEFAULT '',
		timestamp   DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- tasks (sandbox backend) ---

// CreateTask inserts a new task in the NotStarted state.
func (s *Store) CreateTask(title string) (*task.Task, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, state, created_at) VALUES (?, ?, ?, ?)`,
		id, title, string(task.NotStarted), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &task.Task{ID: id, Title: title, State: task.NotStarted, CreatedAt: &now}, nil
}

// GetTask returns a single task by id.
func (s *Store) GetTask(id string) (*task.Task, error) {
	row := s.db.QueryRow(`SELECT id, title, state, created_at FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTasks returns all tasks in creation order, optionally constrained to one state.
func (s *Store) ListTasks(state *task.State) ([]task.Task, error) {
	query := `SELECT id, title, state, created_at FROM tasks`
	var args []any
	if state != nil {
		query += ` WHERE state = ?`
		args = append(args, string(*state))
	}
	query += ` ORDER BY rowid`
	return s.queryTasks(query, args...)
}

// FindTasks returns tasks whose title contains fragment, case-insensitively.
func (s *Store) FindTasks(fragment string) ([]task.Task, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(fragment)) + "%"
	return s.queryTasks(
		`SELECT id, title, state, created_at FROM tasks WHERE lower(title) LIKE ? ORDER BY rowid`,
		pattern,
	)
}

// UpdateTaskState sets a task's state and returns the updated task.
func (s *Store) UpdateTaskState(id string, state task.State) (*task.Task, error) {
	res, err := s.db.Exec(`UPDATE tasks SET state = ? WHERE id = ?`, string(state), id)
	if err != nil {
		return nil, fmt.Errorf("update task state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(id)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// queryTasks is a shared helper for running task-list queries.
func (s *Store) queryTasks(query string, args ...any) ([]task.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var t task.Task
	var state string
	var created time.Time
	if err := row.Scan(&t.ID, &t.Title, &state, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.State = task.State(state)
	created = created.UTC()
	t.CreatedAt = &created
	return &t, nil
}

// --- journal ---

// AddEvent records one backend operation.
func (s *Store) AddEvent(op, target, outcome, detail string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO events (op, target, outcome, detail, timestamp) VALUES (?, ?, ?, ?, ?)`,
		op, target, outcome, detail, now,
	)
	if err != nil {
		return fmt.Errorf("add event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, oldest first. A limit of zero or
// less returns every event.
func (s *Store) RecentEvents(limit int) ([]Event, error) {
	query := `SELECT id, op, target, outcome, detail, timestamp FROM events ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Op, &e.Target, &e.Outcome, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
