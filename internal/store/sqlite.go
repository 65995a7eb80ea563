package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/tasks"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewMemoryStore opens a private in-memory database. Its contents vanish
// when the store is closed or the process exits.
func NewMemoryStore() (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:focus-%s?mode=memory&cache=shared", newULID())
	return open(dsn)
}

func open(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The in-memory database lives as long as one connection does; keep
	// exactly one open and never let the pool recycle it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection, discarding all data.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Tasks ---

const taskColumns = `id, title, description, status, priority, category, due_date, planned_sessions, completed_sessions, position, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var status, priority, category, dueDate string
	var completedAt sql.NullTime

	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &category, &dueDate,
		&t.PlannedSessions, &t.CompletedSessions, &t.Position, &t.CreatedAt, &t.UpdatedAt, &completedAt); err != nil {
		return nil, err
	}

	t.Status = models.TaskStatus(status)
	t.Priority = models.TaskPriority(priority)
	t.Category = models.TaskCategory(category)
	if dueDate != "" {
		due, err := time.ParseInLocation(models.DateLayout, dueDate, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse due date %q: %w", dueDate, err)
		}
		t.DueDate = due
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return t, nil
}

func formatDue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

func (s *SQLiteStore) CreateTask(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = newULID()
	}
	if t.Status == "" {
		t.Status = models.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.TaskPriorityMedium
	}
	if t.Category == "" {
		t.Category = models.TaskCategoryWork
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM tasks").Scan(&t.Position)
	if err != nil {
		return fmt.Errorf("next task position: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status), string(t.Priority), string(t.Category), formatDue(t.DueDate),
		t.PlannedSessions, t.CompletedSessions, t.Position, t.CreatedAt, t.UpdatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ResolveTask finds a task by full ID or unique ID prefix (case-insensitive).
func (s *SQLiteStore) ResolveTask(ctx context.Context, ref string) (*models.Task, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return nil, fmt.Errorf("task id is required")
	}

	if t, err := s.GetTask(ctx, ref); err == nil {
		return t, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM tasks WHERE substr(id, 1, ?) = ? LIMIT 2", len(ref), ref)
	if err != nil {
		return nil, fmt.Errorf("resolve task: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve task: %w", err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("task %s: %w", ref, ErrNotFound)
	case 1:
		return s.GetTask(ctx, ids[0])
	default:
		return nil, fmt.Errorf("task %s: %w", ref, ErrAmbiguous)
	}
}

func (s *SQLiteStore) ListTasks(ctx context.Context, filter TaskListFilter) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		conditions = append(conditions, "(instr(lower(title), ?) > 0 OR instr(lower(description), ?) > 0)")
		args = append(args, q, q)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY position, created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, t *models.Task) error {
	t.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title=?, description=?, status=?, priority=?, category=?, due_date=?,
		planned_sessions=?, completed_sessions=?, updated_at=?, completed_at=?
		WHERE id=?`,
		t.Title, t.Description, string(t.Status), string(t.Priority), string(t.Category), formatDue(t.DueDate),
		t.PlannedSessions, t.CompletedSessions, t.UpdatedAt, t.CompletedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// MoveTask moves a task to toIndex in the full ordered list and renumbers
// every position to 0..n-1.
func (s *SQLiteStore) MoveTask(ctx context.Context, id string, toIndex int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM tasks ORDER BY position, created_at")
	if err != nil {
		return fmt.Errorf("list task order: %w", err)
	}
	var ids []string
	from := -1
	for rows.Next() {
		var tid string
		if err := rows.Scan(&tid); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan task id: %w", err)
		}
		if tid == id {
			from = len(ids)
		}
		ids = append(ids, tid)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list task order: %w", err)
	}
	if from < 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	ordered, err := tasks.Move(ids, from, toIndex)
	if err != nil {
		return err
	}

	for pos, tid := range ordered {
		if _, err := tx.ExecContext(ctx, "UPDATE tasks SET position = ? WHERE id = ?", pos, tid); err != nil {
			return fmt.Errorf("update task position: %w", err)
		}
	}
	return tx.Commit()
}

// --- Calendar events ---

func (s *SQLiteStore) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = newULID()
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("create event: end %s is not after start %s", e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	if e.Type == "" {
		e.Type = models.EventTypeTask
	}
	if e.Priority == "" {
		e.Priority = models.TaskPriorityMedium
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, start_unix, end_unix, priority, type, task_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Start.Unix(), e.End.Unix(), string(e.Priority), string(e.Type), e.TaskID,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListEvents returns events overlapping [from, to), ordered by start.
func (s *SQLiteStore) ListEvents(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, start_unix, end_unix, priority, type, task_id
		FROM events WHERE start_unix < ? AND end_unix > ?
		ORDER BY start_unix, id`,
		to.Unix(), from.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*models.Event
	for rows.Next() {
		e := &models.Event{}
		var start, end int64
		var priority, eventType string
		if err := rows.Scan(&e.ID, &e.Title, &start, &end, &priority, &eventType, &e.TaskID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Start = time.Unix(start, 0).In(from.Location())
		e.End = time.Unix(end, 0).In(from.Location())
		e.Priority = models.TaskPriority(priority)
		e.Type = models.EventType(eventType)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Pomodoro log ---

func (s *SQLiteStore) RecordPomodoro(ctx context.Context, r *models.PomodoroRecord) error {
	if r.ID == "" {
		r.ID = newULID()
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pomodoro_records (id, phase, task_id, duration_seconds, completed_unix)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Phase, r.TaskID, r.DurationSeconds, r.CompletedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record pomodoro: %w", err)
	}
	return nil
}

// ListPomodoros returns records completed in [from, to), oldest first.
func (s *SQLiteStore) ListPomodoros(ctx context.Context, from, to time.Time) ([]*models.PomodoroRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, phase, task_id, duration_seconds, completed_unix
		FROM pomodoro_records WHERE completed_unix >= ? AND completed_unix < ?
		ORDER BY completed_unix, id`,
		from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("list pomodoros: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*models.PomodoroRecord
	for rows.Next() {
		r := &models.PomodoroRecord{}
		var completed int64
		if err := rows.Scan(&r.ID, &r.Phase, &r.TaskID, &r.DurationSeconds, &completed); err != nil {
			return nil, fmt.Errorf("scan pomodoro: %w", err)
		}
		r.CompletedAt = time.Unix(completed, 0).In(from.Location())
		records = append(records, r)
	}
	return records, rows.Err()
}
