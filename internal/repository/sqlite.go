package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tosh-m12/courtmatch/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also keeps :memory: databases alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			event_date TEXT,
			public_token TEXT UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS event_participants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			display_name TEXT NOT NULL,
			attendance TEXT NOT NULL DEFAULT 'maybe',
			participates_match BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			UNIQUE(event_id, display_name)
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_drafts (
			event_id INTEGER PRIMARY KEY,
			schedule_json TEXT NOT NULL DEFAULT '[]',
			params_json TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS published_schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER UNIQUE NOT NULL,
			schedule_json TEXT NOT NULL DEFAULT '[]',
			params_json TEXT NOT NULL DEFAULT '{}',
			locked BOOLEAN NOT NULL DEFAULT 0,
			locked_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS match_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_id INTEGER NOT NULL,
			round_no INTEGER NOT NULL,
			court_no INTEGER NOT NULL,
			score1 INTEGER,
			score2 INTEGER,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (schedule_id) REFERENCES published_schedules(id) ON DELETE CASCADE,
			UNIQUE(schedule_id, round_no, court_no)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_participants_event ON event_participants(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_schedule ON match_scores(schedule_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Query helpers ====================

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func qExec(ctx context.Context, db queryer, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, query, args...)
}

func qQuery(ctx context.Context, db queryer, q sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}

func qRow(ctx context.Context, db queryer, q sq.SelectBuilder) *sql.Row {
	query, args, _ := q.ToSql()
	return db.QueryRowContext(ctx, query, args...)
}

// withTx runs fn inside a transaction, committing on success
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func now() time.Time {
	return time.Now().UTC()
}

// ==================== Event Methods ====================

var eventColumns = []string{"id", "name", "event_date", "public_token", "created_at"}

// CreateEvent inserts an event and returns its id
func (r *Repository) CreateEvent(ctx context.Context, name, eventDate, publicToken string) (int64, error) {
	result, err := qExec(ctx, r.db, sq.Insert("events").
		Columns("name", "event_date", "public_token", "created_at").
		Values(name, eventDate, publicToken, now()))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetEvent returns an event by id
func (r *Repository) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	return r.getEvent(ctx, sq.Eq{"id": id})
}

// GetEventByToken returns an event by its public share token
func (r *Repository) GetEventByToken(ctx context.Context, token string) (*models.Event, error) {
	return r.getEvent(ctx, sq.Eq{"public_token": token})
}

func (r *Repository) getEvent(ctx context.Context, where sq.Eq) (*models.Event, error) {
	var ev models.Event
	var eventDate sql.NullString
	err := qRow(ctx, r.db, sq.Select(eventColumns...).From("events").Where(where)).
		Scan(&ev.ID, &ev.Name, &eventDate, &ev.PublicToken, &ev.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ev.EventDate = eventDate.String
	return &ev, nil
}

// ListEvents returns all events, newest first
func (r *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := qQuery(ctx, r.db, sq.Select(eventColumns...).From("events").OrderBy("id DESC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var eventDate sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Name, &eventDate, &ev.PublicToken, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.EventDate = eventDate.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ==================== Participant Methods ====================

var participantColumns = []string{"id", "event_id", "display_name", "attendance", "participates_match"}

// AddParticipant adds a participant to an event and returns its ep_id
func (r *Repository) AddParticipant(ctx context.Context, eventID int, displayName, attendance string) (int64, error) {
	result, err := qExec(ctx, r.db, sq.Insert("event_participants").
		Columns("event_id", "display_name", "attendance", "created_at").
		Values(eventID, displayName, attendance, now()))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertParticipantIgnore adds a participant unless the name is already on
// the event's roster. It reports whether a row was created.
func (r *Repository) InsertParticipantIgnore(ctx context.Context, eventID int, displayName string) (bool, error) {
	result, err := qExec(ctx, r.db, sq.Insert("event_participants").
		Options("OR IGNORE").
		Columns("event_id", "display_name", "created_at").
		Values(eventID, displayName, now()))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// ListParticipants returns an event's roster in insertion order
func (r *Repository) ListParticipants(ctx context.Context, eventID int) ([]models.Participant, error) {
	rows, err := qQuery(ctx, r.db, sq.Select(participantColumns...).
		From("event_participants").
		Where(sq.Eq{"event_id": eventID}).
		OrderBy("id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.DisplayName, &p.Attendance, &p.ParticipatesMatch); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// GetParticipant returns one participant of an event
func (r *Repository) GetParticipant(ctx context.Context, eventID int, id models.ParticipantID) (*models.Participant, error) {
	var p models.Participant
	err := qRow(ctx, r.db, sq.Select(participantColumns...).
		From("event_participants").
		Where(sq.Eq{"event_id": eventID, "id": int(id)})).
		Scan(&p.ID, &p.EventID, &p.DisplayName, &p.Attendance, &p.ParticipatesMatch)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetAttendance updates a participant's attendance answer
func (r *Repository) SetAttendance(ctx context.Context, eventID int, id models.ParticipantID, attendance string) error {
	result, err := qExec(ctx, r.db, sq.Update("event_participants").
		Set("attendance", attendance).
		Where(sq.Eq{"event_id": eventID, "id": int(id)}))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := qRow(ctx, r.db, sq.Select("value").From("settings").Where(sq.Eq{"key": key})).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting updates or inserts a setting
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := qExec(ctx, r.db, sq.Insert("settings").
		Options("OR REPLACE").
		Columns("key", "value").
		Values(key, value))
	return err
}
