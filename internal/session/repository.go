package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/trainload/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

const sessionColumns = "id, session_date, type, duration_minutes, rpe, notes, created_at, updated_at"

// Repository persists sessions in SQLite.
type Repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// NewRepository creates a new SQLite-backed session repository.
func NewRepository(db *sqlite.Database, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// List retrieves every session, newest first.
func (r *Repository) List(ctx context.Context) (_ []Session, err error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		ORDER BY session_date DESC, id DESC`, sessionColumns)

	rows, err := r.db.ReadOnly.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	return scanSessions(rows)
}

// ListPage retrieves up to limit sessions, newest first, starting after the
// session identified by cursor. A zero cursor starts from the newest session.
// It returns ErrInvalidCursor when the cursor does not refer to an existing
// session.
func (r *Repository) ListPage(ctx context.Context, cursor int64, limit int) (_ []Session, err error) {
	var (
		query string
		args  []any
	)
	if cursor == 0 {
		query = fmt.Sprintf(`
			SELECT %s
			FROM sessions
			ORDER BY session_date DESC, id DESC
			LIMIT ?`, sessionColumns)
		args = []any{limit}
	} else {
		// Keyset pagination: resolve the cursor to its sort key and continue
		// strictly after it. Stable across inserts and deletes, unlike OFFSET.
		var cursorDate string
		err = r.db.ReadOnly.QueryRowContext(ctx,
			`SELECT session_date FROM sessions WHERE id = ?`, cursor).Scan(&cursorDate)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resolve cursor %d: %w", cursor, ErrInvalidCursor)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve cursor %d: %w", cursor, err)
		}

		query = fmt.Sprintf(`
			SELECT %s
			FROM sessions
			WHERE session_date < ? OR (session_date = ? AND id < ?)
			ORDER BY session_date DESC, id DESC
			LIMIT ?`, sessionColumns)
		args = []any{cursorDate, cursorDate, cursor, limit}
	}

	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session page: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	return scanSessions(rows)
}

// Get retrieves a session by id. It returns ErrNotFound when no session has
// the given id.
func (r *Repository) Get(ctx context.Context, id int64) (Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE id = ?`, sessionColumns)

	sess, err := scanSession(r.db.ReadOnly.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query session %d: %w", id, err)
	}
	return sess, nil
}

// Create inserts a new session and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, sess Session) (Session, error) {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO sessions (session_date, type, duration_minutes, rpe, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.Date.Format(dateFormat),
		string(sess.Type),
		sess.Duration,
		sess.RPE,
		sess.Notes,
		sess.CreatedAt.UTC().Format(timestampFormat),
		sess.UpdatedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Session{}, fmt.Errorf("last insert id: %w", err)
	}
	sess.ID = id
	return sess, nil
}

// Update loads the session, applies updateFn, and saves the result when
// updateFn reports a change. It returns the session as stored afterwards.
func (r *Repository) Update(
	ctx context.Context,
	id int64,
	updateFn func(sess *Session) (bool, error),
) (Session, error) {
	sess, err := r.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("get session for update: %w", err)
	}

	updated, err := updateFn(&sess)
	if err != nil {
		return Session{}, fmt.Errorf("update function: %w", err)
	}

	if updated {
		_, err = r.db.ReadWrite.ExecContext(ctx, `
			UPDATE sessions
			SET session_date = ?, type = ?, duration_minutes = ?, rpe = ?, notes = ?, updated_at = ?
			WHERE id = ?`,
			sess.Date.Format(dateFormat),
			string(sess.Type),
			sess.Duration,
			sess.RPE,
			sess.Notes,
			sess.UpdatedAt.UTC().Format(timestampFormat),
			id,
		)
		if err != nil {
			return Session{}, fmt.Errorf("save updated session: %w", err)
		}
	}

	return sess, nil
}

// Delete removes a session by id. It returns ErrNotFound when no session has
// the given id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (Session, error) {
	var (
		sess         Session
		dateStr      string
		typeStr      string
		notes        sql.NullString
		createdAtStr string
		updatedAtStr string
	)
	if err := s.Scan(&sess.ID, &dateStr, &typeStr, &sess.Duration, &sess.RPE,
		&notes, &createdAtStr, &updatedAtStr); err != nil {
		return Session{}, err
	}

	date, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return Session{}, fmt.Errorf("parse session date: %w", err)
	}
	sess.Date = NewDate(date)
	sess.Type = Type(typeStr)

	if notes.Valid {
		sess.Notes = &notes.String
	}

	if sess.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return Session{}, fmt.Errorf("parse created_at: %w", err)
	}
	if sess.UpdatedAt, err = time.Parse(timestampFormat, updatedAtStr); err != nil {
		return Session{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return sess, nil
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return sessions, nil
}
