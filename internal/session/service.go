package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/trainload/internal/sqlite"
	"github.com/myrjola/trainload/internal/workload"
)

const (
	// DefaultPageSize is used when the client does not request a page size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size a client can request.
	MaxPageSize = 100
)

// Service handles the business logic for session management.
type Service struct {
	repo   *Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new session service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   NewRepository(db, logger),
		logger: logger,
		now:    time.Now,
	}
}

// Page is one page of sessions in a cursor-paginated listing.
type Page struct {
	Sessions []Session `json:"sessions"`
	// NextCursor is the id to pass to fetch the following page. Nil on the
	// last page.
	NextCursor *int64 `json:"nextCursor"`
	HasMore    bool   `json:"hasMore"`
}

// List returns one page of sessions, newest first. A zero cursor starts from
// the newest session; a non-positive limit falls back to DefaultPageSize and
// limits above MaxPageSize are clamped.
func (s *Service) List(ctx context.Context, cursor int64, limit int) (Page, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	// Fetch one extra row to learn whether a following page exists.
	sessions, err := s.repo.ListPage(ctx, cursor, limit+1)
	if err != nil {
		return Page{}, fmt.Errorf("list sessions: %w", err)
	}

	page := Page{Sessions: sessions, NextCursor: nil, HasMore: false}
	if len(sessions) > limit {
		page.Sessions = sessions[:limit]
		page.HasMore = true
		last := page.Sessions[limit-1].ID
		page.NextCursor = &last
	}
	if page.Sessions == nil {
		page.Sessions = []Session{}
	}
	return page, nil
}

// Get retrieves a single session by id.
func (s *Service) Get(ctx context.Context, id int64) (Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("get session %d: %w", id, err)
	}
	return sess, nil
}

// Create validates the input and stores a new session. Validation failures
// are reported as field errors, not as an error return.
func (s *Service) Create(ctx context.Context, in Input) (Session, []FieldError, error) {
	if fieldErrs := Validate(in, false); len(fieldErrs) > 0 {
		return Session{}, fieldErrs, nil
	}

	date, _ := parseDate(*in.Date)
	// Millisecond precision so the value survives the storage round trip.
	now := s.now().UTC().Truncate(time.Millisecond)
	sess := Session{
		ID:        0,
		Date:      NewDate(date),
		Type:      Type(*in.Type),
		Duration:  int(*in.Duration),
		RPE:       int(*in.RPE),
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, sess)
	if err != nil {
		return Session{}, nil, fmt.Errorf("create session: %w", err)
	}
	return created, nil, nil
}

// Update validates the input and applies the present fields to an existing
// session. Absent fields keep their stored values.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Session, []FieldError, error) {
	if fieldErrs := Validate(in, true); len(fieldErrs) > 0 {
		return Session{}, fieldErrs, nil
	}

	updated, err := s.repo.Update(ctx, id, func(sess *Session) (bool, error) {
		changed := false
		if in.Date != nil {
			date, _ := parseDate(*in.Date)
			sess.Date = NewDate(date)
			changed = true
		}
		if in.Type != nil {
			sess.Type = Type(*in.Type)
			changed = true
		}
		if in.Duration != nil {
			sess.Duration = int(*in.Duration)
			changed = true
		}
		if in.RPE != nil {
			sess.RPE = int(*in.RPE)
			changed = true
		}
		if in.Notes != nil {
			sess.Notes = in.Notes
			changed = true
		}
		if changed {
			sess.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
		}
		return changed, nil
	})
	if err != nil {
		return Session{}, nil, fmt.Errorf("update session %d: %w", id, err)
	}
	return updated, nil, nil
}

// Delete removes a session by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}

// Workload computes the full workload metric set over the whole session
// history as of now.
func (s *Service) Workload(ctx context.Context) (workload.Summary, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return workload.Summary{}, fmt.Errorf("list sessions for workload: %w", err)
	}

	history := make([]workload.Session, len(sessions))
	for i, sess := range sessions {
		history[i] = workload.Session{
			Date:     sess.Date.Time,
			Duration: sess.Duration,
			RPE:      sess.RPE,
		}
	}
	// Stored dates are UTC midnights of their civil day, so the reference
	// must be the clock's civil day on the same calendar. Converting the
	// instant with UTC() instead would shift the windows near midnight.
	return workload.Summarize(history, NewDate(s.now()).Time), nil
}
