package session_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/trainload/internal/ptr"
	"github.com/myrjola/trainload/internal/session"
	"github.com/myrjola/trainload/internal/sqlite"
	"github.com/myrjola/trainload/internal/workload"
)

func newTestService(t *testing.T) (*session.Service, context.Context) {
	t.Helper()
	ctx := t.Context()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		AddSource:   false,
		ReplaceAttr: nil,
	}))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("Failed to close test database: %v", closeErr)
		}
	})

	return session.NewService(db, logger), ctx
}

func validInput() session.Input {
	return session.Input{
		Date:     ptr.Ref("2026-02-18"),
		Type:     ptr.Ref("Strength"),
		Duration: ptr.Ref(45.0),
		RPE:      ptr.Ref(8.0),
		Notes:    ptr.Ref("heavy squats"),
	}
}

func mustCreate(t *testing.T, svc *session.Service, ctx context.Context, in session.Input) session.Session {
	t.Helper()
	created, fieldErrs, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if len(fieldErrs) > 0 {
		t.Fatalf("Create() unexpected field errors: %v", fieldErrs)
	}
	return created
}

func Test_CreateAndGet(t *testing.T) {
	svc, ctx := newTestService(t)

	created := mustCreate(t, svc, ctx, validInput())
	if created.ID == 0 {
		t.Error("Create() did not assign an id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	if got.Date.Format(time.DateOnly) != "2026-02-18" {
		t.Errorf("Date = %s, want 2026-02-18", got.Date.Format(time.DateOnly))
	}
	if got.Type != session.TypeStrength {
		t.Errorf("Type = %s, want %s", got.Type, session.TypeStrength)
	}
	if got.Duration != 45 {
		t.Errorf("Duration = %d, want 45", got.Duration)
	}
	if got.RPE != 8 {
		t.Errorf("RPE = %d, want 8", got.RPE)
	}
	if got.Notes == nil || *got.Notes != "heavy squats" {
		t.Errorf("Notes = %v, want heavy squats", got.Notes)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps were not stored")
	}
}

func Test_CreateValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	tests := []struct {
		name      string
		mutate    func(in *session.Input)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing date",
			mutate:    func(in *session.Input) { in.Date = nil },
			wantField: "date",
			wantMsg:   "Date is required",
		},
		{
			name:      "unparseable date",
			mutate:    func(in *session.Input) { in.Date = ptr.Ref("not-a-date") },
			wantField: "date",
			wantMsg:   "Date must be a valid date",
		},
		{
			name:      "unknown type",
			mutate:    func(in *session.Input) { in.Type = ptr.Ref("Yoga") },
			wantField: "type",
			wantMsg:   "Type must be one of: Strength, HIIT, Cardio",
		},
		{
			name:      "zero duration",
			mutate:    func(in *session.Input) { in.Duration = ptr.Ref(0.0) },
			wantField: "duration",
			wantMsg:   "Duration must be a positive integer",
		},
		{
			name:      "fractional duration",
			mutate:    func(in *session.Input) { in.Duration = ptr.Ref(45.5) },
			wantField: "duration",
			wantMsg:   "Duration must be a positive integer",
		},
		{
			name:      "rpe above range",
			mutate:    func(in *session.Input) { in.RPE = ptr.Ref(11.0) },
			wantField: "rpe",
			wantMsg:   "RPE must be an integer between 1 and 10",
		},
		{
			name:      "missing rpe",
			mutate:    func(in *session.Input) { in.RPE = nil },
			wantField: "rpe",
			wantMsg:   "RPE is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, fieldErrs, err := svc.Create(ctx, in)
			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}
			want := []session.FieldError{{Field: tt.wantField, Message: tt.wantMsg}}
			if diff := cmp.Diff(want, fieldErrs); diff != "" {
				t.Errorf("field errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_UpdatePartial(t *testing.T) {
	svc, ctx := newTestService(t)
	created := mustCreate(t, svc, ctx, validInput())

	updated, fieldErrs, err := svc.Update(ctx, created.ID, session.Input{
		Date:     nil,
		Type:     nil,
		Duration: ptr.Ref(60.0),
		RPE:      nil,
		Notes:    nil,
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if len(fieldErrs) > 0 {
		t.Fatalf("Update() unexpected field errors: %v", fieldErrs)
	}

	if updated.Duration != 60 {
		t.Errorf("Duration = %d, want 60", updated.Duration)
	}
	// Untouched fields keep their stored values.
	if updated.Type != session.TypeStrength {
		t.Errorf("Type = %s, want %s", updated.Type, session.TypeStrength)
	}
	if updated.RPE != 8 {
		t.Errorf("RPE = %d, want 8", updated.RPE)
	}
	if updated.Notes == nil || *updated.Notes != "heavy squats" {
		t.Errorf("Notes = %v, want heavy squats", updated.Notes)
	}
}

func Test_UpdateValidatesPresentFields(t *testing.T) {
	svc, ctx := newTestService(t)
	created := mustCreate(t, svc, ctx, validInput())

	_, fieldErrs, err := svc.Update(ctx, created.ID, session.Input{
		Date:     nil,
		Type:     nil,
		Duration: nil,
		RPE:      ptr.Ref(0.0),
		Notes:    nil,
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	want := []session.FieldError{{Field: "rpe", Message: "RPE must be an integer between 1 and 10"}}
	if diff := cmp.Diff(want, fieldErrs); diff != "" {
		t.Errorf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func Test_UpdateNotFound(t *testing.T) {
	svc, ctx := newTestService(t)

	_, _, err := svc.Update(ctx, 42, session.Input{
		Date:     nil,
		Type:     nil,
		Duration: ptr.Ref(60.0),
		RPE:      nil,
		Notes:    nil,
	})
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func Test_Delete(t *testing.T) {
	svc, ctx := newTestService(t)
	created := mustCreate(t, svc, ctx, validInput())

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func Test_ListPagination(t *testing.T) {
	svc, ctx := newTestService(t)

	// Three sessions on distinct days, created oldest first.
	for day := 1; day <= 3; day++ {
		in := validInput()
		in.Date = ptr.Ref(time.Date(2026, time.February, day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly))
		mustCreate(t, svc, ctx, in)
	}

	first, err := svc.List(ctx, 0, 2)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(first.Sessions) != 2 {
		t.Fatalf("len(first page) = %d, want 2", len(first.Sessions))
	}
	if !first.HasMore || first.NextCursor == nil {
		t.Fatal("first page should report a following page")
	}
	if got := first.Sessions[0].Date.Format(time.DateOnly); got != "2026-02-03" {
		t.Errorf("newest session date = %s, want 2026-02-03", got)
	}

	second, err := svc.List(ctx, *first.NextCursor, 2)
	if err != nil {
		t.Fatalf("List() second page unexpected error: %v", err)
	}
	if len(second.Sessions) != 1 {
		t.Fatalf("len(second page) = %d, want 1", len(second.Sessions))
	}
	if second.HasMore || second.NextCursor != nil {
		t.Error("second page should be the last page")
	}
	if got := second.Sessions[0].Date.Format(time.DateOnly); got != "2026-02-01" {
		t.Errorf("oldest session date = %s, want 2026-02-01", got)
	}
}

func Test_ListInvalidCursor(t *testing.T) {
	svc, ctx := newTestService(t)
	mustCreate(t, svc, ctx, validInput())

	if _, err := svc.List(ctx, 999, 10); !errors.Is(err, session.ErrInvalidCursor) {
		t.Fatalf("List() error = %v, want ErrInvalidCursor", err)
	}
}

func Test_ListEmpty(t *testing.T) {
	svc, ctx := newTestService(t)

	page, err := svc.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if page.Sessions == nil {
		t.Error("Sessions should be an empty slice, not nil")
	}
	if len(page.Sessions) != 0 || page.HasMore || page.NextCursor != nil {
		t.Errorf("List() = %+v, want empty page", page)
	}
}

func Test_Workload(t *testing.T) {
	svc, ctx := newTestService(t)

	// Seed relative to the wall clock since the workload reference is now.
	today := time.Now()
	seed := func(daysAgo, duration, rpe int) {
		in := session.Input{
			Date:     ptr.Ref(today.AddDate(0, 0, -daysAgo).Format(time.DateOnly)),
			Type:     ptr.Ref("Cardio"),
			Duration: ptr.Ref(float64(duration)),
			RPE:      ptr.Ref(float64(rpe)),
			Notes:    nil,
		}
		mustCreate(t, svc, ctx, in)
	}
	seed(2, 30, 6)  // acute and chronic windows
	seed(5, 45, 8)  // acute and chronic windows
	seed(20, 60, 5) // chronic window only

	summary, err := svc.Workload(ctx)
	if err != nil {
		t.Fatalf("Workload() unexpected error: %v", err)
	}

	if want := 540.0; summary.AcuteLoad != want {
		t.Errorf("AcuteLoad = %v, want %v", summary.AcuteLoad, want)
	}
	if want := float64(540+300) / 4; summary.ChronicLoad != want {
		t.Errorf("ChronicLoad = %v, want %v", summary.ChronicLoad, want)
	}
	if summary.ACWR == nil {
		t.Fatal("ACWR = nil, want ratio")
	}
	if summary.Status != workload.StatusHighInjuryRisk {
		t.Errorf("Status = %v, want %v", summary.Status, workload.StatusHighInjuryRisk)
	}
	if !summary.Flags.ChronicUnstable {
		t.Error("ChronicUnstable = false, want true for a 21-day history")
	}
	if summary.Flags.AcuteIncomplete {
		t.Error("AcuteIncomplete = true, want false for a 21-day history")
	}
	if len(summary.WeeklyLoads) != workload.DefaultWeekCount {
		t.Errorf("len(WeeklyLoads) = %d, want %d", len(summary.WeeklyLoads), workload.DefaultWeekCount)
	}
}

func Test_WorkloadEmpty(t *testing.T) {
	svc, ctx := newTestService(t)

	summary, err := svc.Workload(ctx)
	if err != nil {
		t.Fatalf("Workload() unexpected error: %v", err)
	}
	if summary.ACWR != nil {
		t.Errorf("ACWR = %v, want nil", *summary.ACWR)
	}
	if summary.Status != workload.StatusInsufficientData {
		t.Errorf("Status = %v, want %v", summary.Status, workload.StatusInsufficientData)
	}
	if !summary.Flags.AcuteIncomplete || !summary.Flags.ChronicUnstable {
		t.Errorf("Flags = %+v, want both true", summary.Flags)
	}
}
