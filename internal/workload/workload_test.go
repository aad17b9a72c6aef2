package workload_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/trainload/internal/ptr"
	"github.com/myrjola/trainload/internal/workload"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestSessionLoad(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		rpe      int
		want     float64
	}{
		{name: "typical session", duration: 45, rpe: 8, want: 360},
		{name: "zero duration", duration: 0, rpe: 8, want: 0},
		{name: "zero rpe", duration: 45, rpe: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workload.SessionLoad(tt.duration, tt.rpe); got != tt.want {
				t.Errorf("SessionLoad(%d, %d) = %v, want %v", tt.duration, tt.rpe, got, tt.want)
			}
		})
	}
}

func TestAcuteLoad(t *testing.T) {
	reference := date(2026, time.February, 20)

	tests := []struct {
		name     string
		sessions []workload.Session
		want     float64
	}{
		{
			name:     "empty history",
			sessions: nil,
			want:     0,
		},
		{
			name: "both sessions inside the window",
			sessions: []workload.Session{
				{Date: date(2026, time.February, 18), Duration: 30, RPE: 6},
				{Date: date(2026, time.February, 15), Duration: 45, RPE: 8},
			},
			want: 540,
		},
		{
			name: "session outside the window is excluded",
			sessions: []workload.Session{
				{Date: date(2026, time.February, 18), Duration: 30, RPE: 6},
				{Date: date(2026, time.February, 10), Duration: 45, RPE: 8},
			},
			want: 180,
		},
		{
			name: "window start day is inclusive",
			sessions: []workload.Session{
				{Date: date(2026, time.February, 14), Duration: 10, RPE: 5},
			},
			want: 50,
		},
		{
			name: "day before window start is excluded",
			sessions: []workload.Session{
				{Date: date(2026, time.February, 13), Duration: 10, RPE: 5},
			},
			want: 0,
		},
		{
			name: "time of day does not matter",
			sessions: []workload.Session{
				{Date: time.Date(2026, time.February, 14, 23, 30, 0, 0, time.UTC), Duration: 10, RPE: 5},
			},
			want: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workload.AcuteLoad(tt.sessions, reference); got != tt.want {
				t.Errorf("AcuteLoad() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChronicLoad(t *testing.T) {
	reference := date(2026, time.February, 20)
	sessions := []workload.Session{
		{Date: date(2026, time.February, 18), Duration: 40, RPE: 5},
		{Date: date(2026, time.February, 5), Duration: 60, RPE: 7},
	}

	want := float64(40*5+60*7) / 4
	if got := workload.ChronicLoad(sessions, reference); got != want {
		t.Errorf("ChronicLoad() = %v, want %v", got, want)
	}

	if got := workload.ChronicLoad(nil, reference); got != 0 {
		t.Errorf("ChronicLoad(empty) = %v, want 0", got)
	}
}

func TestACWR(t *testing.T) {
	tests := []struct {
		name    string
		acute   float64
		chronic float64
		want    *float64
	}{
		{name: "zero chronic load is undefined", acute: 500, chronic: 0, want: nil},
		{name: "zero acute with positive chronic is zero", acute: 0, chronic: 150, want: ptr.Ref(0.0)},
		{name: "ratio", acute: 200, chronic: 100, want: ptr.Ref(2.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workload.ACWR(tt.acute, tt.chronic)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ACWR() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name string
		acwr *float64
		want workload.Status
	}{
		{name: "nil ratio", acwr: nil, want: workload.StatusInsufficientData},
		{name: "below undertraining threshold", acwr: ptr.Ref(0.79), want: workload.StatusUndertraining},
		{name: "undertraining boundary is optimal", acwr: ptr.Ref(0.8), want: workload.StatusOptimalZone},
		{name: "optimal upper boundary", acwr: ptr.Ref(1.3), want: workload.StatusOptimalZone},
		{name: "just above optimal", acwr: ptr.Ref(1.31), want: workload.StatusFatigueRisk},
		{name: "fatigue upper boundary", acwr: ptr.Ref(1.5), want: workload.StatusFatigueRisk},
		{name: "above fatigue threshold", acwr: ptr.Ref(1.51), want: workload.StatusHighInjuryRisk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workload.ClassifyStatus(tt.acwr); got != tt.want {
				t.Errorf("ClassifyStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyLoads(t *testing.T) {
	reference := date(2026, time.February, 20)

	t.Run("empty history yields zeroed buckets", func(t *testing.T) {
		got := workload.WeeklyLoads(nil, reference, 5)
		if diff := cmp.Diff([]float64{0, 0, 0, 0, 0}, got); diff != "" {
			t.Errorf("WeeklyLoads() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("buckets are disjoint and ordered oldest first", func(t *testing.T) {
		sessions := []workload.Session{
			// Most recent bucket: Feb 14 - Feb 20.
			{Date: date(2026, time.February, 20), Duration: 10, RPE: 1},
			{Date: date(2026, time.February, 14), Duration: 20, RPE: 1},
			// Previous bucket: Feb 7 - Feb 13.
			{Date: date(2026, time.February, 13), Duration: 40, RPE: 1},
			// Two buckets back: Jan 31 - Feb 6.
			{Date: date(2026, time.February, 1), Duration: 80, RPE: 1},
		}
		got := workload.WeeklyLoads(sessions, reference, 3)
		if diff := cmp.Diff([]float64{80, 40, 30}, got); diff != "" {
			t.Errorf("WeeklyLoads() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestWeeklyLoadRanges(t *testing.T) {
	// A Friday; its calendar week runs Feb 16 - Feb 22.
	reference := date(2026, time.February, 20)

	got := workload.WeeklyLoadRanges([]workload.Session{
		{Date: date(2026, time.February, 17), Duration: 30, RPE: 2}, // current week
		{Date: date(2026, time.February, 22), Duration: 5, RPE: 2},  // upcoming Sunday, still current week
		{Date: date(2026, time.February, 15), Duration: 10, RPE: 4}, // previous week's Sunday
	}, reference, 2)

	want := []workload.WeeklyLoadRange{
		{Load: 40, Start: date(2026, time.February, 9), End: date(2026, time.February, 15)},
		{Load: 70, Start: date(2026, time.February, 16), End: date(2026, time.February, 22)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WeeklyLoadRanges() mismatch (-want +got):\n%s", diff)
	}

	for i, r := range got {
		if r.Start.Weekday() != time.Monday {
			t.Errorf("range %d start weekday = %s, want Monday", i, r.Start.Weekday())
		}
		if r.End.Weekday() != time.Sunday {
			t.Errorf("range %d end weekday = %s, want Sunday", i, r.End.Weekday())
		}
	}
}

func TestWeeklyLoadRangesEmpty(t *testing.T) {
	got := workload.WeeklyLoadRanges(nil, date(2026, time.February, 20), 4)
	if len(got) != 4 {
		t.Fatalf("len(WeeklyLoadRanges()) = %d, want 4", len(got))
	}
	for i, r := range got {
		if r.Load != 0 {
			t.Errorf("range %d load = %v, want 0", i, r.Load)
		}
		if r.Start.Weekday() != time.Monday || r.End.Weekday() != time.Sunday {
			t.Errorf("range %d bounds %s-%s not Monday-Sunday", i, r.Start.Weekday(), r.End.Weekday())
		}
	}
}

func TestWeekSpan(t *testing.T) {
	now := date(2026, time.February, 20)

	tests := []struct {
		name     string
		sessions []workload.Session
		want     int
	}{
		{name: "empty history", sessions: nil, want: 1},
		{
			name:     "same day",
			sessions: []workload.Session{{Date: now, Duration: 30, RPE: 5}},
			want:     1,
		},
		{
			name:     "one week back",
			sessions: []workload.Session{{Date: date(2026, time.February, 13), Duration: 30, RPE: 5}},
			want:     2,
		},
		{
			name: "five weeks back",
			sessions: []workload.Session{
				{Date: date(2026, time.January, 16), Duration: 30, RPE: 5},
				{Date: date(2026, time.February, 18), Duration: 30, RPE: 5},
			},
			want: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workload.WeekSpan(tt.sessions, now); got != tt.want {
				t.Errorf("WeekSpan() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSufficiencyFlags(t *testing.T) {
	reference := date(2026, time.February, 20)

	tests := []struct {
		name     string
		sessions []workload.Session
		want     workload.Flags
	}{
		{
			name:     "empty history",
			sessions: nil,
			want:     workload.Flags{AcuteIncomplete: true, ChronicUnstable: true},
		},
		{
			name: "ten day span satisfies acute but not chronic",
			sessions: []workload.Session{
				{Date: date(2026, time.February, 11), Duration: 30, RPE: 5},
			},
			want: workload.Flags{AcuteIncomplete: false, ChronicUnstable: true},
		},
		{
			name: "six day span satisfies neither",
			sessions: []workload.Session{
				{Date: date(2026, time.February, 15), Duration: 30, RPE: 5},
			},
			want: workload.Flags{AcuteIncomplete: true, ChronicUnstable: true},
		},
		{
			name: "28 day span satisfies both",
			sessions: []workload.Session{
				{Date: date(2026, time.January, 24), Duration: 30, RPE: 5},
				{Date: date(2026, time.February, 19), Duration: 30, RPE: 5},
			},
			want: workload.Flags{AcuteIncomplete: false, ChronicUnstable: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workload.SufficiencyFlags(tt.sessions, reference)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SufficiencyFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	reference := date(2026, time.February, 20)
	sessions := []workload.Session{
		{Date: date(2026, time.February, 18), Duration: 30, RPE: 6}, // acute window
		{Date: date(2026, time.February, 15), Duration: 45, RPE: 8}, // acute window
		{Date: date(2026, time.January, 28), Duration: 60, RPE: 5},  // chronic window only
	}

	got := workload.Summarize(sessions, reference)

	if want := 540.0; got.AcuteLoad != want {
		t.Errorf("AcuteLoad = %v, want %v", got.AcuteLoad, want)
	}
	if want := float64(540+300) / 4; got.ChronicLoad != want {
		t.Errorf("ChronicLoad = %v, want %v", got.ChronicLoad, want)
	}
	if got.ACWR == nil {
		t.Fatal("ACWR = nil, want ratio")
	}
	if want := 540 / (float64(840) / 4); *got.ACWR != want {
		t.Errorf("ACWR = %v, want %v", *got.ACWR, want)
	}
	if got.Status != workload.StatusHighInjuryRisk {
		t.Errorf("Status = %v, want %v", got.Status, workload.StatusHighInjuryRisk)
	}
	if len(got.WeeklyLoads) != workload.DefaultWeekCount {
		t.Errorf("len(WeeklyLoads) = %d, want %d", len(got.WeeklyLoads), workload.DefaultWeekCount)
	}
	// Jan 28 is 23 days before the reference, so four week buckets are needed.
	if want := 4; len(got.WeeklyLoadRanges) != want {
		t.Errorf("len(WeeklyLoadRanges) = %d, want %d", len(got.WeeklyLoadRanges), want)
	}
	wantFlags := workload.Flags{AcuteIncomplete: false, ChronicUnstable: true}
	if diff := cmp.Diff(wantFlags, got.Flags); diff != "" {
		t.Errorf("Flags mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := workload.Summarize(nil, date(2026, time.February, 20))
	if got.ACWR != nil {
		t.Errorf("ACWR = %v, want nil", *got.ACWR)
	}
	if got.Status != workload.StatusInsufficientData {
		t.Errorf("Status = %v, want %v", got.Status, workload.StatusInsufficientData)
	}
	if len(got.WeeklyLoadRanges) != 1 {
		t.Errorf("len(WeeklyLoadRanges) = %d, want 1", len(got.WeeklyLoadRanges))
	}
}
