// Package workload derives training-load metrics from logged sessions.
//
// Every function is a pure computation over its arguments. The reference
// instant is always explicit so that results are deterministic; the engine
// never consults the clock and never performs I/O. Comparisons are made at
// day granularity: both the reference instant and session dates are truncated
// to the start of their day before windowing.
package workload

import (
	"time"

	"github.com/myrjola/trainload/internal/calendar"
)

const (
	// AcuteWindowDays is the length of the acute (short-term) load window.
	AcuteWindowDays = 7
	// ChronicWindowDays is the length of the chronic (long-term) load window.
	ChronicWindowDays = 28
	// chronicWeeks divides the chronic window sum into an average weekly load.
	chronicWeeks = 4
	// DefaultWeekCount is the number of weekly buckets shown on the load chart.
	DefaultWeekCount = 5

	daysPerWeek = 7
)

// ACWR thresholds. Each boundary value belongs to the lower-adjacent category.
const (
	undertrainingThreshold = 0.8
	optimalUpperThreshold  = 1.3
	fatigueUpperThreshold  = 1.5
)

// Session is the minimal view of a logged training session the engine reads.
type Session struct {
	Date     time.Time
	Duration int // minutes
	RPE      int // rate of perceived exertion, 1-10
}

// Status classifies the acute:chronic workload ratio.
type Status string

const (
	StatusInsufficientData Status = "Insufficient Data"
	StatusUndertraining    Status = "Undertraining"
	StatusOptimalZone      Status = "Optimal Zone"
	StatusFatigueRisk      Status = "Fatigue Risk"
	StatusHighInjuryRisk   Status = "High Injury Risk"
)

// SessionLoad returns the training load of a single session in arbitrary
// units. Inputs are trusted; validation happens at the system boundary.
func SessionLoad(duration, rpe int) float64 {
	return float64(duration * rpe)
}

// sumLoadsBetween sums session loads whose day-truncated date falls inside
// the closed interval [start, end].
func sumLoadsBetween(sessions []Session, start, end time.Time) float64 {
	var sum float64
	for _, s := range sessions {
		day := calendar.StartOfDay(s.Date)
		if !day.Before(start) && !day.After(end) {
			sum += SessionLoad(s.Duration, s.RPE)
		}
	}
	return sum
}

// trailingWindowSum sums session loads over the trailing windowDays-day
// window ending at (and including) the reference day.
func trailingWindowSum(sessions []Session, reference time.Time, windowDays int) float64 {
	end := calendar.StartOfDay(reference)
	start := end.AddDate(0, 0, -(windowDays - 1))
	return sumLoadsBetween(sessions, start, end)
}

// AcuteLoad is the total load over the trailing 7 days.
func AcuteLoad(sessions []Session, reference time.Time) float64 {
	return trailingWindowSum(sessions, reference, AcuteWindowDays)
}

// ChronicLoad is the average weekly load over the trailing 28 days.
func ChronicLoad(sessions []Session, reference time.Time) float64 {
	return trailingWindowSum(sessions, reference, ChronicWindowDays) / chronicWeeks
}

// ACWR returns the acute:chronic workload ratio, or nil when the chronic load
// is zero. The nil result is the sole representation of "undefined"; the
// division is never performed in that case.
func ACWR(acuteLoad, chronicLoad float64) *float64 {
	if chronicLoad == 0 {
		return nil
	}
	ratio := acuteLoad / chronicLoad
	return &ratio
}

// ClassifyStatus maps an ACWR value to a training status. A nil ratio means
// there is not enough history to compute one.
func ClassifyStatus(acwr *float64) Status {
	switch {
	case acwr == nil:
		return StatusInsufficientData
	case *acwr < undertrainingThreshold:
		return StatusUndertraining
	case *acwr <= optimalUpperThreshold:
		return StatusOptimalZone
	case *acwr <= fatigueUpperThreshold:
		return StatusFatigueRisk
	default:
		return StatusHighInjuryRisk
	}
}

// WeeklyLoads returns weekCount trailing 7-day bucket sums, oldest first, the
// most recent bucket ending at the reference day. The buckets are disjoint
// and contiguous; they are not aligned to calendar weeks. The result always
// has exactly weekCount entries.
func WeeklyLoads(sessions []Session, reference time.Time, weekCount int) []float64 {
	ref := calendar.StartOfDay(reference)
	loads := make([]float64, 0, weekCount)
	for w := weekCount - 1; w >= 0; w-- {
		end := ref.AddDate(0, 0, -w*daysPerWeek)
		start := end.AddDate(0, 0, -(daysPerWeek - 1))
		loads = append(loads, sumLoadsBetween(sessions, start, end))
	}
	return loads
}

// WeeklyLoadRange is the load of one calendar week together with its
// Monday start and Sunday end, both at start of day.
type WeeklyLoadRange struct {
	Load  float64
	Start time.Time
	End   time.Time
}

// WeeklyLoadRanges returns weekCount Monday-to-Sunday bucket sums, oldest
// first, the most recent bucket being the calendar week of the reference
// instant. Unlike WeeklyLoads the buckets align to calendar weeks, so the
// current partial week is bucketed up to its Sunday.
func WeeklyLoadRanges(sessions []Session, reference time.Time, weekCount int) []WeeklyLoadRange {
	currentSunday := calendar.MondayOfWeek(reference).AddDate(0, 0, daysPerWeek-1)
	ranges := make([]WeeklyLoadRange, 0, weekCount)
	for w := weekCount - 1; w >= 0; w-- {
		end := currentSunday.AddDate(0, 0, -w*daysPerWeek)
		start := end.AddDate(0, 0, -(daysPerWeek - 1))
		ranges = append(ranges, WeeklyLoadRange{
			Load:  sumLoadsBetween(sessions, start, end),
			Start: start,
			End:   end,
		})
	}
	return ranges
}

// WeekSpan returns the number of week buckets needed to cover the whole
// session history up to now, so that the ranged weekly chart never drops a
// historical week. Always at least 1.
func WeekSpan(sessions []Session, now time.Time) int {
	if len(sessions) == 0 {
		return 1
	}
	earliest := sessions[0].Date
	for _, s := range sessions[1:] {
		if s.Date.Before(earliest) {
			earliest = s.Date
		}
	}
	diff := now.Sub(earliest)
	weeks := int(diff / (daysPerWeek * 24 * time.Hour))
	if diff%(daysPerWeek*24*time.Hour) > 0 {
		weeks++
	}
	if weeks+1 < 1 {
		return 1
	}
	return weeks + 1
}

// Flags qualifies how trustworthy the acute and chronic figures are given the
// observed history span.
type Flags struct {
	// AcuteIncomplete is true when the history is shorter than the acute window.
	AcuteIncomplete bool
	// ChronicUnstable is true when the history is shorter than the chronic window.
	ChronicUnstable bool
}

// SufficiencyFlags reports whether the session history spans less than the
// acute and chronic windows as of the reference instant. Both flags are true
// for an empty history.
func SufficiencyFlags(sessions []Session, reference time.Time) Flags {
	if len(sessions) == 0 {
		return Flags{AcuteIncomplete: true, ChronicUnstable: true}
	}

	ref := calendar.StartOfDay(reference)
	earliest := calendar.StartOfDay(sessions[0].Date)
	for _, s := range sessions[1:] {
		if day := calendar.StartOfDay(s.Date); day.Before(earliest) {
			earliest = day
		}
	}

	daySpan := int(ref.Sub(earliest)/(24*time.Hour)) + 1
	return Flags{
		AcuteIncomplete: daySpan < AcuteWindowDays,
		ChronicUnstable: daySpan < ChronicWindowDays,
	}
}

// Summary bundles every metric the workload endpoint reports.
type Summary struct {
	AcuteLoad        float64
	ChronicLoad      float64
	ACWR             *float64
	Status           Status
	Flags            Flags
	WeeklyLoads      []float64
	WeeklyLoadRanges []WeeklyLoadRange
}

// Summarize computes the full metric set over the given sessions at the given
// reference instant. The trailing chart keeps the original five buckets; the
// calendar-aligned chart is sized by WeekSpan so no historical week is
// dropped.
func Summarize(sessions []Session, reference time.Time) Summary {
	acute := AcuteLoad(sessions, reference)
	chronic := ChronicLoad(sessions, reference)
	acwr := ACWR(acute, chronic)
	return Summary{
		AcuteLoad:        acute,
		ChronicLoad:      chronic,
		ACWR:             acwr,
		Status:           ClassifyStatus(acwr),
		Flags:            SufficiencyFlags(sessions, reference),
		WeeklyLoads:      WeeklyLoads(sessions, reference, DefaultWeekCount),
		WeeklyLoadRanges: WeeklyLoadRanges(sessions, reference, WeekSpan(sessions, reference)),
	}
}
