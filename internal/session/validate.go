package session

import (
	"math"
	"time"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Input carries the decoded request fields for creating or updating a
// session. Pointer fields distinguish absent fields from zero values, and the
// numeric fields arrive as float64 so that non-integer values can be rejected
// instead of silently truncated.
type Input struct {
	Date     *string  `json:"date"`
	Type     *string  `json:"type"`
	Duration *float64 `json:"duration"`
	RPE      *float64 `json:"rpe"`
	Notes    *string  `json:"notes"`
}

// parseDate accepts a plain calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func isInteger(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Validate checks the input fields and returns one error per invalid field.
// In partial mode absent fields are permitted, matching a partial update;
// fields that are present are validated the same way in both modes.
func Validate(in Input, partial bool) []FieldError {
	var errs []FieldError

	if !partial || in.Date != nil {
		switch {
		case in.Date == nil || *in.Date == "":
			errs = append(errs, FieldError{Field: "date", Message: "Date is required"})
		default:
			if _, ok := parseDate(*in.Date); !ok {
				errs = append(errs, FieldError{Field: "date", Message: "Date must be a valid date"})
			}
		}
	}

	if !partial || in.Type != nil {
		switch {
		case in.Type == nil || *in.Type == "":
			errs = append(errs, FieldError{Field: "type", Message: "Type is required"})
		case !ValidType(*in.Type):
			errs = append(errs, FieldError{Field: "type", Message: "Type must be one of: " + typeList()})
		}
	}

	if !partial || in.Duration != nil {
		switch {
		case in.Duration == nil:
			if !partial {
				errs = append(errs, FieldError{Field: "duration", Message: "Duration is required"})
			}
		case !isInteger(*in.Duration) || *in.Duration <= 0:
			errs = append(errs, FieldError{Field: "duration", Message: "Duration must be a positive integer"})
		}
	}

	if !partial || in.RPE != nil {
		switch {
		case in.RPE == nil:
			if !partial {
				errs = append(errs, FieldError{Field: "rpe", Message: "RPE is required"})
			}
		case !isInteger(*in.RPE) || *in.RPE < 1 || *in.RPE > 10:
			errs = append(errs, FieldError{Field: "rpe", Message: "RPE must be an integer between 1 and 10"})
		}
	}

	return errs
}
