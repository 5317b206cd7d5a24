package workouts

import (
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/validation"
)

// parseDateRange reads startDate and endDate. Both accept YYYY-MM-DD or RFC3339;
// a date-only endDate covers that whole day.
func parseDateRange(query url.Values) (from, to *time.Time, vErrs validation.Errors) {
	if v := query.Get("startDate"); v != "" {
		t, err := parseDate(v, false)
		if err != nil {
			vErrs = append(vErrs, validation.FieldError{Field: "startDate", Message: "must be a date (YYYY-MM-DD) or RFC3339 timestamp"})
		} else {
			from = &t
		}
	}
	if v := query.Get("endDate"); v != "" {
		t, err := parseDate(v, true)
		if err != nil {
			vErrs = append(vErrs, validation.FieldError{Field: "endDate", Message: "must be a date (YYYY-MM-DD) or RFC3339 timestamp"})
		} else {
			to = &t
		}
	}
	return from, to, vErrs
}

func parseDate(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseIntParam(query url.Values, name string, vErrs *validation.Errors) int {
	v := query.Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*vErrs = append(*vErrs, validation.FieldError{Field: name, Message: "must be an integer"})
		return 0
	}
	return n
}
