package types

import (
	"strings"
	"time"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
)

// DateLayout is the wire format of calendar dates in catalog documents
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day or zone. The zero value is not
// a valid date.
type Date struct {
	t time.Time
}

// NewDate builds a date from its calendar components
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// DateIn returns the calendar day of instant as observed in loc
func DateIn(instant time.Time, loc *time.Location) Date {
	return DateOf(instant.In(loc))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ierr.WithError(err).
			WithHintf("Date %q must use the YYYY-MM-DD format", s).
			Mark(ierr.ErrValidation)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// Compare returns -1, 0 or +1
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

// AddDays returns the date n days later (earlier for negative n)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
