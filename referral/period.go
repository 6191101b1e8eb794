package referral

import (
	"fmt"
	"time"
)

const (
	minYear = 2000
	maxYear = 2100
)

// Period is a reporting month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodOf returns the reporting month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Validate checks month is in [1,12] and year in [2000,2100].
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return validationError("month must be between 1 and 12, got %d", p.Month)
	}
	if p.Year < minYear || p.Year > maxYear {
		return validationError("year must be between %d and %d, got %d", minYear, maxYear, p.Year)
	}
	return nil
}

// Start is the first instant of the month in local time.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.Local)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ResolvePeriod fills a zero year or month from now and validates the result.
func ResolvePeriod(year, month int, now time.Time) (Period, error) {
	p := PeriodOf(now)
	if year != 0 {
		p.Year = year
	}
	if month != 0 {
		p.Month = month
	}
	return p, p.Validate()
}
