// Package datefilter parses the free-text date filter grammar used to select
// line items and payments by period.
//
// Recognized forms, in priority order:
//
//	15/02/2026-28/02/2026  inclusive range
//	>15/02/2026            strictly after
//	<15/02/2026            strictly before
//	15/02/2026             exact date
//	*/2/2026               month + year
//	02/2026                month + year
//	febbraio 2026          month + year (Italian month name)
//	2026                   year
//
// Unrecognized or malformed text yields a nil filter, not an error: the
// caller falls back to an unfiltered query.
package datefilter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lucabarbieri/gestionale/internal/models"
)

// Kind identifies the recognized filter form.
type Kind string

const (
	KindYear      Kind = "year"
	KindMonthYear Kind = "month_year"
	KindDate      Kind = "date"
	KindAfter     Kind = "after"
	KindBefore    Kind = "before"
	KindRange     Kind = "range"
)

// Filter is the structured descriptor produced by Parse. Only the fields
// relevant to Kind are set.
type Filter struct {
	Kind  Kind
	Year  int
	Month int // 1-based
	Date  time.Time
	From  time.Time
	To    time.Time
}

var (
	reRange     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\s*[-–]\s*(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reAfter     = regexp.MustCompile(`^>\s*(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reBefore    = regexp.MustCompile(`^<\s*(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reDate      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reWildMonth = regexp.MustCompile(`^\*/(\d{1,2})/(\d{4})$`)
	reMonthYear = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	reYear      = regexp.MustCompile(`^(\d{4})$`)
)

// Parse parses a free-text date filter. It returns nil when the text does not
// match any recognized form.
func Parse(text string) *Filter {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	if m := reRange.FindStringSubmatch(text); m != nil {
		from, ok1 := toDate(m[1], m[2], m[3])
		to, ok2 := toDate(m[4], m[5], m[6])
		if !ok1 || !ok2 {
			return nil
		}
		return &Filter{Kind: KindRange, From: from, To: to}
	}

	if m := reAfter.FindStringSubmatch(text); m != nil {
		d, ok := toDate(m[1], m[2], m[3])
		if !ok {
			return nil
		}
		return &Filter{Kind: KindAfter, Date: d}
	}

	if m := reBefore.FindStringSubmatch(text); m != nil {
		d, ok := toDate(m[1], m[2], m[3])
		if !ok {
			return nil
		}
		return &Filter{Kind: KindBefore, Date: d}
	}

	if m := reDate.FindStringSubmatch(text); m != nil {
		d, ok := toDate(m[1], m[2], m[3])
		if !ok {
			return nil
		}
		return &Filter{Kind: KindDate, Date: d}
	}

	if m := reWildMonth.FindStringSubmatch(text); m != nil {
		return monthYear(m[1], m[2])
	}

	if m := reMonthYear.FindStringSubmatch(text); m != nil {
		return monthYear(m[1], m[2])
	}

	// "febbraio 2026"
	for i, name := range models.Months {
		prefix := strings.ToLower(name) + " "
		if strings.HasPrefix(text, prefix) {
			rest := strings.TrimSpace(strings.TrimPrefix(text, prefix))
			if reYear.MatchString(rest) {
				year, _ := strconv.Atoi(rest)
				return &Filter{Kind: KindMonthYear, Month: i + 1, Year: year}
			}
		}
	}

	if m := reYear.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		return &Filter{Kind: KindYear, Year: year}
	}

	return nil
}

func monthYear(monthStr, yearStr string) *Filter {
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)
	if month < 1 || month > 12 {
		return nil
	}
	return &Filter{Kind: KindMonthYear, Month: month, Year: year}
}

// toDate builds a calendar date from d/m/y strings, rejecting impossible
// dates (time.Date normalizes overflow, so round-trip check).
func toDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year, _ := strconv.Atoi(yearStr)
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// SQL translates the filter into a predicate fragment over a DATE column plus
// its arguments. A nil filter yields an always-true predicate.
func (f *Filter) SQL(column string) (string, []interface{}) {
	if f == nil {
		return "1=1", nil
	}
	switch f.Kind {
	case KindYear:
		return fmt.Sprintf("strftime('%%Y', %s) = ?", column), []interface{}{fmt.Sprintf("%04d", f.Year)}
	case KindMonthYear:
		return fmt.Sprintf("strftime('%%Y', %s) = ? AND strftime('%%m', %s) = ?", column, column),
			[]interface{}{fmt.Sprintf("%04d", f.Year), fmt.Sprintf("%02d", f.Month)}
	case KindDate:
		return fmt.Sprintf("%s = ?", column), []interface{}{f.Date.Format("2006-01-02")}
	case KindAfter:
		return fmt.Sprintf("%s > ?", column), []interface{}{f.Date.Format("2006-01-02")}
	case KindBefore:
		return fmt.Sprintf("%s < ?", column), []interface{}{f.Date.Format("2006-01-02")}
	case KindRange:
		return fmt.Sprintf("%s >= ? AND %s <= ?", column, column),
			[]interface{}{f.From.Format("2006-01-02"), f.To.Format("2006-01-02")}
	}
	return "1=1", nil
}

// Matches evaluates the filter against a date in memory. Used when the
// records to filter are already loaded.
func (f *Filter) Matches(d time.Time) bool {
	if f == nil {
		return true
	}
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	switch f.Kind {
	case KindYear:
		return day.Year() == f.Year
	case KindMonthYear:
		return day.Year() == f.Year && int(day.Month()) == f.Month
	case KindDate:
		return day.Equal(f.Date)
	case KindAfter:
		return day.After(f.Date)
	case KindBefore:
		return day.Before(f.Date)
	case KindRange:
		return !day.Before(f.From) && !day.After(f.To)
	}
	return true
}
