package models

import (
	"fmt"
	"time"
)

// Months are the Italian month names, 0-based.
var Months = []string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

// romanQuarters maps a 0-based month to its quarter's Roman numeral.
var romanQuarters = []string{"I", "I", "I", "II", "II", "II", "III", "III", "III", "IV", "IV", "IV"}

// romanHalves maps a 0-based month to its half-year's Roman numeral.
var romanHalves = []string{"I", "I", "I", "I", "I", "I", "II", "II", "II", "II", "II", "II"}

// PeriodLabel returns the human-readable period suffix appended to a line
// description, derived from the billing periodicity and the period start date.
// The suffix carries a leading space; one-off items get no suffix.
func PeriodLabel(periodicity string, start time.Time) string {
	if start.IsZero() || periodicity == "" {
		return ""
	}
	m := int(start.Month()) - 1
	y := start.Year()
	switch periodicity {
	case PeriodicityMonthly:
		return fmt.Sprintf(" %s %d", Months[m], y)
	case PeriodicityQuarterly:
		return fmt.Sprintf(" %s trim. %d", romanQuarters[m], y)
	case PeriodicitySemiAnnual:
		return fmt.Sprintf(" %s sem. %d", romanHalves[m], y)
	case PeriodicityAnnual:
		return fmt.Sprintf(" %d", y)
	}
	return ""
}

// AddPeriod shifts a date forward by one billing period. Used when rolling
// recurring line items into the next period.
func AddPeriod(t time.Time, periodicity string) time.Time {
	switch periodicity {
	case PeriodicityMonthly:
		return t.AddDate(0, 1, 0)
	case PeriodicityQuarterly:
		return t.AddDate(0, 3, 0)
	case PeriodicitySemiAnnual:
		return t.AddDate(0, 6, 0)
	case PeriodicityAnnual:
		return t.AddDate(1, 0, 0)
	}
	return t
}
