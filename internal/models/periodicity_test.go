package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodLabel(t *testing.T) {
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	aug := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, " Gennaio 2026", PeriodLabel(PeriodicityMonthly, jan))
	assert.Equal(t, " I trim. 2026", PeriodLabel(PeriodicityQuarterly, jan))
	assert.Equal(t, " III trim. 2026", PeriodLabel(PeriodicityQuarterly, aug))
	assert.Equal(t, " I sem. 2026", PeriodLabel(PeriodicitySemiAnnual, jan))
	assert.Equal(t, " II sem. 2026", PeriodLabel(PeriodicitySemiAnnual, aug))
	assert.Equal(t, " 2026", PeriodLabel(PeriodicityAnnual, jan))
	assert.Equal(t, "", PeriodLabel(PeriodicityOneOff, jan))
	assert.Equal(t, "", PeriodLabel(PeriodicityMonthly, time.Time{}))
}

func TestAddPeriod(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), AddPeriod(start, PeriodicityMonthly))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), AddPeriod(start, PeriodicityQuarterly))
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), AddPeriod(start, PeriodicitySemiAnnual))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), AddPeriod(start, PeriodicityAnnual))
	assert.Equal(t, start, AddPeriod(start, PeriodicityOneOff))
}
