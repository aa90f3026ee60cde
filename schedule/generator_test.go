package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/propdesk/rental_management_system/backend/models"
	"github.com/propdesk/rental_management_system/backend/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyDueDates(t *testing.T) {
	dates := schedule.DueDates(date(2024, 1, 1), date(2024, 3, 1), models.FrequencyMonthly)

	assert.Equal(t, []time.Time{
		date(2024, 1, 1),
		date(2024, 2, 1),
		date(2024, 3, 1),
	}, dates)
}

func TestQuarterlyDueDates(t *testing.T) {
	dates := schedule.DueDates(date(2024, 1, 15), date(2024, 12, 31), models.FrequencyQuarterly)

	assert.Equal(t, []time.Time{
		date(2024, 1, 15),
		date(2024, 4, 15),
		date(2024, 7, 15),
		date(2024, 10, 15),
	}, dates)
}

func TestYearlyDueDates(t *testing.T) {
	dates := schedule.DueDates(date(2022, 6, 1), date(2024, 6, 1), models.FrequencyYearly)

	assert.Equal(t, []time.Time{
		date(2022, 6, 1),
		date(2023, 6, 1),
		date(2024, 6, 1),
	}, dates)
}

func TestStartAfterEndYieldsEmptyBatch(t *testing.T) {
	dates := schedule.DueDates(date(2024, 5, 1), date(2024, 1, 1), models.FrequencyMonthly)
	assert.Empty(t, dates)
	assert.NotNil(t, dates)
}

func TestSingleDayRange(t *testing.T) {
	d := date(2024, 7, 1)
	dates := schedule.DueDates(d, d, models.FrequencyMonthly)
	assert.Equal(t, []time.Time{d}, dates)
}

// AddDate normalizes month-end overflow: Jan 31 + 1 month in a leap year is
// Mar 2. The generator inherits that behavior rather than clamping.
func TestMonthEndOverflowNormalizes(t *testing.T) {
	dates := schedule.DueDates(date(2024, 1, 31), date(2024, 3, 15), models.FrequencyMonthly)

	assert.Equal(t, []time.Time{
		date(2024, 1, 31),
		date(2024, 3, 2),
	}, dates)
}

func TestDueDatesAreMonotonicallyIncreasing(t *testing.T) {
	dates := schedule.DueDates(date(2023, 1, 31), date(2026, 1, 1), models.FrequencyMonthly)
	assert.NotEmpty(t, dates)
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]), "dates[%d] must be after dates[%d]", i, i-1)
	}
}
