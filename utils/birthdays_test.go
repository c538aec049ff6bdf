package utils

import (
	"testing"
	"time"

	"github.com/LupryM/Birthday-reminder-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	birthday := date(1990, time.March, 15)

	assert.Equal(t, 33, Age(birthday, date(2024, time.March, 14)))
	assert.Equal(t, 34, Age(birthday, date(2024, time.March, 15)))
	assert.Equal(t, 34, Age(birthday, date(2024, time.December, 31)))
}

func TestDaysUntilBirthday(t *testing.T) {
	today := date(2024, time.March, 15)

	// Today, regardless of birth year.
	assert.Equal(t, 0, DaysUntilBirthday(date(1990, time.March, 15), today))

	// Tomorrow.
	assert.Equal(t, 1, DaysUntilBirthday(date(1985, time.March, 16), today))

	// Yesterday's date wraps to next year: 2024-03-15 -> 2025-03-14.
	assert.Equal(t, 364, DaysUntilBirthday(date(2001, time.March, 14), today))
}

func TestDaysUntilBirthdayIgnoresTimeOfDay(t *testing.T) {
	birthday := date(1990, time.March, 15)
	lateEvening := time.Date(2024, time.March, 15, 23, 45, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntilBirthday(birthday, lateEvening))
}

func TestDaysUntilBirthdayFeb29(t *testing.T) {
	birthday := date(2000, time.February, 29)

	// Leap year: the day exists.
	assert.Equal(t, 0, DaysUntilBirthday(birthday, date(2024, time.February, 29)))

	// Non-leap year: Feb 29 normalizes to Mar 1.
	assert.Equal(t, 1, DaysUntilBirthday(birthday, date(2023, time.February, 28)))
	assert.Equal(t, 0, DaysUntilBirthday(birthday, date(2023, time.March, 1)))
}

func TestDaysUntilBirthdayRange(t *testing.T) {
	today := date(2024, time.June, 10)

	// Every calendar date of a leap birth year stays within a year's reach.
	for d := date(2000, time.January, 1); d.Year() == 2000; d = d.AddDate(0, 0, 1) {
		days := DaysUntilBirthday(d, today)
		require.GreaterOrEqual(t, days, 0, "birthday %s", d.Format("01-02"))
		require.LessOrEqual(t, days, 366, "birthday %s", d.Format("01-02"))
	}
}

func TestDaysUntilBirthdayYearPeriodicity(t *testing.T) {
	// The count repeats across whole-year shifts as long as neither window
	// to the next occurrence contains a Feb 29. 2025 and 2026 both reach
	// into leap-free territory for a March birthday.
	birthday := date(1990, time.March, 15)

	for today := date(2025, time.January, 1); today.Year() == 2025; today = today.AddDate(0, 0, 1) {
		require.Equal(t,
			DaysUntilBirthday(birthday, today),
			DaysUntilBirthday(birthday, today.AddDate(1, 0, 0)),
			"today %s", today.Format("2006-01-02"))
	}
}

func TestDaysUntilBirthdayLeapWindowShiftsByOne(t *testing.T) {
	// Exact day counts: a window that gains a Feb 29 counts one day more.
	birthday := date(1990, time.December, 31)

	withLeapDay := DaysUntilBirthday(birthday, date(2024, time.February, 28))
	withoutLeapDay := DaysUntilBirthday(birthday, date(2023, time.February, 28))
	assert.Equal(t, withoutLeapDay+1, withLeapDay)
}

func TestIsBirthdayToday(t *testing.T) {
	birthday := date(1995, time.July, 4)

	assert.True(t, IsBirthdayToday(birthday, date(2024, time.July, 4)))
	assert.False(t, IsBirthdayToday(birthday, date(2024, time.July, 5)))

	// Equivalent to a zero day count.
	assert.Equal(t, IsBirthdayToday(birthday, date(2024, time.July, 4)),
		DaysUntilBirthday(birthday, date(2024, time.July, 4)) == 0)
}

func TestSortByUpcomingBirthday(t *testing.T) {
	today := date(2024, time.March, 15)
	profiles := []models.Profile{
		{ID: "a", Name: "Ana", Birthday: "1990-06-01"},
		{ID: "b", Name: "Ben", Birthday: "1992-03-16"},
		{ID: "c", Name: "Cleo", Birthday: "1988-03-15"},
		{ID: "d", Name: "Dan", Birthday: "1991-03-14"},
	}

	sorted := SortByUpcomingBirthday(profiles, today)

	require.Len(t, sorted, 4)
	assert.Equal(t, "c", sorted[0].ID) // today
	assert.Equal(t, "b", sorted[1].ID) // tomorrow
	assert.Equal(t, "a", sorted[2].ID) // June
	assert.Equal(t, "d", sorted[3].ID) // wrapped to next year

	// Input order untouched.
	assert.Equal(t, "a", profiles[0].ID)
}

func TestSortByUpcomingBirthdayStable(t *testing.T) {
	today := date(2024, time.March, 15)
	profiles := []models.Profile{
		{ID: "x", Birthday: "1990-05-01"},
		{ID: "y", Birthday: "1985-05-01"},
		{ID: "z", Birthday: "2000-05-01"},
	}

	sorted := SortByUpcomingBirthday(profiles, today)

	// Ties keep their original relative order.
	assert.Equal(t, []string{"x", "y", "z"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
}
