package utils

import (
	"sort"
	"time"

	"github.com/LupryM/Birthday-reminder-app/models"
)

// Birthday math works on calendar dates only; time-of-day is discarded.
// A Feb 29 birthday counts as Mar 1 in non-leap years, which falls out of
// time.Date's normalization. Day counts are exact, so shifting today by a
// whole year changes the count by one whenever exactly one of the two
// windows contains a Feb 29; it is stable otherwise.

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// thisYearsOccurrence places the birthday's month/day into the given year.
func thisYearsOccurrence(birthday time.Time, year int) time.Time {
	return time.Date(year, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
}

// Age returns whole years lived, one less if the birthday has not yet
// happened this year.
func Age(birthday, today time.Time) int {
	age := today.Year() - birthday.Year()
	if today.Month() < birthday.Month() ||
		(today.Month() == birthday.Month() && today.Day() < birthday.Day()) {
		age--
	}
	return age
}

// DaysUntilBirthday returns how many whole days remain until the next
// occurrence of the birthday, 0 when it is today. Always in [0, 366].
func DaysUntilBirthday(birthday, today time.Time) int {
	t := atMidnight(today)
	next := thisYearsOccurrence(birthday, t.Year())
	if next.Before(t) {
		next = thisYearsOccurrence(birthday, t.Year()+1)
	}
	return int(next.Sub(t).Hours() / 24)
}

// IsBirthdayToday reports whether the birthday's next occurrence is today,
// regardless of year. True exactly when DaysUntilBirthday returns 0.
func IsBirthdayToday(birthday, today time.Time) bool {
	return DaysUntilBirthday(birthday, today) == 0
}

// SortByUpcomingBirthday returns the profiles stably sorted by ascending
// days-until-birthday. The input slice is not modified.
func SortByUpcomingBirthday(profiles []models.Profile, today time.Time) []models.Profile {
	sorted := make([]models.Profile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return DaysUntilBirthday(sorted[i].BirthdayDate(), today) <
			DaysUntilBirthday(sorted[j].BirthdayDate(), today)
	})
	return sorted
}
