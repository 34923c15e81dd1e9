package ledger

import "time"

// DateLayout is the calendar-date form used throughout the ledger.
const DateLayout = "2006-01-02"

// lectureDay reports whether t falls on a valid lecture day (Tuesday-Friday).
func lectureDay(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Tuesday && wd <= time.Friday
}

// nextLectureDay returns the first valid lecture day strictly after t.
// Terminates within six steps: every 7-day window contains Tue-Fri.
func nextLectureDay(t time.Time) time.Time {
	cur := t.AddDate(0, 0, 1)
	for !lectureDay(cur) {
		cur = cur.AddDate(0, 0, 1)
	}
	return cur
}

// ActiveDate computes the next date eligible for an attendance submission,
// given the most recent recorded date (empty string when the ledger is empty)
// and the current wall-clock date. Pure function, no side effects.
//
// Today is returned directly when it is a lecture day and strictly later than
// the last record; this lets an admin catch up after skipping a day that has
// since passed. In every other case the result advances past the last record,
// so with a non-empty ledger the active date is never <= the last date, even
// when the last record sits in the future relative to today.
func ActiveDate(lastDate string, today time.Time) (date, day string) {
	if lastDate == "" {
		active := today
		if !lectureDay(active) {
			active = nextLectureDay(today)
		}
		return active.Format(DateLayout), active.Weekday().String()
	}

	todayStr := today.Format(DateLayout)
	if lectureDay(today) && todayStr > lastDate {
		return todayStr, today.Weekday().String()
	}

	last, err := time.Parse(DateLayout, lastDate)
	if err != nil {
		// Unparseable last date cannot come from the ledger; behave as if
		// the ledger were empty rather than failing a read-only call.
		return ActiveDate("", today)
	}
	active := nextLectureDay(last)
	return active.Format(DateLayout), active.Weekday().String()
}
