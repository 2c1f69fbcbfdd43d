package services

import "time"

// dueDateFor computes the due date of an obligation inside a target month.
// Days beyond the month's length clamp to the last day, so a template due
// on the 31st falls due on Feb 28 (29 in leap years) rather than rolling
// over into March.
func dueDateFor(year, month, dayOfMonthDue int) time.Time {
	day := dayOfMonthDue
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year, month int) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthWindow returns the half-open interval [start, end) covering the
// given calendar month.
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
