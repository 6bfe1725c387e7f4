package workday

import "time"

// IsWeekday reports whether the date falls on Monday through Friday.
// Public holidays are not considered; the invoices in scope arrive with
// enough slack that a holiday off-by-one does not matter.
func IsWeekday(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// OfMonth counts the working days from the first of the month up to and
// including the given date. A weekend date carries the count of the preceding
// weekdays.
func OfMonth(d time.Time) int {
	count := 0
	cur := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	for !cur.After(d) {
		if IsWeekday(cur) {
			count++
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return count
}

// IsNth reports whether the date is exactly the nth working day of its month.
// Weekend dates are never the nth working day.
func IsNth(d time.Time, n int) bool {
	return IsWeekday(d) && OfMonth(d) == n
}
