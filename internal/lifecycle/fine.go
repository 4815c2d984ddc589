package lifecycle

import (
	"math"
	"time"
)

// OverdueDays is the calendar-day ceiling of the wall-clock time past the
// due date: ceil((now - due) / 24h). A loan one minute late owes one day.
// No business-day or partial-day logic.
func OverdueDays(due, now time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(math.Ceil(now.Sub(due).Hours() / 24))
}

// Fine is the monetary penalty for a number of overdue days at the policy's
// fixed daily rate.
func (p Policy) Fine(overdueDays int) int {
	if overdueDays <= 0 {
		return 0
	}
	return overdueDays * p.DailyFineRate
}
