package holiday

import "time"

// Holiday is one non-instructional day.
type Holiday struct {
	Date time.Time `json:"date" db:"date"`
	Name string    `json:"name" db:"name"`
}

// Calendar is a set of non-instructional days, keyed by UTC midnight date.
type Calendar map[time.Time]Holiday

// Contains reports whether `date` (already truncated to its UTC day) is a holiday.
func (c Calendar) Contains(date time.Time) bool {
	_, ok := c[date]
	return ok
}
