package schedule

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Session kinds
const (
	KindTheory = "theory"
	KindLab    = "lab"
)

// InstructionalWeekdays are the only days that may carry sessions.
// Saturday and Sunday are hard-excluded regardless of timetable data.
var InstructionalWeekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

type (
	// Session is one scheduled occurrence of a subject on a given weekday
	// of a (division, batch) timetable. Produced fresh per lookup; never mutated.
	Session struct {
		ID        string       `json:"id" db:"id"`
		TermID    string       `json:"term_id" db:"term_id"`
		Division  string       `json:"division" db:"division"`
		Batch     string       `json:"batch" db:"batch"`
		Weekday   time.Weekday `json:"weekday" db:"weekday"`
		Subject   string       `json:"subject" db:"subject"`
		Kind      string       `json:"kind" db:"kind"`
		Room      null.String  `json:"room" db:"room"`
		StartTime null.String  `json:"start_time" db:"start_time"` // "HH:MM", display only
		EndTime   null.String  `json:"end_time" db:"end_time"`
	}

	// Filter narrows a timetable lookup. Weekday is ignored unless ByWeekday is set.
	Filter struct {
		TermID    string
		Division  string
		Batch     string
		Weekday   time.Weekday
		ByWeekday bool
	}

	// WeekPattern maps every weekday to whether a subject holds a theory
	// session on it. All seven days are always present.
	WeekPattern map[time.Weekday]bool
)

// On reports whether the pattern is active on `wd`.
func (p WeekPattern) On(wd time.Weekday) bool { return p[wd] }

// ActiveDays returns the number of active weekdays in the pattern.
func (p WeekPattern) ActiveDays() int {
	var n int
	for _, active := range p {
		if active {
			n++
		}
	}
	return n
}

func emptyWeekPattern() WeekPattern {
	p := make(WeekPattern, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		p[wd] = false
	}
	return p
}
