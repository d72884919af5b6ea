package attendance

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
)

// Outcome statuses
const (
	StatusPresent   = "present"
	StatusAbsent    = "absent"
	StatusCancelled = "cancelled" // excluded from both numerator and denominator
)

// MinTheoryPercent is the minimum required theory attendance. Domain policy:
// lab attendance is expected at 100% and tracked separately; only theory
// sessions are subject to this threshold.
const MinTheoryPercent = 75

const minTheoryRatio = float64(MinTheoryPercent) / 100

type (
	// Outcome is one recorded per-date attendance result. The store keeps at
	// most one row per (user, date, subject, kind); the last write wins.
	Outcome struct {
		ID        string    `json:"id" db:"id"`
		UserID    string    `json:"-" db:"user_id"`
		Date      time.Time `json:"date" db:"date"` // UTC midnight
		Subject   string    `json:"subject" db:"subject"`
		Kind      string    `json:"kind" db:"kind"` // schedule.KindTheory | schedule.KindLab
		Status    string    `json:"status" db:"status"`
		CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	outcomeKey struct {
		date    time.Time
		subject string
		kind    string
	}

	// ImportedTotals is attendance accrued before a user started live
	// tracking, folded in as per-subject aggregates. Detailed records dated
	// on or before CutoverDate are already included in these numbers and
	// must not be counted again.
	ImportedTotals struct {
		UserID         string    `json:"-" db:"user_id"`
		Subject        string    `json:"subject" db:"subject"`
		TheoryTotal    int       `json:"theory_total" db:"theory_total"`
		TheoryAttended int       `json:"theory_attended" db:"theory_attended"`
		LabTotal       int       `json:"lab_total" db:"lab_total"`
		LabAttended    int       `json:"lab_attended" db:"lab_attended"`
		CutoverDate    null.Time `json:"cutover_date" db:"cutover_date"`
		CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt      time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	// Window is an inclusive semester date range. Supplied by configuration
	// or the caller; the engine treats it as an input, not owned state.
	Window struct {
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	}

	// Tally is the historical count of theory lectures for one subject up to
	// an evaluation date, imported totals included.
	Tally struct {
		TotalLectures    int `json:"total_lectures"`
		AttendedLectures int `json:"attended_lectures"`
		MissedLectures   int `json:"missed_lectures"`
	}

	// Projection is the full derived attendance outlook for one subject.
	Projection struct {
		Subject        string    `json:"subject"`
		EvaluationDate time.Time `json:"evaluation_date"`

		Tally
		CurrentPercentage int `json:"current_percentage"`
		// further absences tolerable while staying at or above the minimum
		CanSkip int `json:"can_skip"`
		// lectures needed now to reach the minimum of the current total
		RequiredToAttend int `json:"required_to_attend"`

		RemainingLectures          int  `json:"remaining_lectures"`
		TotalLecturesWithRemaining int  `json:"total_lectures_with_remaining"`
		RequiredForMinimum         int  `json:"required_for_minimum"`
		CanReachMinimum            bool `json:"can_reach_minimum"`
		ShortByLectures            int  `json:"short_by_lectures"`
		MaxPossiblePercentage      int  `json:"max_possible_percentage"`
	}

	// KindTally is a per-session-kind reduction of recorded outcomes.
	KindTally struct {
		Held      int `json:"held"` // present + absent; cancelled excluded
		Attended  int `json:"attended"`
		Missed    int `json:"missed"`
		Cancelled int `json:"cancelled"`
	}

	// Summary is the dashboard reduction across all subjects in a window.
	Summary struct {
		Theory KindTally `json:"theory"`
		Lab    KindTally `json:"lab"`
	}
)

func (o Outcome) key() outcomeKey {
	return outcomeKey{date: core.DateOf(o.Date), subject: o.Subject, kind: o.Kind}
}

// CountsAfterCutover reports whether a detailed record dated `date` adds to
// the totals on top of this import. Strictly after: a record dated on the
// cutover date itself is considered folded into the imported aggregates.
func (it ImportedTotals) CountsAfterCutover(date time.Time) bool {
	if !it.CutoverDate.Valid {
		return true
	}
	return core.DateOf(date).After(core.DateOf(it.CutoverDate.Time))
}

// Normalize truncates both bounds to their UTC days.
func (w Window) Normalize() Window {
	return Window{StartDate: core.DateOf(w.StartDate), EndDate: core.DateOf(w.EndDate)}
}

// Contains reports whether `date` falls within the window, bounds inclusive.
func (w Window) Contains(date time.Time) bool {
	date = core.DateOf(date)
	return !date.Before(w.StartDate) && !date.After(w.EndDate)
}

func (t KindTally) add(status string) KindTally {
	switch status {
	case StatusPresent:
		t.Held++
		t.Attended++
	case StatusAbsent:
		t.Held++
		t.Missed++
	case StatusCancelled:
		t.Cancelled++
	}
	return t
}
