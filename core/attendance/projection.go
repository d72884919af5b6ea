package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/holiday"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/user"
)

// Project gathers the subject's week pattern, the student's recorded history,
// any imported legacy totals and the holiday calendar (the reads are
// independent and run concurrently), then tallies the history up to evalDate,
// walks the remaining schedule to the semester end and assembles the
// projection.
func (svc *service) Project(ctx context.Context, student user.User, subject, termID string, evalDate time.Time, win Window) (Projection, error) {
	subject = core.CleanString(subject)
	if subject == "" {
		return Projection{}, ErrSubjectRequired
	}
	evalDate = core.DateOf(evalDate)
	win = win.Normalize()

	var (
		pattern  schedule.WeekPattern
		outcomes []Outcome
		imported ImportedTotals
		cal      holiday.Calendar
	)

	// all collaborator reads degrade to empty inputs; a projection renders
	// "no data yet" rather than failing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pattern = svc.scheduleSvc.TheoryWeekPattern(gctx, termID, student.Division, student.Batch, subject)
		return nil
	})
	g.Go(func() error {
		recs, err := svc.repo.GetOutcomesInRange(gctx, student.ID, win.StartDate, win.EndDate)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("fetching outcomes for %s: %v", student.Username, err))
			return nil
		}
		outcomes = recs
		return nil
	})
	g.Go(func() error {
		imp, err := svc.repo.GetImportedTotals(gctx, student.ID, subject)
		if err != nil {
			if err != ErrImportNotFound {
				svc.logger.Warn(fmt.Sprintf("fetching imported totals for %s/%s: %v", student.Username, subject, err))
			}
			return nil
		}
		imported = imp
		return nil
	})
	g.Go(func() error {
		hols, err := svc.holidaySvc.CalendarFor(gctx, win.StartDate, win.EndDate)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("fetching holiday calendar: %v", err))
			return nil
		}
		cal = hols
		return nil
	})
	_ = g.Wait()

	tally := svc.tally(subject, evalDate, outcomes, imported, pattern, cal)
	remaining := remainingLectures(pattern, cal, evalDate, win.EndDate)
	return assemble(subject, evalDate, tally, remaining), nil
}

// tally counts theory lectures held, attended and missed for one subject from
// the start of history through evalDate inclusive, seeded with the imported
// legacy totals.
func (svc *service) tally(
	subject string,
	evalDate time.Time,
	outcomes []Outcome,
	imported ImportedTotals,
	pattern schedule.WeekPattern,
	cal holiday.Calendar,
) Tally {
	tally := Tally{
		TotalLectures:    imported.TheoryTotal,
		AttendedLectures: imported.TheoryAttended,
		MissedLectures:   imported.TheoryTotal - imported.TheoryAttended,
	}

	// the store upserts one row per (date, subject, kind); guard against
	// duplicates anyway so a double-synced row can never double count
	seen := make(map[outcomeKey]bool, len(outcomes))
	for _, rec := range outcomes {
		date := core.DateOf(rec.Date)
		if date.After(evalDate) {
			continue
		}
		if rec.Kind != schedule.KindTheory || rec.Subject != subject {
			continue
		}
		if cal.Contains(date) {
			continue
		}
		if !pattern.On(date.Weekday()) {
			continue
		}
		if !imported.CountsAfterCutover(date) {
			continue // already folded into the imported aggregates
		}
		if key := rec.key(); seen[key] {
			continue
		} else {
			seen[key] = true
		}

		switch rec.Status {
		case StatusPresent:
			tally.TotalLectures++
			tally.AttendedLectures++
		case StatusAbsent:
			tally.TotalLectures++
			tally.MissedLectures++
		case StatusCancelled:
			// held but not counted on either side
		default:
			svc.logger.Warn(fmt.Sprintf("outcome %s has unknown status %q; excluded", rec.ID, rec.Status))
		}
	}
	return tally
}

// remainingLectures counts projected future theory occurrences from the day
// after evalDate through endDate inclusive. Day-by-day, because holidays are
// irregular; an inverted range simply yields 0.
func remainingLectures(pattern schedule.WeekPattern, cal holiday.Calendar, evalDate, endDate time.Time) int {
	var count int
	for date := evalDate.AddDate(0, 0, 1); !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if cal.Contains(date) {
			continue
		}
		if pattern.On(date.Weekday()) {
			count++
		}
	}
	return count
}

// assemble derives the projection figures from the historical tally and the
// remaining-lecture count.
//
// The rounding is deliberately asymmetric: percentages round half up, the
// skip allowance floors and the attend requirement ceils, so tolerances are
// never overstated in the student's favor.
func assemble(subject string, evalDate time.Time, tally Tally, remaining int) Projection {
	total := float64(tally.TotalLectures)
	attended := float64(tally.AttendedLectures)
	missed := float64(tally.MissedLectures)

	canSkip := int(math.Floor((1-minTheoryRatio)*total - missed))
	if canSkip < 0 {
		canSkip = 0
	}
	requiredToAttend := int(math.Ceil(minTheoryRatio*total - attended))
	if requiredToAttend < 0 {
		requiredToAttend = 0
	}

	totalWithRemaining := tally.TotalLectures + remaining
	requiredForMinimum := int(math.Ceil(minTheoryRatio * float64(totalWithRemaining)))
	// when no lectures remain and none were held, requiredForMinimum is 0 and
	// trivially satisfied
	reachable := tally.AttendedLectures+remaining >= requiredForMinimum
	var short int
	if !reachable {
		short = requiredForMinimum - (tally.AttendedLectures + remaining)
	}

	return Projection{
		Subject:        subject,
		EvaluationDate: evalDate,

		Tally:             tally,
		CurrentPercentage: roundPercent(tally.AttendedLectures, tally.TotalLectures),
		CanSkip:           canSkip,
		RequiredToAttend:  requiredToAttend,

		RemainingLectures:          remaining,
		TotalLecturesWithRemaining: totalWithRemaining,
		RequiredForMinimum:         requiredForMinimum,
		CanReachMinimum:            reachable,
		ShortByLectures:            short,
		MaxPossiblePercentage:      roundPercent(tally.AttendedLectures+remaining, totalWithRemaining),
	}
}

// roundPercent rounds n/d to a whole percentage, half up; 0 when d is 0.
func roundPercent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}
