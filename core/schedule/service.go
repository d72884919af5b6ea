package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
)

type (
	Repository interface {
		CreateSession(ctx context.Context, sess Session) (Session, error)
		// GetSessions returns the sessions matching `filter`, in (weekday, start_time) order.
		GetSessions(ctx context.Context, filter Filter) ([]Session, error)
	}

	Service interface {
		// AddSession appends one validated slot to the timetable.
		AddSession(ctx context.Context, ns NewSession) (Session, error)
		// WeekdaySessions returns the sessions scheduled for a (division, batch) on one weekday.
		// An unknown (division, batch, weekday) combination yields an empty list, not an error.
		WeekdaySessions(ctx context.Context, termID, division, batch string, weekday time.Weekday) ([]Session, error)
		// WeekTimetable returns the full Monday..Friday timetable for a (division, batch).
		WeekTimetable(ctx context.Context, termID, division, batch string) (map[time.Weekday][]Session, error)
		// TheoryWeekPattern reports, for every weekday, whether `subject` holds a
		// theory session on it. Saturday and Sunday are always false. Missing
		// timetable data degrades to an all-false day, never an error.
		TheoryWeekPattern(ctx context.Context, termID, division, batch, subject string) WeekPattern
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (svc *service) AddSession(ctx context.Context, ns NewSession) (Session, error) {
	if err := ns.Validate(); err != nil {
		return Session{}, err
	}
	return svc.repo.CreateSession(ctx, Session{
		TermID:    ns.TermID,
		Division:  ns.Division,
		Batch:     ns.Batch,
		Weekday:   time.Weekday(ns.Weekday),
		Subject:   ns.Subject,
		Kind:      ns.Kind,
		Room:      null.NewString(ns.Room, ns.Room != ""),
		StartTime: null.NewString(ns.StartTime, ns.StartTime != ""),
		EndTime:   null.NewString(ns.EndTime, ns.EndTime != ""),
	})
}

func (svc *service) WeekdaySessions(ctx context.Context, termID, division, batch string, weekday time.Weekday) ([]Session, error) {
	return svc.repo.GetSessions(ctx, Filter{
		TermID:    termID,
		Division:  core.CleanString(division, true),
		Batch:     core.CleanString(batch, true),
		Weekday:   weekday,
		ByWeekday: true,
	})
}

func (svc *service) WeekTimetable(ctx context.Context, termID, division, batch string) (map[time.Weekday][]Session, error) {
	sessions, err := svc.repo.GetSessions(ctx, Filter{
		TermID:   termID,
		Division: core.CleanString(division, true),
		Batch:    core.CleanString(batch, true),
	})
	if err != nil {
		return nil, err
	}

	timetable := make(map[time.Weekday][]Session, len(InstructionalWeekdays))
	for _, wd := range InstructionalWeekdays {
		timetable[wd] = []Session{}
	}
	for _, sess := range sessions {
		timetable[sess.Weekday] = append(timetable[sess.Weekday], sess)
	}
	return timetable, nil
}

func (svc *service) TheoryWeekPattern(ctx context.Context, termID, division, batch, subject string) WeekPattern {
	subject = core.CleanString(subject)
	pattern := emptyWeekPattern()

	for _, wd := range InstructionalWeekdays {
		sessions, err := svc.WeekdaySessions(ctx, termID, division, batch, wd)
		if err != nil {
			// no timetable data is "no occurrence", not a failure
			svc.logger.Warn(fmt.Sprintf("timetable lookup failed for %s/%s %s: %v", division, batch, wd, err))
			continue
		}
		for _, sess := range sessions {
			if sess.Subject == subject && sess.Kind == KindTheory {
				pattern[wd] = true
				break
			}
		}
	}
	return pattern
}
