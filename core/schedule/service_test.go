package schedule_test

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core/schedule"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
)

var ctx = context.Background()

const term = "sem-1"

func setup(t *testing.T) (schedule.Service, schedule.Repository) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	repo := inmemdb.NewScheduleRepository(db)
	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
	return schedule.NewService(repo, logger), repo
}

func seed(t *testing.T, repo schedule.Repository, wd time.Weekday, subject, kind, start string) {
	t.Helper()
	_, err := repo.CreateSession(ctx, schedule.Session{
		TermID:    term,
		Division:  "d1",
		Batch:     "b2",
		Weekday:   wd,
		Subject:   subject,
		Kind:      kind,
		StartTime: null.NewString(start, start != ""),
	})
	require.NoError(t, err)
}

func TestWeekdaySessions(t *testing.T) {
	svc, repo := setup(t)
	seed(t, repo, time.Monday, "maths", schedule.KindTheory, "10:00")
	seed(t, repo, time.Monday, "physics", schedule.KindLab, "08:00")
	seed(t, repo, time.Wednesday, "maths", schedule.KindTheory, "09:00")

	sessions, err := svc.WeekdaySessions(ctx, term, "d1", "b2", time.Monday)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// ordered by start time within the day
	assert.Equal(t, "physics", sessions[0].Subject)
	assert.Equal(t, "maths", sessions[1].Subject)

	// division/batch are matched case-insensitively
	sessions, err = svc.WeekdaySessions(ctx, term, "D1", "B2", time.Monday)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	// unknown combination is an empty day, not an error
	sessions, err = svc.WeekdaySessions(ctx, term, "d9", "b9", time.Monday)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestWeekTimetable(t *testing.T) {
	svc, repo := setup(t)
	seed(t, repo, time.Monday, "maths", schedule.KindTheory, "10:00")
	seed(t, repo, time.Thursday, "chemistry", schedule.KindLab, "14:00")

	timetable, err := svc.WeekTimetable(ctx, term, "d1", "b2")
	require.NoError(t, err)
	require.Len(t, timetable, len(schedule.InstructionalWeekdays))
	assert.Len(t, timetable[time.Monday], 1)
	assert.Len(t, timetable[time.Thursday], 1)
	// empty days are present as empty lists
	assert.Empty(t, timetable[time.Tuesday])
}

func TestTheoryWeekPattern(t *testing.T) {
	svc, repo := setup(t)
	seed(t, repo, time.Monday, "maths", schedule.KindTheory, "")
	seed(t, repo, time.Wednesday, "maths", schedule.KindTheory, "")
	seed(t, repo, time.Friday, "maths", schedule.KindTheory, "")
	// must not light up the pattern
	seed(t, repo, time.Tuesday, "maths", schedule.KindLab, "")
	seed(t, repo, time.Thursday, "physics", schedule.KindTheory, "")
	seed(t, repo, time.Saturday, "maths", schedule.KindTheory, "")

	pattern := svc.TheoryWeekPattern(ctx, term, "d1", "b2", "maths")
	assert.Equal(t, 3, pattern.ActiveDays())
	assert.True(t, pattern.On(time.Monday))
	assert.True(t, pattern.On(time.Wednesday))
	assert.True(t, pattern.On(time.Friday))
	assert.False(t, pattern.On(time.Tuesday))
	assert.False(t, pattern.On(time.Thursday))
	assert.False(t, pattern.On(time.Saturday))
	assert.False(t, pattern.On(time.Sunday))
}

func TestTheoryWeekPattern_noTimetable(t *testing.T) {
	svc, _ := setup(t)

	pattern := svc.TheoryWeekPattern(ctx, term, "d1", "b2", "maths")
	assert.Equal(t, 0, pattern.ActiveDays())
	// all seven days are present and off
	assert.Len(t, pattern, 7)
}
