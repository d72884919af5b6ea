package attendance_test

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/holiday"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/user"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
)

var (
	ctx = context.Background()

	term    = "sem-1"
	student = user.User{
		ID:       "11c77b6a-6ef1-4186-a0bf-ad0b1a1e3b01",
		Name:     "Imani K",
		Username: "imani",
		Email:    "imani@test.cd",
		Division: "d1",
		Batch:    "b2",
		IsActive: true,
		Roles:    []string{user.RoleStudent},
	}

	// Jan 1 2021 is a Friday; Apr 30 2021 is a Friday.
	semester = attendance.Window{
		StartDate: core.Date(2021, time.January, 1),
		EndDate:   core.Date(2021, time.April, 30),
	}

	// the first 10 Mon/Wed/Fri instruction dates of the semester
	mwfJanDates = []time.Time{
		core.Date(2021, time.January, 1),  // Fri
		core.Date(2021, time.January, 4),  // Mon
		core.Date(2021, time.January, 6),  // Wed
		core.Date(2021, time.January, 8),  // Fri
		core.Date(2021, time.January, 11), // Mon
		core.Date(2021, time.January, 13), // Wed
		core.Date(2021, time.January, 15), // Fri
		core.Date(2021, time.January, 18), // Mon
		core.Date(2021, time.January, 20), // Wed
		core.Date(2021, time.January, 22), // Fri
	}
)

// Mon/Wed/Fri occurrences strictly after Feb 1 2021 through Apr 30 2021,
// no holidays: 11 in February + 14 in March + 13 in April.
const mwfRemainingAfterFeb1 = 38

func setup(t *testing.T) (attendance.Service, attendance.Repository, schedule.Repository, holiday.Repository) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	attRepo := inmemdb.NewAttendanceRepository(db)
	schedRepo := inmemdb.NewScheduleRepository(db)
	holRepo := inmemdb.NewHolidayRepository(db)

	logger := logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
	svc := attendance.NewService(
		attRepo,
		schedule.NewService(schedRepo, logger),
		holiday.NewService(holRepo),
		logger,
	)
	return svc, attRepo, schedRepo, holRepo
}

func seedSession(t *testing.T, repo schedule.Repository, wd time.Weekday, subject, kind string) {
	t.Helper()
	_, err := repo.CreateSession(ctx, schedule.Session{
		TermID:   term,
		Division: student.Division,
		Batch:    student.Batch,
		Weekday:  wd,
		Subject:  subject,
		Kind:     kind,
	})
	require.NoError(t, err)
}

// seedMWFTheory puts a Mon/Wed/Fri theory pattern for `subject` in the
// timetable, plus a Tuesday lab that must never influence the projection.
func seedMWFTheory(t *testing.T, repo schedule.Repository, subject string) {
	t.Helper()
	for _, wd := range []time.Weekday{time.Monday, time.Wednesday, time.Friday} {
		seedSession(t, repo, wd, subject, schedule.KindTheory)
	}
	seedSession(t, repo, time.Tuesday, subject, schedule.KindLab)
}

func seedOutcome(t *testing.T, repo attendance.Repository, date time.Time, subject, kind, status string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := repo.UpsertOutcome(ctx, attendance.Outcome{
		ID:        uuid.New().String(),
		UserID:    student.ID,
		Date:      date,
		Subject:   subject,
		Kind:      kind,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestProject(t *testing.T) {
	evalDate := core.Date(2021, time.February, 1)

	tests := []struct {
		name     string
		statuses []string // applied in order to mwfJanDates
		want     attendance.Projection
	}{
		{
			name: "9 of 10 attended",
			statuses: []string{
				attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
				attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
				attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
				attendance.StatusAbsent,
			},
			want: attendance.Projection{
				Subject:        "maths",
				EvaluationDate: evalDate,
				Tally: attendance.Tally{
					TotalLectures:    10,
					AttendedLectures: 9,
					MissedLectures:   1,
				},
				CurrentPercentage:          90,
				CanSkip:                    1, // floor(2.5 - 1)
				RequiredToAttend:           0,
				RemainingLectures:          mwfRemainingAfterFeb1,
				TotalLecturesWithRemaining: 48,
				RequiredForMinimum:         36, // ceil(0.75 * 48)
				CanReachMinimum:            true,
				ShortByLectures:            0,
				MaxPossiblePercentage:      98, // round(47/48 * 100)
			},
		},
		{
			name: "5 of 10 attended",
			statuses: []string{
				attendance.StatusPresent, attendance.StatusAbsent, attendance.StatusPresent,
				attendance.StatusAbsent, attendance.StatusPresent, attendance.StatusAbsent,
				attendance.StatusPresent, attendance.StatusAbsent, attendance.StatusPresent,
				attendance.StatusAbsent,
			},
			want: attendance.Projection{
				Subject:        "maths",
				EvaluationDate: evalDate,
				Tally: attendance.Tally{
					TotalLectures:    10,
					AttendedLectures: 5,
					MissedLectures:   5,
				},
				CurrentPercentage:          50,
				CanSkip:                    0, // max(0, floor(2.5 - 5))
				RequiredToAttend:           3, // ceil(7.5 - 5)
				RemainingLectures:          mwfRemainingAfterFeb1,
				TotalLecturesWithRemaining: 48,
				RequiredForMinimum:         36,
				CanReachMinimum:            true,
				ShortByLectures:            0,
				MaxPossiblePercentage:      90, // round(43/48 * 100)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, attRepo, schedRepo, _ := setup(t)
			seedMWFTheory(t, schedRepo, "maths")
			for i, status := range tt.statuses {
				seedOutcome(t, attRepo, mwfJanDates[i], "maths", schedule.KindTheory, status)
			}

			got, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject_isIdempotent(t *testing.T) {
	svc, attRepo, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")
	for _, date := range mwfJanDates {
		seedOutcome(t, attRepo, date, "maths", schedule.KindTheory, attendance.StatusPresent)
	}
	evalDate := core.Date(2021, time.February, 1)

	first, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	second, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProject_labOutcomesAreIgnored(t *testing.T) {
	svc, attRepo, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")
	for _, date := range mwfJanDates {
		seedOutcome(t, attRepo, date, "maths", schedule.KindTheory, attendance.StatusPresent)
	}
	evalDate := core.Date(2021, time.February, 1)

	before, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)

	// lab results for the same subject and dates must not move any figure
	for _, date := range mwfJanDates {
		seedOutcome(t, attRepo, date, "maths", schedule.KindLab, attendance.StatusAbsent)
	}
	after, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProject_cancelledSessionsAreExcluded(t *testing.T) {
	svc, attRepo, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")
	for _, date := range mwfJanDates {
		seedOutcome(t, attRepo, date, "maths", schedule.KindTheory, attendance.StatusPresent)
	}
	evalDate := core.Date(2021, time.February, 1)

	before, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	require.Equal(t, 10, before.TotalLectures)

	// re-marking an attended session as cancelled removes it from both sides
	seedOutcome(t, attRepo, mwfJanDates[3], "maths", schedule.KindTheory, attendance.StatusCancelled)

	after, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, before.TotalLectures-1, after.TotalLectures)
	assert.Equal(t, before.AttendedLectures-1, after.AttendedLectures)
	assert.Equal(t, before.MissedLectures, after.MissedLectures)
	assert.Equal(t, before.RemainingLectures, after.RemainingLectures)
}

func TestProject_holidaysAreExcluded(t *testing.T) {
	svc, attRepo, schedRepo, holRepo := setup(t)
	seedMWFTheory(t, schedRepo, "maths")
	for _, date := range mwfJanDates {
		seedOutcome(t, attRepo, date, "maths", schedule.KindTheory, attendance.StatusPresent)
	}
	evalDate := core.Date(2021, time.February, 1)

	before, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)

	// one past lecture day and one future pattern day become holidays
	for _, date := range []time.Time{
		mwfJanDates[1],                     // recorded "present"
		core.Date(2021, time.February, 10), // Wed, projected
	} {
		_, err = holRepo.CreateHoliday(ctx, holiday.Holiday{Date: date, Name: "id-el-fitr"})
		require.NoError(t, err)
	}

	after, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, before.TotalLectures-1, after.TotalLectures)
	assert.Equal(t, before.AttendedLectures-1, after.AttendedLectures)
	assert.Equal(t, before.RemainingLectures-1, after.RemainingLectures)
}

func TestProject_importCutover(t *testing.T) {
	svc, attRepo, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")

	now := time.Now().UTC()
	_, err := attRepo.UpsertImportedTotals(ctx, attendance.ImportedTotals{
		UserID:         student.ID,
		Subject:        "maths",
		TheoryTotal:    10,
		TheoryAttended: 8,
		CutoverDate:    null.TimeFrom(core.Date(2021, time.February, 1)),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)

	evalDate := core.Date(2021, time.March, 1)

	// dated before the cutover: already folded into the imported aggregates
	seedOutcome(t, attRepo, core.Date(2021, time.January, 15), "maths", schedule.KindTheory, attendance.StatusPresent)

	got, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TotalLectures)
	assert.Equal(t, 8, got.AttendedLectures)
	assert.Equal(t, 2, got.MissedLectures)

	// dated on the cutover itself (Mon Feb 1): still folded in, strictly-after rule
	seedOutcome(t, attRepo, core.Date(2021, time.February, 1), "maths", schedule.KindTheory, attendance.StatusPresent)

	got, err = svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TotalLectures)

	// dated after the cutover (Wed Feb 10): counts on top
	seedOutcome(t, attRepo, core.Date(2021, time.February, 10), "maths", schedule.KindTheory, attendance.StatusPresent)

	got, err = svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, 11, got.TotalLectures)
	assert.Equal(t, 9, got.AttendedLectures)
}

func TestProject_emptyHistory(t *testing.T) {
	t.Run("with a schedule", func(t *testing.T) {
		svc, _, schedRepo, _ := setup(t)
		seedMWFTheory(t, schedRepo, "maths")
		evalDate := core.Date(2021, time.February, 1)

		got, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
		require.NoError(t, err)
		assert.Equal(t, 0, got.TotalLectures)
		assert.Equal(t, 0, got.CurrentPercentage)
		assert.Equal(t, 0, got.RequiredToAttend)
		assert.Equal(t, mwfRemainingAfterFeb1, got.RemainingLectures)
		// attending everything left still clears the minimum
		assert.True(t, got.CanReachMinimum)
		assert.Equal(t, 100, got.MaxPossiblePercentage)
	})

	t.Run("without a schedule", func(t *testing.T) {
		svc, _, _, _ := setup(t)
		evalDate := core.Date(2021, time.February, 1)

		got, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
		require.NoError(t, err)
		assert.Zero(t, got.Tally)
		assert.Equal(t, 0, got.RemainingLectures)
		assert.Equal(t, 0, got.CurrentPercentage)
		assert.Equal(t, 0, got.MaxPossiblePercentage)
		// nothing is required, so the minimum is trivially satisfied
		assert.Equal(t, 0, got.RequiredForMinimum)
		assert.True(t, got.CanReachMinimum)
		assert.Equal(t, 0, got.ShortByLectures)
	})
}

func TestProject_unreachableMinimum(t *testing.T) {
	svc, attRepo, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")
	for _, date := range mwfJanDates {
		seedOutcome(t, attRepo, date, "maths", schedule.KindTheory, attendance.StatusAbsent)
	}

	// only Apr 28 (Wed) and Apr 30 (Fri) remain
	evalDate := core.Date(2021, time.April, 26)

	got, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	require.Equal(t, 2, got.RemainingLectures)
	assert.Equal(t, 12, got.TotalLecturesWithRemaining)
	assert.Equal(t, 9, got.RequiredForMinimum) // ceil(0.75 * 12)
	assert.False(t, got.CanReachMinimum)
	assert.Equal(t, 7, got.ShortByLectures) // 9 - (0 + 2)
	assert.Equal(t, 17, got.MaxPossiblePercentage)
}

func TestProject_semesterAlreadyEnded(t *testing.T) {
	svc, _, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")

	// evaluating after the semester end: the walk is an empty range
	evalDate := core.Date(2021, time.May, 15)

	got, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingLectures)
	assert.Equal(t, 0, got.TotalLectures)
	assert.Equal(t, 0, got.CurrentPercentage)
	assert.Equal(t, 0, got.MaxPossiblePercentage)
	assert.Equal(t, 0, got.RequiredForMinimum)
	assert.True(t, got.CanReachMinimum)
}

func TestProject_weekendsNeverCount(t *testing.T) {
	svc, attRepo, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")
	// a stray Saturday session in the timetable data must stay inert
	seedSession(t, schedRepo, time.Saturday, "maths", schedule.KindTheory)

	// Sat Jan 2: even a recorded outcome is ignored off-pattern
	seedOutcome(t, attRepo, core.Date(2021, time.January, 2), "maths", schedule.KindTheory, attendance.StatusPresent)
	evalDate := core.Date(2021, time.February, 1)

	got, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalLectures)
	assert.Equal(t, mwfRemainingAfterFeb1, got.RemainingLectures)
}

func TestProject_otherSubjectsUntouched(t *testing.T) {
	svc, attRepo, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")
	seedMWFTheory(t, schedRepo, "physics")

	seedOutcome(t, attRepo, mwfJanDates[0], "maths", schedule.KindTheory, attendance.StatusPresent)
	seedOutcome(t, attRepo, mwfJanDates[0], "physics", schedule.KindTheory, attendance.StatusAbsent)
	evalDate := core.Date(2021, time.February, 1)

	maths, err := svc.Project(ctx, student, "maths", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, attendance.Tally{TotalLectures: 1, AttendedLectures: 1}, maths.Tally)

	physics, err := svc.Project(ctx, student, "physics", term, evalDate, semester)
	require.NoError(t, err)
	assert.Equal(t, attendance.Tally{TotalLectures: 1, MissedLectures: 1}, physics.Tally)
}

func TestProject_invertedWindow(t *testing.T) {
	svc, _, schedRepo, _ := setup(t)
	seedMWFTheory(t, schedRepo, "maths")

	win := attendance.Window{
		StartDate: core.Date(2021, time.April, 30),
		EndDate:   core.Date(2021, time.January, 1),
	}
	got, err := svc.Project(ctx, student, "maths", term, core.Date(2021, time.February, 1), win)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingLectures)
}

func TestProject_subjectRequired(t *testing.T) {
	svc, _, _, _ := setup(t)

	for _, subject := range []string{"", "   "} {
		_, err := svc.Project(ctx, student, subject, term, core.Date(2021, time.February, 1), semester)
		assert.Equal(t, attendance.ErrSubjectRequired, err)
	}
}
