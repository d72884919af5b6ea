package attendance_test

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/schedule"
)

func TestMark_upsertsPerSessionSlot(t *testing.T) {
	svc, _, _, _ := setup(t)

	first, err := svc.Mark(ctx, student.ID, attendance.NewOutcome{
		Date:    "2021-01-04",
		Subject: "maths",
		Kind:    schedule.KindTheory,
		Status:  attendance.StatusPresent,
	})
	require.NoError(t, err)

	// correcting the same slot replaces the row instead of adding one
	second, err := svc.Mark(ctx, student.ID, attendance.NewOutcome{
		Date:    "2021-01-04",
		Subject: "maths",
		Kind:    schedule.KindTheory,
		Status:  attendance.StatusAbsent,
	})
	require.NoError(t, err)

	outcomes, err := svc.OutcomesInRange(ctx, student.ID, semester)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, attendance.StatusAbsent, outcomes[0].Status)
	assert.Equal(t, first.ID, outcomes[0].ID)
	assert.Equal(t, first.CreatedAt, outcomes[0].CreatedAt)
	assert.Equal(t, second.UpdatedAt, outcomes[0].UpdatedAt)

	// a different kind on the same date is its own slot
	_, err = svc.Mark(ctx, student.ID, attendance.NewOutcome{
		Date:    "2021-01-04",
		Subject: "maths",
		Kind:    schedule.KindLab,
		Status:  attendance.StatusPresent,
	})
	require.NoError(t, err)

	outcomes, err = svc.OutcomesInRange(ctx, student.ID, semester)
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)
}

func TestMark_validation(t *testing.T) {
	svc, _, _, _ := setup(t)

	tests := []struct {
		name string
		no   attendance.NewOutcome
	}{
		{"empty", attendance.NewOutcome{}},
		{"bad date", attendance.NewOutcome{Date: "01/04/2021", Subject: "maths", Kind: schedule.KindTheory, Status: attendance.StatusPresent}},
		{"bad kind", attendance.NewOutcome{Date: "2021-01-04", Subject: "maths", Kind: "seminar", Status: attendance.StatusPresent}},
		{"bad status", attendance.NewOutcome{Date: "2021-01-04", Subject: "maths", Kind: schedule.KindTheory, Status: "late"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Mark(ctx, student.ID, tt.no)
			assert.IsType(t, validator.ValidationErrors{}, err)
		})
	}
}

func TestSummarize(t *testing.T) {
	svc, attRepo, _, _ := setup(t)

	seedOutcome(t, attRepo, core.Date(2021, time.January, 4), "maths", schedule.KindTheory, attendance.StatusPresent)
	seedOutcome(t, attRepo, core.Date(2021, time.January, 6), "maths", schedule.KindTheory, attendance.StatusAbsent)
	seedOutcome(t, attRepo, core.Date(2021, time.January, 8), "maths", schedule.KindTheory, attendance.StatusCancelled)
	seedOutcome(t, attRepo, core.Date(2021, time.January, 4), "physics", schedule.KindLab, attendance.StatusPresent)
	// unknown rows contribute to nothing
	seedOutcome(t, attRepo, core.Date(2021, time.January, 11), "maths", schedule.KindTheory, "late")
	// outside the window
	seedOutcome(t, attRepo, core.Date(2020, time.December, 18), "maths", schedule.KindTheory, attendance.StatusPresent)

	sum, err := svc.Summarize(ctx, student.ID, semester)
	require.NoError(t, err)
	assert.Equal(t, attendance.KindTally{Held: 2, Attended: 1, Missed: 1, Cancelled: 1}, sum.Theory)
	assert.Equal(t, attendance.KindTally{Held: 1, Attended: 1}, sum.Lab)
}

func TestSetImportedTotals(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.ImportedTotals(ctx, student.ID, "maths")
	assert.Equal(t, attendance.ErrImportNotFound, err)

	got, err := svc.SetImportedTotals(ctx, student.ID, " maths ", attendance.NewImport{
		TheoryTotal:    40,
		TheoryAttended: 31,
		LabTotal:       12,
		LabAttended:    12,
		CutoverDate:    "2021-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "maths", got.Subject)
	require.True(t, got.CutoverDate.Valid)
	assert.Equal(t, core.Date(2021, time.February, 1), got.CutoverDate.Time)

	// re-importing replaces the previous totals
	got, err = svc.SetImportedTotals(ctx, student.ID, "maths", attendance.NewImport{
		TheoryTotal:    42,
		TheoryAttended: 33,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got.TheoryTotal)
	assert.False(t, got.CutoverDate.Valid)

	fetched, err := svc.ImportedTotals(ctx, student.ID, "maths")
	require.NoError(t, err)
	assert.Equal(t, 42, fetched.TheoryTotal)
	assert.Equal(t, 33, fetched.TheoryAttended)

	// subjects are case-sensitive keys; a differently cased subject is its own import
	_, err = svc.ImportedTotals(ctx, student.ID, "Maths")
	assert.Equal(t, attendance.ErrImportNotFound, err)
}

func TestSetImportedTotals_validation(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.SetImportedTotals(ctx, student.ID, "  ", attendance.NewImport{})
	assert.Equal(t, attendance.ErrSubjectRequired, err)

	tests := []struct {
		name string
		ni   attendance.NewImport
	}{
		{"negative total", attendance.NewImport{TheoryTotal: -1}},
		{"attended above total", attendance.NewImport{TheoryTotal: 10, TheoryAttended: 11}},
		{"lab attended above total", attendance.NewImport{LabTotal: 5, LabAttended: 6}},
		{"bad cutover", attendance.NewImport{TheoryTotal: 10, TheoryAttended: 8, CutoverDate: "Feb 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetImportedTotals(ctx, student.ID, "maths", tt.ni)
			assert.IsType(t, validator.ValidationErrors{}, err)
		})
	}
}
