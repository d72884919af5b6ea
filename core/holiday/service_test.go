package holiday_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/holiday"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
)

var ctx = context.Background()

func setup(t *testing.T) (holiday.Service, holiday.Repository) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	repo := inmemdb.NewHolidayRepository(db)
	return holiday.NewService(repo), repo
}

func TestCalendarFor(t *testing.T) {
	svc, repo := setup(t)

	for _, hol := range []holiday.Holiday{
		{Date: core.Date(2021, time.January, 1), Name: "new year"},
		{Date: core.Date(2021, time.April, 2), Name: "good friday"},
		{Date: core.Date(2021, time.May, 1), Name: "labour day"},
	} {
		_, err := repo.CreateHoliday(ctx, hol)
		require.NoError(t, err)
	}

	cal, err := svc.CalendarFor(ctx, core.Date(2021, time.January, 1), core.Date(2021, time.April, 30))
	require.NoError(t, err)
	require.Len(t, cal, 2) // labour day is out of range
	assert.True(t, cal.Contains(core.Date(2021, time.January, 1)))
	assert.True(t, cal.Contains(core.Date(2021, time.April, 2)))
	assert.False(t, cal.Contains(core.Date(2021, time.May, 1)))
	assert.False(t, cal.Contains(core.Date(2021, time.February, 15)))
}

func TestCalendarFor_stampsAreTruncated(t *testing.T) {
	svc, repo := setup(t)

	// stored with a wall-clock time; looked up by day
	_, err := repo.CreateHoliday(ctx, holiday.Holiday{
		Date: time.Date(2021, time.April, 2, 14, 30, 0, 0, time.UTC),
		Name: "good friday",
	})
	require.NoError(t, err)

	cal, err := svc.CalendarFor(ctx, core.Date(2021, time.April, 1), core.Date(2021, time.April, 3))
	require.NoError(t, err)
	assert.True(t, cal.Contains(core.Date(2021, time.April, 2)))
}

func TestIsHoliday(t *testing.T) {
	svc, repo := setup(t)

	_, err := repo.CreateHoliday(ctx, holiday.Holiday{Date: core.Date(2021, time.April, 2), Name: "good friday"})
	require.NoError(t, err)

	ok, err := svc.IsHoliday(ctx, core.Date(2021, time.April, 2))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsHoliday(ctx, core.Date(2021, time.April, 5))
	require.NoError(t, err)
	assert.False(t, ok)
}
