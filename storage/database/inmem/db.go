package inmemdb

import (
	"sync"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/holiday"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/user"
)

type (
	DB struct {
		user       *userTable
		attendance *attendanceTable
		schedule   *scheduleTable
		holiday    *holidayTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	outcomeKey struct {
		userID  string
		date    time.Time
		subject string
		kind    string
	}

	importKey struct {
		userID  string
		subject string
	}

	attendanceTable struct {
		sync.RWMutex
		outcomes map[outcomeKey]*attendance.Outcome
		imports  map[importKey]*attendance.ImportedTotals
	}

	scheduleTable struct {
		sync.RWMutex
		table []schedule.Session
	}

	holidayTable struct {
		sync.RWMutex
		table map[time.Time]*holiday.Holiday
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		attendance: &attendanceTable{
			outcomes: make(map[outcomeKey]*attendance.Outcome),
			imports:  make(map[importKey]*attendance.ImportedTotals),
		},
		schedule: &scheduleTable{},
		holiday:  &holidayTable{table: make(map[time.Time]*holiday.Holiday)},
	}
	return db, nil
}
