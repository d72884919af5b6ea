package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) CreateSession(ctx context.Context, sess schedule.Session) (schedule.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	repo.db.table = append(repo.db.table, sess)
	return sess, nil
}

func (repo *scheduleRepository) GetSessions(ctx context.Context, filter schedule.Filter) ([]schedule.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sessions := make([]schedule.Session, 0)
	for _, sess := range repo.db.table {
		if filter.TermID != "" && sess.TermID != filter.TermID {
			continue
		}
		if sess.Division != filter.Division || sess.Batch != filter.Batch {
			continue
		}
		if filter.ByWeekday && sess.Weekday != filter.Weekday {
			continue
		}
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Weekday != sessions[j].Weekday {
			return sessions[i].Weekday < sessions[j].Weekday
		}
		return sessions[i].StartTime.String < sessions[j].StartTime.String
	})
	return sessions, nil
}
