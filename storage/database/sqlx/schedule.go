package sqlxrepos

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/schedule"
)

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateSession(ctx context.Context, sess schedule.Session) (schedule.Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO schedule_session (id, term_id, division, batch, weekday, subject, kind, room, start_time, end_time)
		VALUES (:id, :term_id, :division, :batch, :weekday, :subject, :kind, :room, :start_time, :end_time)`,
		sess)
	if err != nil {
		return schedule.Session{}, errors.Wrap(err, "creating session")
	}
	return sess, nil
}

func (repo *scheduleRepository) GetSessions(ctx context.Context, filter schedule.Filter) ([]schedule.Session, error) {
	query := `SELECT * FROM schedule_session WHERE division = $1 AND batch = $2`
	args := []interface{}{filter.Division, filter.Batch}

	if filter.TermID != "" {
		args = append(args, filter.TermID)
		query += ` AND term_id = $` + strconv.Itoa(len(args))
	}
	if filter.ByWeekday {
		args = append(args, filter.Weekday)
		query += ` AND weekday = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY weekday, start_time`

	var sessions []schedule.Session
	if err := repo.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return sessions, nil
}
