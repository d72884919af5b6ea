package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) GetOutcomesInRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Outcome, error) {
	var outcomes []attendance.Outcome
	err := repo.db.SelectContext(ctx, &outcomes, `
		SELECT * FROM attendance_outcome
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, subject, kind`,
		userID, core.DateOf(start), core.DateOf(end))
	if err != nil {
		return nil, errors.Wrap(err, "querying outcomes")
	}
	return outcomes, nil
}

// UpsertOutcome writes the single row for (user, date, subject, kind).
// A conflicting write keeps the original id and created_at.
func (repo *attendanceRepository) UpsertOutcome(ctx context.Context, o attendance.Outcome) (attendance.Outcome, error) {
	o.Date = core.DateOf(o.Date)

	var saved attendance.Outcome
	err := repo.db.QueryRowxContext(ctx, `
		INSERT INTO attendance_outcome (id, user_id, date, subject, kind, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, date, subject, kind)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING *`,
		o.ID, o.UserID, o.Date, o.Subject, o.Kind, o.Status, o.CreatedAt, o.UpdatedAt,
	).StructScan(&saved)
	if err != nil {
		return attendance.Outcome{}, errors.Wrap(err, "upserting outcome")
	}
	return saved, nil
}

func (repo *attendanceRepository) GetImportedTotals(ctx context.Context, userID, subject string) (attendance.ImportedTotals, error) {
	var it attendance.ImportedTotals
	err := repo.db.GetContext(ctx, &it, `
		SELECT * FROM imported_totals WHERE user_id = $1 AND subject = $2`,
		userID, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.ImportedTotals{}, attendance.ErrImportNotFound
		}
		return attendance.ImportedTotals{}, errors.Wrap(err, "getting imported totals")
	}
	return it, nil
}

func (repo *attendanceRepository) UpsertImportedTotals(ctx context.Context, it attendance.ImportedTotals) (attendance.ImportedTotals, error) {
	var saved attendance.ImportedTotals
	err := repo.db.QueryRowxContext(ctx, `
		INSERT INTO imported_totals (user_id, subject, theory_total, theory_attended, lab_total, lab_attended, cutover_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, subject)
		DO UPDATE SET theory_total    = EXCLUDED.theory_total,
		              theory_attended = EXCLUDED.theory_attended,
		              lab_total       = EXCLUDED.lab_total,
		              lab_attended    = EXCLUDED.lab_attended,
		              cutover_date    = EXCLUDED.cutover_date,
		              updated_at      = EXCLUDED.updated_at
		RETURNING *`,
		it.UserID, it.Subject, it.TheoryTotal, it.TheoryAttended, it.LabTotal, it.LabAttended,
		it.CutoverDate, it.CreatedAt, it.UpdatedAt,
	).StructScan(&saved)
	if err != nil {
		return attendance.ImportedTotals{}, errors.Wrap(err, "upserting imported totals")
	}
	return saved, nil
}
