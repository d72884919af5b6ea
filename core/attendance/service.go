package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/holiday"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/user"
)

var (
	// errors
	ErrSubjectRequired = errors.New("subject is required")
	ErrImportNotFound  = errors.New("imported totals not found")
)

type (
	Repository interface {
		// GetOutcomesInRange returns a user's outcomes dated within [start, end],
		// both inclusive, all subjects and kinds, in date order.
		GetOutcomesInRange(ctx context.Context, userID string, start, end time.Time) ([]Outcome, error)
		// UpsertOutcome writes the single row for (user, date, subject, kind);
		// the last write wins.
		UpsertOutcome(ctx context.Context, o Outcome) (Outcome, error)
		// GetImportedTotals returns ErrImportNotFound when the user never
		// imported legacy totals for the subject.
		GetImportedTotals(ctx context.Context, userID, subject string) (ImportedTotals, error)
		UpsertImportedTotals(ctx context.Context, it ImportedTotals) (ImportedTotals, error)
	}

	Service interface {
		// Project computes the attendance outlook for one subject as of evalDate.
		// It only fails for programmer errors (empty subject); missing or broken
		// collaborator data degrades to zero-valued inputs.
		Project(ctx context.Context, student user.User, subject, termID string, evalDate time.Time, win Window) (Projection, error)
		// Summarize reduces all recorded outcomes in the window for dashboard display.
		Summarize(ctx context.Context, userID string, win Window) (Summary, error)
		OutcomesInRange(ctx context.Context, userID string, win Window) ([]Outcome, error)
		// Mark upserts the outcome for (user, date, subject, kind).
		Mark(ctx context.Context, userID string, no NewOutcome) (Outcome, error)
		ImportedTotals(ctx context.Context, userID, subject string) (ImportedTotals, error)
		SetImportedTotals(ctx context.Context, userID, subject string, ni NewImport) (ImportedTotals, error)
	}

	service struct {
		repo        Repository
		scheduleSvc schedule.Service
		holidaySvc  holiday.Service
		logger      core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, scheduleSvc schedule.Service, holidaySvc holiday.Service, logger core.Logger) Service {
	return &service{
		repo:        repo,
		scheduleSvc: scheduleSvc,
		holidaySvc:  holidaySvc,
		logger:      logger,
	}
}

func (svc *service) Summarize(ctx context.Context, userID string, win Window) (Summary, error) {
	win = win.Normalize()
	outcomes, err := svc.repo.GetOutcomesInRange(ctx, userID, win.StartDate, win.EndDate)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	seen := make(map[outcomeKey]bool, len(outcomes))
	for _, rec := range outcomes {
		if key := rec.key(); seen[key] {
			continue
		} else {
			seen[key] = true
		}
		switch rec.Kind {
		case schedule.KindTheory:
			sum.Theory = sum.Theory.add(rec.Status)
		case schedule.KindLab:
			sum.Lab = sum.Lab.add(rec.Status)
		}
	}
	return sum, nil
}

func (svc *service) OutcomesInRange(ctx context.Context, userID string, win Window) ([]Outcome, error) {
	win = win.Normalize()
	return svc.repo.GetOutcomesInRange(ctx, userID, win.StartDate, win.EndDate)
}

func (svc *service) Mark(ctx context.Context, userID string, no NewOutcome) (Outcome, error) {
	if err := no.Validate(); err != nil {
		return Outcome{}, err
	}
	date, err := core.ParseDate(no.Date)
	if err != nil {
		return Outcome{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date"})
	}

	now := time.Now().UTC()
	return svc.repo.UpsertOutcome(ctx, Outcome{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      date,
		Subject:   no.Subject,
		Kind:      no.Kind,
		Status:    no.Status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) ImportedTotals(ctx context.Context, userID, subject string) (ImportedTotals, error) {
	return svc.repo.GetImportedTotals(ctx, userID, core.CleanString(subject))
}

func (svc *service) SetImportedTotals(ctx context.Context, userID, subject string, ni NewImport) (ImportedTotals, error) {
	subject = core.CleanString(subject)
	if subject == "" {
		return ImportedTotals{}, ErrSubjectRequired
	}
	if err := ni.Validate(); err != nil {
		return ImportedTotals{}, err
	}

	var cutover null.Time
	if ni.CutoverDate != "" {
		date, err := core.ParseDate(ni.CutoverDate)
		if err != nil {
			return ImportedTotals{}, core.NewValidationError(err, core.FieldError{Field: "cutover_date", Error: "invalid date"})
		}
		cutover = null.TimeFrom(date)
	}

	now := time.Now().UTC()
	return svc.repo.UpsertImportedTotals(ctx, ImportedTotals{
		UserID:         userID,
		Subject:        subject,
		TheoryTotal:    ni.TheoryTotal,
		TheoryAttended: ni.TheoryAttended,
		LabTotal:       ni.LabTotal,
		LabAttended:    ni.LabAttended,
		CutoverDate:    cutover,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}
