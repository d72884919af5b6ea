package main

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/schedule"
)

// notifyAtRisk projects every active student's theory attendance per subject
// and emails those for whom the minimum can no longer be reached.
func (cli *commandLine) notifyAtRisk(evalDate time.Time) error {
	ctx := context.Background()
	termID := cli.conf.Semester.TermID
	win := attendance.Window{
		StartDate: cli.conf.Semester.StartDate,
		EndDate:   cli.conf.Semester.EndDate,
	}

	students, err := cli.usrSvc.ActiveStudents(ctx)
	if err != nil {
		return errors.Wrap(err, "querying active students")
	}

	var msgs []*core.EmailMessage
	for _, stu := range students {
		if stu.Email == "" || stu.Division == "" || stu.Batch == "" {
			continue
		}

		subjects, err := cli.theorySubjects(ctx, termID, stu.Division, stu.Batch)
		if err != nil {
			return err
		}
		for _, subject := range subjects {
			proj, err := cli.attendanceSvc.Project(ctx, stu, subject, termID, evalDate, win)
			if err != nil {
				return errors.Wrapf(err, "projecting %s for %s", subject, stu.Username)
			}
			if proj.CanReachMinimum {
				continue
			}
			msgs = append(msgs, atRiskMessage(stu.Name, stu.Email, proj))
		}
	}

	cli.mailSvc.SendMessages(msgs...)
	logger.Printf("notified %d at-risk projections\n", len(msgs))
	return nil
}

// theorySubjects returns the distinct subjects holding theory sessions in a
// (division, batch) week, sorted.
func (cli *commandLine) theorySubjects(ctx context.Context, termID, division, batch string) ([]string, error) {
	timetable, err := cli.scheduleSvc.WeekTimetable(ctx, termID, division, batch)
	if err != nil {
		return nil, errors.Wrap(err, "getting week timetable")
	}

	seen := make(map[string]bool)
	subjects := make([]string, 0)
	for _, sessions := range timetable {
		for _, sess := range sessions {
			if sess.Kind != schedule.KindTheory || seen[sess.Subject] {
				continue
			}
			seen[sess.Subject] = true
			subjects = append(subjects, sess.Subject)
		}
	}
	sort.Strings(subjects)
	return subjects, nil
}

func atRiskMessage(name, email string, proj attendance.Projection) *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Name: name, Address: email}},
		Subject: fmt.Sprintf("Attendance alert: %s", proj.Subject),
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nYour %s theory attendance is at %d%% (%d of %d lectures). "+
				"With %d lectures remaining you can reach at most %d%%, below the required %d%%. "+
				"Please see your coordinator.\n",
			name, proj.Subject, proj.CurrentPercentage, proj.AttendedLectures, proj.TotalLectures,
			proj.RemainingLectures, proj.MaxPossiblePercentage, attendance.MinTheoryPercent,
		),
	}
}
