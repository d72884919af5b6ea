package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/holiday"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/user"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewStdLogger(logger)

	// set up DB
	errAndDie(database.CreateIfNotExist(*conf))
	db, err := database.Open(*conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sqlxDB := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(*conf, appLogger)
	} else {
		mailSvc = emailsvc.NewSendgridService(*conf, appLogger)
	}
	usrRepo := sqlxrepos.NewUserRepository(sqlxDB)
	scheduleSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(sqlxDB), appLogger)
	holidaySvc := holiday.NewService(sqlxrepos.NewHolidayRepository(sqlxDB))
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(sqlxDB), scheduleSvc, holidaySvc, appLogger)

	// start CLI
	cli := commandLine{
		db:            db,
		conf:          *conf,
		usrRepo:       usrRepo,
		usrSvc:        user.NewService(usrRepo),
		scheduleSvc:   scheduleSvc,
		attendanceSvc: attendanceSvc,
		mailSvc:       mailSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
