package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/SamiSahil/edusysv1/apps/api/echo"
	"github.com/SamiSahil/edusysv1/core"
	"github.com/SamiSahil/edusysv1/core/academics"
	"github.com/SamiSahil/edusysv1/core/attendance"
	"github.com/SamiSahil/edusysv1/core/exam"
	"github.com/SamiSahil/edusysv1/core/finance"
	"github.com/SamiSahil/edusysv1/core/library"
	"github.com/SamiSahil/edusysv1/core/notice"
	"github.com/SamiSahil/edusysv1/core/student"
	"github.com/SamiSahil/edusysv1/core/teacher"
	"github.com/SamiSahil/edusysv1/core/user"
	emailsvc "github.com/SamiSahil/edusysv1/services/email"
	logsvc "github.com/SamiSahil/edusysv1/services/logger"
	"github.com/SamiSahil/edusysv1/storage/database"
	sqlxrepos "github.com/SamiSahil/edusysv1/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)
	academicSvc := academics.NewService(sqlxrepos.NewAcademicsRepository(db))
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), academicSvc)
	teacherSvc := teacher.NewService(sqlxrepos.NewTeacherRepository(db))
	financeSvc := finance.NewService(sqlxrepos.NewFinanceRepository(db), studentSvc)
	noticeSvc := notice.NewService(sqlxrepos.NewNoticeRepository(db))
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db))
	examSvc := exam.NewService(sqlxrepos.NewExamRepository(db))
	librarySvc := library.NewService(sqlxrepos.NewLibraryRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	server := echoapi.NewServer(
		&echoapi.Options{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			Shutdown:      shutdown,
			UserSvc:       usrSvc,
			StudentSvc:    studentSvc,
			TeacherSvc:    teacherSvc,
			AcademicsSvc:  academicSvc,
			FinanceSvc:    financeSvc,
			NoticeSvc:     noticeSvc,
			AttendanceSvc: attendanceSvc,
			ExamSvc:       examSvc,
			LibrarySvc:    librarySvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Addr))
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
