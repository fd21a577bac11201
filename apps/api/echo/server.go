package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		// Shutdown receives a SIGTERM when an integrity error requires a
		// graceful stop.
		Shutdown chan<- os.Signal

		UserSvc       user.ServiceInterface
		StudentSvc    student.ServiceInterface
		TeacherSvc    teacher.ServiceInterface
		AcademicsSvc  academics.ServiceInterface
		FinanceSvc    finance.ServiceInterface
		NoticeSvc     notice.ServiceInterface
		AttendanceSvc attendance.ServiceInterface
		ExamSvc       exam.ServiceInterface
		LibrarySvc    library.ServiceInterface
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		Routes() []*echo.Route
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig(conf))
	identity := identityMiddleware(s.opts.UserSvc, conf)
	protect := []echo.MiddlewareFunc{jwt, identity}

	registerAuthAPI(api, s.opts.UserSvc, s.opts.StudentSvc, s.opts.TeacherSvc, s.opts.Validate, conf)
	registerUserAPI(api, protect, s.opts.UserSvc, s.opts.Validate)
	registerStudentAPI(api, protect, s.opts.StudentSvc, s.opts.Validate)
	registerTeacherAPI(api, protect, s.opts.TeacherSvc, s.opts.Validate)
	registerAcademicsAPI(api, protect, s.opts.AcademicsSvc, s.opts.Validate)
	registerFinanceAPI(api, protect, s.opts.FinanceSvc, s.opts.Validate)
	registerNoticeAPI(api, protect, s.opts.NoticeSvc, s.opts.Validate)
	registerAttendanceAPI(api, protect, s.opts.AttendanceSvc, s.opts.Validate)
	registerExamAPI(api, protect, s.opts.ExamSvc, s.opts.Validate)
	registerLibraryAPI(api, protect, s.opts.LibrarySvc, s.opts.Validate)
}

func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Server.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Routes() []*echo.Route {
	return s.app.Routes()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduSys API!")
}
