package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

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
	"github.com/SamiSahil/edusysv1/storage/database/inmem"
	testutil "github.com/SamiSahil/edusysv1/tests"
)

var (
	conf *core.Config

	usrRepo        user.Repository
	studentRepo    student.Repository
	teacherRepo    teacher.Repository
	academicsRepo  academics.Repository
	financeRepo    finance.Repository
	noticeRepo     notice.Repository
	attendanceRepo attendance.Repository
	examRepo       exam.Repository
	libraryRepo    library.Repository

	usrSvc       user.ServiceInterface
	academicsSvc academics.ServiceInterface
	studentSvc   student.ServiceInterface
	noticeSvc    notice.ServiceInterface
	librarySvc   library.ServiceInterface

	errMissingToken = httpErr{Message: "missing or malformed jwt"}
	errNotAuthed    = httpErr{Message: "user not authenticated"}
	errForbidden    = httpErr{Message: "permission denied"}
	errNotFound     = httpErr{Message: "not found"}
)

// setup builds a fresh app backed by clean in-memory repositories.
func setup(t *testing.T) echoapi.Server {
	t.Helper()

	conf = testutil.NewConfig()
	conf.WorkDir = core.Getwd()

	// set up repos
	usrRepo = &countingUserRepository{Repository: inmem.NewUserRepository()}
	studentRepo = inmem.NewStudentRepository()
	teacherRepo = inmem.NewTeacherRepository()
	academicsRepo = inmem.NewAcademicsRepository()
	financeRepo = inmem.NewFinanceRepository()
	noticeRepo = inmem.NewNoticeRepository()
	attendanceRepo = inmem.NewAttendanceRepository()
	examRepo = inmem.NewExamRepository()
	libraryRepo = inmem.NewLibraryRepository()

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc = user.NewServiceMock(usrRepo, mailSvc, conf)
	academicsSvc = academics.NewService(academicsRepo)
	studentSvc = student.NewService(studentRepo, academicsSvc)
	teacherSvc := teacher.NewService(teacherRepo)
	financeSvc := finance.NewService(financeRepo, studentSvc)
	noticeSvc = notice.NewService(noticeRepo)
	attendanceSvc := attendance.NewService(attendanceRepo)
	examSvc := exam.NewService(examRepo)
	librarySvc = library.NewService(libraryRepo)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, testLogger{})

	// set up server
	return echoapi.NewServer(
		&echoapi.Options{
			Conf:           conf,
			Logger:         testLogger{},
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
			UserSvc:        usrSvc,
			StudentSvc:     studentSvc,
			TeacherSvc:     teacherSvc,
			AcademicsSvc:   academicsSvc,
			FinanceSvc:     financeSvc,
			NoticeSvc:      noticeSvc,
			AttendanceSvc:  attendanceSvc,
			ExamSvc:        examSvc,
			LibrarySvc:     librarySvc,
		},
	)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// countingUserRepository wraps the credential repository and counts lookups
// by email, so tests can assert which rejections happen before any lookup.
type countingUserRepository struct {
	user.Repository
	emailLookups int
}

func (repo *countingUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	repo.emailLookups++
	return repo.Repository.GetUserByEmail(ctx, email)
}

// emailLookups returns the number of credential lookups by email so far.
func emailLookups(t *testing.T) int {
	t.Helper()
	repo, ok := usrRepo.(*countingUserRepository)
	if !ok {
		t.Fatalf("usrRepo is %T, want *countingUserRepository", usrRepo)
	}
	return repo.emailLookups
}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

// httpErr mirrors the error response envelope.
type httpErr struct {
	Success bool        `json:"success"`
	Message interface{} `json:"message"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr, conf)
	token, err := echoapi.GenerateToken(claims, []byte(conf.SecretKey))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
