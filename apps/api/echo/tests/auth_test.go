package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"regexp"
	"testing"

	echoapi "github.com/SamiSahil/edusysv1/apps/api/echo"
	"github.com/SamiSahil/edusysv1/core/academics"
	"github.com/SamiSahil/edusysv1/core/user"
	emailsvc "github.com/SamiSahil/edusysv1/services/email"
	testutil "github.com/SamiSahil/edusysv1/tests"
)

func createLinkedUser(t *testing.T, name, email, pwd, role, studentID, teacherID string, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		StudentID: studentID,
		TeacherID: teacherID,
		IsActive:  isActive,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func loginBody(t *testing.T, username, password, portal string) []byte {
	return marchallObj(t, echoapi.LoginRequest{Username: username, Password: password, Portal: portal})
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, usrRepo, "Big Boss", "admin@test.cd", "LePatron!", user.RoleAdmin, true)
	accountant := testutil.CreateUser(t, usrRepo, "Counter", "money@test.cd", "LesComptes!", user.RoleAccountant, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.cd", "W00fw00f!", user.RoleStudent, false)

	// a student whose credential record links to a real profile
	dep, err := academicsSvc.CreateDepartment(ctx, academics.NewDepartment{Name: "Science"})
	if err != nil {
		t.Fatalf("CreateDepartment() failed: %v", err)
	}
	sub, err := academicsSvc.CreateSubject(ctx, academics.NewSubject{Name: "Physics", DepartmentID: dep.ID})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	sec, err := academicsSvc.CreateSection(ctx, academics.NewSection{Name: "A", SubjectID: sub.ID})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	prof := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", sec.ID)
	hero := createLinkedUser(t, "J. Student", "hero@test.cd", "TheHero!", user.RoleStudent, prof.ID, "", true)

	// a teacher ditto
	tc := testutil.CreateTeacher(t, teacherRepo, "Prof. Kali", "kali@staff.cd", dep.ID)
	sensei := createLinkedUser(t, "K. Staff", "sensei@test.cd", "LeSensei!", user.RoleTeacher, "", tc.ID, true)

	// a student whose profile ref dangles
	ghost := createLinkedUser(t, "Ghost", "ghost@test.cd", "BooScary!", user.RoleStudent, "gone", "", true)

	wrongPortalData := marchallObj(t, httpErr{
		Message: "Invalid credentials for this portal. Please use the correct portal for your role."})
	badCredsData := marchallObj(t, httpErr{Message: "Invalid username or password."})

	// rejections that must happen before any credential lookup
	const noLookup = "no credential lookup"

	tests := []httpTest{
		{
			name: "required fields", body: marchallObj(t, echoapi.LoginRequest{}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{
				"username": "this field is required",
				"password": "this field is required",
				"portal":   "this field is required",
			}}),
			extra: noLookup,
		},
		{
			name: "unknown portal", body: loginBody(t, admin.Email, "LePatron!", "Management"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Message: "Unknown portal."}),
			extra: noLookup,
		},
		{
			name: "unknown user", body: loginBody(t, "lol@test.cd", "LePatron!", "Administration"),
			wantCode: http.StatusUnauthorized, wantData: badCredsData,
		},
		{
			name: "wrong password", body: loginBody(t, admin.Email, "lol", "Administration"),
			wantCode: http.StatusUnauthorized, wantData: badCredsData,
		},
		{
			name: "valid credentials but wrong portal", body: loginBody(t, hero.Email, "TheHero!", "Administration"),
			wantCode: http.StatusUnauthorized, wantData: wrongPortalData,
		},
		{
			name: "accountant on librarian portal", body: loginBody(t, accountant.Email, "LesComptes!", "Librarian"),
			wantCode: http.StatusUnauthorized, wantData: wrongPortalData,
		},
		{
			name: "deactivated account", body: loginBody(t, naughty.Email, "W00fw00f!", "Student"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Message: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/login"

		t.Run(tt.name, func(t *testing.T) {
			lookups := emailLookups(t)

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.extra == noLookup {
				if got := emailLookups(t); got != lookups {
					t.Errorf("credential lookups = %d, want %d", got, lookups)
				}
			}
		})
	}

	login := func(t *testing.T, body []byte) echoapi.LoginResponse {
		t.Helper()
		req, rec := newRequest(http.MethodPost, "/api/login", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("login failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var respData echoapi.LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if !respData.Success {
			t.Error("failed! success = false")
		}
		if respData.Token == "" {
			t.Error("failed! empty token")
		}
		return respData
	}

	t.Run("admin login", func(t *testing.T) {
		respData := login(t, loginBody(t, admin.Email, "LePatron!", "Administration"))
		if respData.User.ID != admin.ID || respData.User.Role != user.RoleAdmin {
			t.Errorf("failed! user = %+v", respData.User)
		}

		refreshed, err := usrRepo.GetUserByID(ctx, admin.ID)
		if err != nil {
			t.Fatalf("GetUserByID() failed: %v", err)
		}
		if refreshed.LastLogin.IsZero() {
			t.Error("failed to set lastLogin")
		}
	})

	t.Run("username is case-insensitive", func(t *testing.T) {
		respData := login(t, loginBody(t, "ADMIN@Test.CD", "LePatron!", "Administration"))
		if respData.User.ID != admin.ID {
			t.Errorf("failed! user = %+v", respData.User)
		}
	})

	t.Run("student login merges profile", func(t *testing.T) {
		respData := login(t, loginBody(t, hero.Email, "TheHero!", "Student"))
		usr := respData.User
		if usr.ID != hero.ID || usr.Role != user.RoleStudent {
			t.Errorf("failed! user = %+v", usr)
		}
		if usr.Name != "Jane" { // profile name wins
			t.Errorf("usr.Name = %s, want Jane", usr.Name)
		}
		if usr.RollNo != "S-001" || usr.SectionID != sec.ID {
			t.Errorf("failed! user = %+v", usr)
		}
		if usr.Section == nil || usr.Section.Subject != "Physics" || usr.Section.Department != "Science" {
			t.Errorf("failed! section = %+v", usr.Section)
		}
	})

	t.Run("teacher login merges profile", func(t *testing.T) {
		respData := login(t, loginBody(t, sensei.Email, "LeSensei!", "Teacher"))
		usr := respData.User
		if usr.ID != sensei.ID || usr.Role != user.RoleTeacher {
			t.Errorf("failed! user = %+v", usr)
		}
		if usr.Name != "Prof. Kali" || usr.Email != "kali@staff.cd" {
			t.Errorf("failed! user = %+v", usr)
		}
		if usr.DepartmentID != dep.ID {
			t.Errorf("usr.DepartmentID = %s, want %s", usr.DepartmentID, dep.ID)
		}
	})

	t.Run("dangling profile ref falls back to credentials", func(t *testing.T) {
		respData := login(t, loginBody(t, ghost.Email, "BooScary!", "Student"))
		usr := respData.User
		if usr.ID != ghost.ID || usr.Name != "Ghost" {
			t.Errorf("failed! user = %+v", usr)
		}
		if usr.RollNo != "" || usr.Section != nil {
			t.Errorf("failed! user = %+v", usr)
		}
	})
}

func Test_authApi_resetPassword(t *testing.T) {
	app := setup(t)
	emailsvc.SentMessages = nil

	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "TheHero!", user.RoleStudent, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.cd", "W00fw00f!", user.RoleStudent, false)

	successData := marchallObj(t, httpErr{Success: true,
		Message: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password."})

	pathRegex, err := regexp.Compile("/password-reset/.+/.+")
	if err != nil {
		t.Fatalf("regexp.Compile(): %v", err)
	}

	type extraTest struct {
		emailSent bool
		to        mail.Address
	}
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{"email": "this field is required"}}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantData: marchallObj(t, httpErr{Message: map[string]string{"email": "email must be a valid email address"}}),
		},
		{
			name: "unknown email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol@test.cd"}),
			wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "inactive account", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: naughty.Email}),
			wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "known email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: hero.Email}),
			wantData: successData, extra: extraTest{emailSent: true, to: mail.Address{Name: hero.Name, Address: hero.Email}},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/password-reset"

		t.Run(tt.name, func(t *testing.T) {
			sentBefore := len(emailsvc.SentMessages)

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if extra, ok := tt.extra.(extraTest); ok {
				if !extra.emailSent {
					if len(emailsvc.SentMessages) != sentBefore {
						t.Error("failed! unexpected email sent")
					}
					return
				}
				if len(emailsvc.SentMessages) != sentBefore+1 {
					t.Fatal("failed! email not sent")
				}
				msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
				if len(msg.To) != 1 || msg.To[0] != extra.to {
					t.Errorf("failed! to = %v; want %v", msg.To, extra.to)
				}
				if !pathRegex.MatchString(msg.TextContent) {
					t.Errorf("failed! no reset path in %q", msg.TextContent)
				}
			}
		})
	}
}

func Test_authApi_confirmPasswordReset(t *testing.T) {
	app := setup(t)
	emailsvc.SentMessages = nil

	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "TheHero!", user.RoleStudent, true)

	// request a reset and lift uid & token off the sent email
	req, rec := newRequest(http.MethodPost, "/api/password-reset",
		marchallObj(t, echoapi.PasswordResetRequest{Email: hero.Email}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("password reset request failed! code = %v", rec.Code)
	}
	if len(emailsvc.SentMessages) == 0 {
		t.Fatal("no reset email sent")
	}
	msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	matches := regexp.MustCompile("/password-reset/([^/\\s]+)/([^/\\s]+)").FindStringSubmatch(msg.TextContent)
	if len(matches) != 3 {
		t.Fatalf("no reset path in %q", msg.TextContent)
	}
	uid, token := matches[1], matches[2]

	confirmBody := func(uid, token, pwd, pwdConfirm string) []byte {
		return marchallObj(t, user.ResetUserPassword{UID: uid, Token: token, Password: pwd, PasswordConfirm: pwdConfirm})
	}

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{
				"token":            "this field is required",
				"uid":              "this field is required",
				"password":         "this field is required",
				"password_confirm": "this field is required",
			}}),
		},
		{
			name: "password mismatch", body: confirmBody(uid, token, "NewPass01!", "Other01!"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{
				"password_confirm": "password_confirm must be equal to Password"}}),
		},
		{
			name: "bad uid", body: confirmBody("@@@", token, "NewPass01!", "NewPass01!"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "invalid token"}),
		},
		{
			name: "unknown uid", body: confirmBody("bG9s", token, "NewPass01!", "NewPass01!"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "invalid token"}),
		},
		{
			name: "tampered token", body: confirmBody(uid, token+"lol", "NewPass01!", "NewPass01!"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "invalid token"}),
		},
		{
			name: "password is reset", body: confirmBody(uid, token, "NewPass01!", "NewPass01!"), wantCode: http.StatusOK,
			wantData: marchallObj(t, httpErr{Success: true, Message: "Password has been reset with the new password."}),
		},
		{
			name: "token is single-use", body: confirmBody(uid, token, "OtherPass01!", "OtherPass01!"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "invalid token"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/password-reset-confirm"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("old password no longer works", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/login", loginBody(t, hero.Email, "TheHero!", "Student"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("new password works", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/login", loginBody(t, hero.Email, "NewPass01!", "Student"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
	})
}
