package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SamiSahil/edusysv1/core/notice"
	"github.com/SamiSahil/edusysv1/core/user"
	testutil "github.com/SamiSahil/edusysv1/tests"
)

func postNotice(t *testing.T, app http.Handler, token, title, content string) notice.Notice {
	t.Helper()
	body := marchallObj(t, notice.NewNotice{Title: title, Content: content})
	req, rec := newAuthRequest(http.MethodPost, "/api/notices", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var n notice.Notice
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	return n
}

func Test_noticeApi_create(t *testing.T) {
	app := setup(t)

	sensei := testutil.CreateUser(t, usrRepo, "Sensei", "sensei@test.cd", "", user.RoleTeacher, true)

	t.Run("required fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/notices", getToken(t, sensei), marchallObj(t, notice.NewNotice{}))
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{
				"title":   "this field is required",
				"content": "this field is required",
			}}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("author comes from the caller", func(t *testing.T) {
		n := postNotice(t, app, getToken(t, sensei), "Exam week", "Midterms start Monday.")
		if n.ID == "" || n.AuthorID != sensei.ID || n.AuthorName != "Sensei" {
			t.Errorf("failed! notice = %+v", n)
		}
	})

	t.Run("listed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/notices", getToken(t, sensei))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var notices []notice.Notice
		if err := json.Unmarshal(rec.Body.Bytes(), &notices); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(notices) != 1 || notices[0].Title != "Exam week" {
			t.Errorf("failed! notices = %+v", notices)
		}
	})
}

func Test_noticeApi_react(t *testing.T) {
	app := setup(t)

	sensei := testutil.CreateUser(t, usrRepo, "Sensei", "sensei@test.cd", "", user.RoleTeacher, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	heroToken := getToken(t, hero)

	n := postNotice(t, app, getToken(t, sensei), "Exam week", "Midterms start Monday.")

	react := func(t *testing.T, noticeID, emoji string) (notice.Notice, int, string) {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/api/notices/"+noticeID+"/react", heroToken,
			marchallObj(t, notice.Reaction{Emoji: emoji}))
		app.ServeHTTP(rec, req)
		var got notice.Notice
		if rec.Code == http.StatusOK {
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
		}
		return got, rec.Code, rec.Body.String()
	}

	t.Run("unknown notice", func(t *testing.T) {
		_, code, body := react(t, "lol", "👍")
		if code != http.StatusNotFound {
			t.Errorf("failed! code = %v; body = %v", code, body)
		}
	})

	t.Run("reaction added", func(t *testing.T) {
		got, code, body := react(t, n.ID, "👍")
		if code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", code, body)
		}
		users := got.Reactions["👍"]
		if len(users) != 1 || users[0] != hero.ID {
			t.Errorf("failed! reactions = %+v", got.Reactions)
		}
	})

	t.Run("reacting again removes it", func(t *testing.T) {
		got, code, body := react(t, n.ID, "👍")
		if code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", code, body)
		}
		if _, ok := got.Reactions["👍"]; ok {
			t.Errorf("failed! reactions = %+v", got.Reactions)
		}
	})
}

func Test_noticeApi_destroy(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	sensei := testutil.CreateUser(t, usrRepo, "Sensei", "sensei@test.cd", "", user.RoleTeacher, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	senseiToken := getToken(t, sensei)

	n1 := postNotice(t, app, senseiToken, "Exam week", "Midterms start Monday.")
	n2 := postNotice(t, app, senseiToken, "Sports day", "Friday on the main field.")

	tests := []httpTest{
		{
			name: "not found", path: "/api/notices/lol", token: senseiToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "author or admin required", path: "/api/notices/" + n1.ID, token: getToken(t, hero),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "author can delete", path: "/api/notices/" + n1.ID, token: senseiToken, wantCode: http.StatusNoContent},
		{name: "admin can delete any", path: "/api/notices/" + n2.ID, token: getToken(t, admin), wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; body = %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
