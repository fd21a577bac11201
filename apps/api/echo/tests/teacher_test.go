package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SamiSahil/edusysv1/core/teacher"
	"github.com/SamiSahil/edusysv1/core/user"
	testutil "github.com/SamiSahil/edusysv1/tests"
)

func Test_teacherApi_query(t *testing.T) {
	app := setup(t)

	tc1 := testutil.CreateTeacher(t, teacherRepo, "Prof. Kali", "kali@staff.cd", "")
	tc2 := testutil.CreateTeacher(t, teacherRepo, "Prof. Moss", "moss@staff.cd", "")

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)

	tests := []httpTest{
		{name: "Auth required", path: "/api/teachers", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all", path: "/api/teachers", token: getToken(t, admin), wantData: marchallList(t, tc1, tc2)},
		{name: "any role can list", path: "/api/teachers", token: getToken(t, hero), wantData: marchallList(t, tc1, tc2)},
		{name: "not found", path: "/api/teachers/lol", token: getToken(t, admin), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "retrieved", path: "/api/teachers/" + tc1.ID, token: getToken(t, admin), wantData: marchallObj(t, tc1)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_teacherApi_create(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	sensei := testutil.CreateUser(t, usrRepo, "Sensei", "sensei@test.cd", "", user.RoleTeacher, true)
	adminToken := getToken(t, admin)

	t.Run("Admin required", func(t *testing.T) {
		body := marchallObj(t, teacher.NewTeacher{Name: "Prof. Kali"})
		req, rec := newAuthRequest(http.MethodPost, "/api/teachers", getToken(t, sensei), body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Teacher role is not allowed to access POST /api/teachers"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("invalid email", func(t *testing.T) {
		body := marchallObj(t, teacher.NewTeacher{Name: "Prof. Kali", Email: "nope"})
		req, rec := newAuthRequest(http.MethodPost, "/api/teachers", adminToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{"email": "email must be a valid email address"}}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("created", func(t *testing.T) {
		body := marchallObj(t, teacher.NewTeacher{Name: "Prof. Kali", Email: "Kali@Staff.CD"})
		req, rec := newAuthRequest(http.MethodPost, "/api/teachers", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var tc teacher.Teacher
		if err := json.Unmarshal(rec.Body.Bytes(), &tc); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if tc.ID == "" || tc.Email != "kali@staff.cd" {
			t.Errorf("failed! teacher = %+v", tc)
		}
	})

	t.Run("bulk created", func(t *testing.T) {
		body := marchallList(t,
			teacher.NewTeacher{Name: "Prof. Moss"},
			teacher.NewTeacher{Name: "Prof. Oak"},
		)
		req, rec := newAuthRequest(http.MethodPost, "/api/teachers/bulk", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var teachers []teacher.Teacher
		if err := json.Unmarshal(rec.Body.Bytes(), &teachers); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(teachers) != 2 {
			t.Errorf("len(teachers) = %d, want 2", len(teachers))
		}
	})
}

func Test_teacherApi_updateAndDestroy(t *testing.T) {
	app := setup(t)

	tc1 := testutil.CreateTeacher(t, teacherRepo, "Prof. Kali", "kali@staff.cd", "")
	tc2 := testutil.CreateTeacher(t, teacherRepo, "Prof. Moss", "moss@staff.cd", "")
	tc3 := testutil.CreateTeacher(t, teacherRepo, "Prof. Oak", "oak@staff.cd", "")
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	t.Run("update not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/teachers/lol", adminToken,
			marchallObj(t, teacher.NewTeacher{Name: "X"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("updated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/teachers/"+tc1.ID, adminToken,
			marchallObj(t, teacher.NewTeacher{Name: "Prof. K. Ali", Email: "kali@staff.cd"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var tc teacher.Teacher
		if err := json.Unmarshal(rec.Body.Bytes(), &tc); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if tc.Name != "Prof. K. Ali" {
			t.Errorf("tc.Name = %s, want Prof. K. Ali", tc.Name)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/teachers/"+tc1.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}
	})

	t.Run("bulk deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/teachers?id="+tc2.ID+"&id="+tc3.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}

		teachers, err := teacherRepo.QueryAllTeachers(context.Background())
		if err != nil {
			t.Fatalf("QueryAllTeachers() failed: %v", err)
		}
		if len(teachers) != 0 {
			t.Errorf("len(teachers) = %d, want 0", len(teachers))
		}
	})
}
