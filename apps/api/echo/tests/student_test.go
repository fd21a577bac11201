package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SamiSahil/edusysv1/core/academics"
	"github.com/SamiSahil/edusysv1/core/student"
	"github.com/SamiSahil/edusysv1/core/user"
	testutil "github.com/SamiSahil/edusysv1/tests"
)

// createSection creates a department > subject > section chain for fixtures.
func createSection(t *testing.T, depName, subName, secName string) academics.Section {
	t.Helper()
	ctx := context.Background()

	dep, err := academicsSvc.CreateDepartment(ctx, academics.NewDepartment{Name: depName})
	if err != nil {
		t.Fatalf("CreateDepartment() failed: %v", err)
	}
	sub, err := academicsSvc.CreateSubject(ctx, academics.NewSubject{Name: subName, DepartmentID: dep.ID})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	sec, err := academicsSvc.CreateSection(ctx, academics.NewSection{Name: secName, SubjectID: sub.ID})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	return sec
}

func Test_studentApi_query(t *testing.T) {
	app := setup(t)

	sec := createSection(t, "Science", "Physics", "A")
	st1 := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", sec.ID)
	st2 := testutil.CreateStudent(t, studentRepo, "Jack", "S-002", "")

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)

	tests := []httpTest{
		{name: "Auth required", path: "/api/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all", path: "/api/students", token: getToken(t, admin), wantData: marchallList(t, st1, st2)},
		{name: "any role can list", path: "/api/students", token: getToken(t, hero), wantData: marchallList(t, st1, st2)},
		{name: "by section", path: "/api/students?sectionId=" + sec.ID, token: getToken(t, admin), wantData: marchallList(t, st1)},
		{name: "by section (unknown)", path: "/api/students?sectionId=lol", token: getToken(t, admin), wantData: marchallList(t)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	app := setup(t)

	sec := createSection(t, "Science", "Physics", "A")
	st := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", sec.ID)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)

	t.Run("not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students/lol", getToken(t, admin))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("profile expands the section", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/students/"+st.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var prof student.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &prof); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if prof.ID != st.ID || prof.Name != "Jane" {
			t.Errorf("failed! profile = %+v", prof)
		}
		if prof.Section == nil || prof.Section.Name != "A" || prof.Section.Subject != "Physics" || prof.Section.Department != "Science" {
			t.Errorf("failed! section = %+v", prof.Section)
		}
	})
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	adminToken := getToken(t, admin)

	type extraTest struct {
		created int
	}
	tests := []httpTest{
		{
			name: "Admin required", path: "/api/students", token: getToken(t, hero),
			body:     marchallObj(t, student.NewStudent{Name: "Jo"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Student role is not allowed to access POST /api/students"}),
		},
		{
			name: "required fields", path: "/api/students", token: adminToken, body: marchallObj(t, student.NewStudent{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{"name": "this field is required"}}),
		},
		{
			name: "created", path: "/api/students", token: adminToken,
			body:     marchallObj(t, student.NewStudent{Name: "Jo", RollNo: "S-010"}),
			wantCode: http.StatusCreated, extra: extraTest{created: 1},
		},
		{
			name: "bulk created", path: "/api/students/bulk", token: adminToken,
			body: marchallList(t,
				student.NewStudent{Name: "Mo", RollNo: "S-011"},
				student.NewStudent{Name: "Lo", RollNo: "S-012"},
			),
			wantCode: http.StatusCreated, extra: extraTest{created: 2},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				if extra.created == 1 {
					var st student.Student
					if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
						t.Fatalf("json.Unmarshal() failed: %v", err)
					}
					if st.ID == "" || st.Name != "Jo" {
						t.Errorf("failed! student = %+v", st)
					}
				} else {
					var students []student.Student
					if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
						t.Fatalf("json.Unmarshal() failed: %v", err)
					}
					if len(students) != extra.created {
						t.Errorf("len(students) = %d, want %d", len(students), extra.created)
					}
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_updateAndDestroy(t *testing.T) {
	app := setup(t)

	st1 := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", "")
	st2 := testutil.CreateStudent(t, studentRepo, "Jack", "S-002", "")
	st3 := testutil.CreateStudent(t, studentRepo, "Jill", "S-003", "")
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	t.Run("update not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/students/lol", adminToken,
			marchallObj(t, student.NewStudent{Name: "X"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("updated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/students/"+st1.ID, adminToken,
			marchallObj(t, student.NewStudent{Name: "Jane Doe", RollNo: "S-001"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var st student.Student
		if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if st.Name != "Jane Doe" {
			t.Errorf("st.Name = %s, want Jane Doe", st.Name)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/students/"+st1.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}
	})

	t.Run("bulk deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/students?id="+st2.ID+"&id="+st3.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}

		students, err := studentRepo.QueryAllStudents(context.Background())
		if err != nil {
			t.Fatalf("QueryAllStudents() failed: %v", err)
		}
		if len(students) != 0 {
			t.Errorf("len(students) = %d, want 0", len(students))
		}
	})
}
