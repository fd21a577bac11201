package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SamiSahil/edusysv1/core/academics"
	"github.com/SamiSahil/edusysv1/core/user"
	testutil "github.com/SamiSahil/edusysv1/tests"
)

func Test_academicsApi_departments(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	adminToken := getToken(t, admin)

	t.Run("Admin required", func(t *testing.T) {
		body := marchallObj(t, academics.NewDepartment{Name: "Science"})
		req, rec := newAuthRequest(http.MethodPost, "/api/departments", getToken(t, hero), body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Student role is not allowed to access POST /api/departments"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("required fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/departments", adminToken, marchallObj(t, academics.NewDepartment{}))
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{"name": "this field is required"}}),
		}
		checkCodeAndData(t, tt, rec)
	})

	var dep academics.Department
	t.Run("created", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/departments", adminToken, marchallObj(t, academics.NewDepartment{Name: "Science"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &dep); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if dep.ID == "" || dep.Name != "Science" {
			t.Errorf("failed! department = %+v", dep)
		}
	})

	t.Run("anyone authenticated can list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/departments", getToken(t, hero))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, dep)}, rec)
	})

	t.Run("update not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/departments/lol", adminToken, marchallObj(t, academics.NewDepartment{Name: "Arts"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("updated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/departments/"+dep.ID, adminToken, marchallObj(t, academics.NewDepartment{Name: "Applied Science"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var got academics.Department
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if got.Name != "Applied Science" {
			t.Errorf("got.Name = %s, want Applied Science", got.Name)
		}
	})

	t.Run("bulk deleted", func(t *testing.T) {
		dep2, err := academicsSvc.CreateDepartment(context.Background(), academics.NewDepartment{Name: "Arts"})
		if err != nil {
			t.Fatalf("CreateDepartment() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodDelete, "/api/departments?id="+dep.ID+"&id="+dep2.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}

		deps, err := academicsRepo.QueryAllDepartments(context.Background())
		if err != nil {
			t.Fatalf("QueryAllDepartments() failed: %v", err)
		}
		if len(deps) != 0 {
			t.Errorf("len(deps) = %d, want 0", len(deps))
		}
	})
}

func Test_academicsApi_subjects(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	dep, err := academicsSvc.CreateDepartment(context.Background(), academics.NewDepartment{Name: "Science"})
	if err != nil {
		t.Fatalf("CreateDepartment() failed: %v", err)
	}

	t.Run("unknown department", func(t *testing.T) {
		body := marchallObj(t, academics.NewSubject{Name: "Physics", DepartmentID: "lol"})
		req, rec := newAuthRequest(http.MethodPost, "/api/subjects", adminToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	var sub academics.Subject
	t.Run("created", func(t *testing.T) {
		body := marchallObj(t, academics.NewSubject{Name: "Physics", DepartmentID: dep.ID})
		req, rec := newAuthRequest(http.MethodPost, "/api/subjects", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if sub.ID == "" || sub.DepartmentID != dep.ID {
			t.Errorf("failed! subject = %+v", sub)
		}
	})

	t.Run("listed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/subjects", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, sub)}, rec)
	})

	t.Run("updated", func(t *testing.T) {
		body := marchallObj(t, academics.NewSubject{Name: "Astrophysics", DepartmentID: dep.ID})
		req, rec := newAuthRequest(http.MethodPut, "/api/subjects/"+sub.ID, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var got academics.Subject
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if got.Name != "Astrophysics" {
			t.Errorf("got.Name = %s, want Astrophysics", got.Name)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/subjects/"+sub.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}
	})
}

func Test_academicsApi_sections(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	ctx := context.Background()
	dep, err := academicsSvc.CreateDepartment(ctx, academics.NewDepartment{Name: "Science"})
	if err != nil {
		t.Fatalf("CreateDepartment() failed: %v", err)
	}
	sub, err := academicsSvc.CreateSubject(ctx, academics.NewSubject{Name: "Physics", DepartmentID: dep.ID})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}

	t.Run("unknown subject", func(t *testing.T) {
		body := marchallObj(t, academics.NewSection{Name: "A", SubjectID: "lol"})
		req, rec := newAuthRequest(http.MethodPost, "/api/sections", adminToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	var sec academics.Section
	t.Run("created", func(t *testing.T) {
		body := marchallObj(t, academics.NewSection{Name: "A", SubjectID: sub.ID})
		req, rec := newAuthRequest(http.MethodPost, "/api/sections", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sec); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if sec.ID == "" || sec.SubjectID != sub.ID {
			t.Errorf("failed! section = %+v", sec)
		}
	})

	t.Run("listed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/sections", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, sec)}, rec)
	})

	t.Run("updated", func(t *testing.T) {
		body := marchallObj(t, academics.NewSection{Name: "B", SubjectID: sub.ID})
		req, rec := newAuthRequest(http.MethodPut, "/api/sections/"+sec.ID, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var got academics.Section
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if got.Name != "B" {
			t.Errorf("got.Name = %s, want B", got.Name)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/sections/"+sec.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}
	})
}
