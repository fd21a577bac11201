package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	echoapi "github.com/SamiSahil/edusysv1/apps/api/echo"
	"github.com/SamiSahil/edusysv1/core/finance"
	"github.com/SamiSahil/edusysv1/core/user"
	testutil "github.com/SamiSahil/edusysv1/tests"
)

func createFee(t *testing.T, studentID, feeType string, amount float64, dueDate, status string) finance.Fee {
	t.Helper()
	now := time.Now().UTC()
	fee, err := financeRepo.CreateFee(context.Background(), finance.Fee{
		StudentID: studentID,
		FeeType:   feeType,
		Amount:    amount,
		DueDate:   dueDate,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateFee() failed: %v", err)
	}
	return fee
}

func Test_financeApi_queryFees(t *testing.T) {
	app := setup(t)

	st1 := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", "")
	st2 := testutil.CreateStudent(t, studentRepo, "Jack", "S-002", "")

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	sensei := testutil.CreateUser(t, usrRepo, "Sensei", "sensei@test.cd", "", user.RoleTeacher, true)
	hero := createLinkedUser(t, "J. Student", "hero@test.cd", "TheHero!", user.RoleStudent, st1.ID, "", true)
	orphan := testutil.CreateUser(t, usrRepo, "Orphan", "orphan@test.cd", "", user.RoleStudent, true)

	fee1 := createFee(t, st1.ID, "Tuition", 150, "2026-09-01", finance.FeeStatusUnpaid)
	fee2 := createFee(t, st2.ID, "Tuition", 150, "2026-09-01", finance.FeeStatusPaid)

	tests := []httpTest{
		{name: "Auth required", path: "/api/financial/fees", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "staff sees all", path: "/api/financial/fees", token: getToken(t, admin), wantData: marchallList(t, fee1, fee2)},
		{name: "teacher can read", path: "/api/financial/fees", token: getToken(t, sensei), wantData: marchallList(t, fee1, fee2)},
		{name: "staff filter by student", path: "/api/financial/fees?studentId=" + st2.ID, token: getToken(t, admin), wantData: marchallList(t, fee2)},
		{name: "student sees only their own", path: "/api/financial/fees", token: getToken(t, hero), wantData: marchallList(t, fee1)},
		{
			// the filter is ignored for students
			name: "student cannot peek at another student", path: "/api/financial/fees?studentId=" + st2.ID,
			token: getToken(t, hero), wantData: marchallList(t, fee1),
		},
		{name: "student without a profile gets nothing", path: "/api/financial/fees", token: getToken(t, orphan), wantData: marchallList(t)},
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

func Test_financeApi_createFee(t *testing.T) {
	app := setup(t)

	st := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", "")
	acct := testutil.CreateUser(t, usrRepo, "Counter", "acct@test.cd", "", user.RoleAccountant, true)
	sensei := testutil.CreateUser(t, usrRepo, "Sensei", "sensei@test.cd", "", user.RoleTeacher, true)

	tests := []httpTest{
		{
			name: "Accountant or admin required", token: getToken(t, sensei),
			body:     marchallObj(t, finance.NewFee{StudentID: st.ID, FeeType: "Tuition", Amount: 150, DueDate: "2026-09-01"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Teacher role is not allowed to access POST /api/financial/fees"}),
		},
		{
			name: "required fields", token: getToken(t, acct), body: marchallObj(t, finance.NewFee{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{
				"studentId": "this field is required",
				"feeType":   "this field is required",
				"amount":    "this field is required",
				"dueDate":   "this field is required",
			}}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/financial/fees"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("created with default status", func(t *testing.T) {
		body := marchallObj(t, finance.NewFee{StudentID: st.ID, FeeType: "Tuition", Amount: 150, DueDate: "2026-09-01"})
		req, rec := newAuthRequest(http.MethodPost, "/api/financial/fees", getToken(t, acct), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var fee finance.Fee
		if err := json.Unmarshal(rec.Body.Bytes(), &fee); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if fee.ID == "" || fee.Status != finance.FeeStatusUnpaid {
			t.Errorf("failed! fee = %+v", fee)
		}
	})
}

func Test_financeApi_generateFees(t *testing.T) {
	app := setup(t)

	st1 := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", "")
	st2 := testutil.CreateStudent(t, studentRepo, "Jack", "S-002", "")
	acct := testutil.CreateUser(t, usrRepo, "Counter", "acct@test.cd", "", user.RoleAccountant, true)
	acctToken := getToken(t, acct)

	// Jack already has his September tuition fee
	createFee(t, st2.ID, "Tuition", 150, "2026-09-01", finance.FeeStatusUnpaid)

	body := marchallObj(t, finance.GenerateFees{FeeType: "Tuition", Amount: 150, DueDate: "2026-09-01"})

	generate := func(t *testing.T, wantCreated int) {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/api/financial/fees/generate", acctToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, echoapi.GenerateFeesResponse{Success: true, Created: wantCreated}),
		}
		checkCodeAndData(t, tt, rec)
	}

	t.Run("skips students that already have the fee", func(t *testing.T) {
		generate(t, 1)

		fees, err := financeRepo.QueryFeesByStudent(context.Background(), st1.ID)
		if err != nil {
			t.Fatalf("QueryFeesByStudent() failed: %v", err)
		}
		if len(fees) != 1 || fees[0].Status != finance.FeeStatusUnpaid {
			t.Errorf("failed! fees = %+v", fees)
		}
	})

	t.Run("re-running creates nothing", func(t *testing.T) {
		generate(t, 0)
	})
}

func Test_financeApi_updateAndDestroyFee(t *testing.T) {
	app := setup(t)

	st := testutil.CreateStudent(t, studentRepo, "Jane", "S-001", "")
	acct := testutil.CreateUser(t, usrRepo, "Counter", "acct@test.cd", "", user.RoleAccountant, true)
	acctToken := getToken(t, acct)

	fee1 := createFee(t, st.ID, "Tuition", 150, "2026-09-01", finance.FeeStatusUnpaid)
	fee2 := createFee(t, st.ID, "Lab", 20, "2026-09-01", finance.FeeStatusUnpaid)
	fee3 := createFee(t, st.ID, "Sports", 10, "2026-09-01", finance.FeeStatusUnpaid)

	t.Run("update not found", func(t *testing.T) {
		body := marchallObj(t, finance.NewFee{StudentID: st.ID, FeeType: "Tuition", Amount: 150, DueDate: "2026-09-01"})
		req, rec := newAuthRequest(http.MethodPut, "/api/financial/fees/lol", acctToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("marked as paid", func(t *testing.T) {
		body := marchallObj(t, finance.NewFee{
			StudentID: st.ID, FeeType: "Tuition", Amount: 150, DueDate: "2026-09-01", Status: finance.FeeStatusPaid,
		})
		req, rec := newAuthRequest(http.MethodPut, "/api/financial/fees/"+fee1.ID, acctToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var fee finance.Fee
		if err := json.Unmarshal(rec.Body.Bytes(), &fee); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if fee.Status != finance.FeeStatusPaid {
			t.Errorf("fee.Status = %s, want %s", fee.Status, finance.FeeStatusPaid)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/financial/fees/"+fee1.ID, acctToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}
	})

	t.Run("bulk deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/financial/fees?id="+fee2.ID+"&id="+fee3.ID, acctToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}

		fees, err := financeRepo.QueryAllFees(context.Background())
		if err != nil {
			t.Fatalf("QueryAllFees() failed: %v", err)
		}
		if len(fees) != 0 {
			t.Errorf("len(fees) = %d, want 0", len(fees))
		}
	})
}

func Test_financeApi_expenses(t *testing.T) {
	app := setup(t)

	acct := testutil.CreateUser(t, usrRepo, "Counter", "acct@test.cd", "", user.RoleAccountant, true)
	hero := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	acctToken := getToken(t, acct)

	t.Run("Accountant or admin required", func(t *testing.T) {
		body := marchallObj(t, finance.NewExpense{Category: "Maintenance", Amount: 300, Date: "2026-08-29"})
		req, rec := newAuthRequest(http.MethodPost, "/api/financial/expenses", getToken(t, hero), body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Student role is not allowed to access POST /api/financial/expenses"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	var exp finance.Expense
	t.Run("created", func(t *testing.T) {
		body := marchallObj(t, finance.NewExpense{Category: "Maintenance", Amount: 300, Date: "2026-08-29", Note: "roof"})
		req, rec := newAuthRequest(http.MethodPost, "/api/financial/expenses", acctToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &exp); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if exp.ID == "" || exp.Category != "Maintenance" {
			t.Errorf("failed! expense = %+v", exp)
		}
	})

	t.Run("anyone authenticated can read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/financial/expenses", getToken(t, hero))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, exp)}, rec)
	})

	t.Run("updated", func(t *testing.T) {
		body := marchallObj(t, finance.NewExpense{Category: "Repairs", Amount: 350, Date: "2026-08-29"})
		req, rec := newAuthRequest(http.MethodPut, "/api/financial/expenses/"+exp.ID, acctToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var got finance.Expense
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if got.Category != "Repairs" || got.Amount != 350 {
			t.Errorf("failed! expense = %+v", got)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/financial/expenses/"+exp.ID, acctToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v", rec.Code)
		}
	})
}
