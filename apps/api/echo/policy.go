package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SamiSahil/edusysv1/core/user"
)

// routePolicy declares which roles may invoke a protected route. An empty
// role set admits any authenticated user. The table is read-only after
// startup; finer ownership checks live inside the handlers.
type routePolicy struct {
	method string
	path   string
	roles  []string
}

var (
	adminOnly     = []string{user.RoleAdmin}
	adminAcct     = []string{user.RoleAdmin, user.RoleAccountant}
	adminTeach    = []string{user.RoleAdmin, user.RoleTeacher}
	adminTeachStu = []string{user.RoleAdmin, user.RoleTeacher, user.RoleStudent}
	adminLib      = []string{user.RoleAdmin, user.RoleLibrarian}
	anyRole       []string
)

var routePolicies = []routePolicy{
	// users
	{http.MethodGet, "/api/users", anyRole},
	{http.MethodGet, "/api/users/roles", adminOnly},
	{http.MethodGet, "/api/users/:id", anyRole},
	{http.MethodPost, "/api/users", adminOnly},
	{http.MethodPost, "/api/users/bulk", adminOnly},
	{http.MethodPut, "/api/users/:id", adminOnly},
	{http.MethodDelete, "/api/users/:id", adminOnly},
	{http.MethodDelete, "/api/users", adminOnly},

	// students
	{http.MethodGet, "/api/students", anyRole},
	{http.MethodGet, "/api/students/:id", anyRole},
	{http.MethodPost, "/api/students", adminOnly},
	{http.MethodPost, "/api/students/bulk", adminOnly},
	{http.MethodPut, "/api/students/:id", adminOnly},
	{http.MethodDelete, "/api/students/:id", adminOnly},
	{http.MethodDelete, "/api/students", adminOnly},

	// teachers
	{http.MethodGet, "/api/teachers", anyRole},
	{http.MethodGet, "/api/teachers/:id", anyRole},
	{http.MethodPost, "/api/teachers", adminOnly},
	{http.MethodPost, "/api/teachers/bulk", adminOnly},
	{http.MethodPut, "/api/teachers/:id", adminOnly},
	{http.MethodDelete, "/api/teachers/:id", adminOnly},
	{http.MethodDelete, "/api/teachers", adminOnly},

	// academics
	{http.MethodGet, "/api/departments", anyRole},
	{http.MethodPost, "/api/departments", adminOnly},
	{http.MethodPut, "/api/departments/:id", adminOnly},
	{http.MethodDelete, "/api/departments/:id", adminOnly},
	{http.MethodDelete, "/api/departments", adminOnly},
	{http.MethodGet, "/api/subjects", anyRole},
	{http.MethodPost, "/api/subjects", adminOnly},
	{http.MethodPut, "/api/subjects/:id", adminOnly},
	{http.MethodDelete, "/api/subjects/:id", adminOnly},
	{http.MethodGet, "/api/sections", anyRole},
	{http.MethodPost, "/api/sections", adminOnly},
	{http.MethodPut, "/api/sections/:id", adminOnly},
	{http.MethodDelete, "/api/sections/:id", adminOnly},

	// financial; students see only their own fees (handler check)
	{http.MethodGet, "/api/financial/fees", anyRole},
	{http.MethodPost, "/api/financial/fees", adminAcct},
	{http.MethodPost, "/api/financial/fees/generate", adminAcct},
	{http.MethodPut, "/api/financial/fees/:id", adminAcct},
	{http.MethodDelete, "/api/financial/fees/:id", adminAcct},
	{http.MethodDelete, "/api/financial/fees", adminAcct},
	{http.MethodGet, "/api/financial/expenses", anyRole},
	{http.MethodPost, "/api/financial/expenses", adminAcct},
	{http.MethodPut, "/api/financial/expenses/:id", adminAcct},
	{http.MethodDelete, "/api/financial/expenses/:id", adminAcct},

	// notices; delete is author-or-admin (handler check)
	{http.MethodGet, "/api/notices", anyRole},
	{http.MethodPost, "/api/notices", anyRole},
	{http.MethodPost, "/api/notices/:id/react", anyRole},
	{http.MethodDelete, "/api/notices/:id", anyRole},

	// exams & results
	{http.MethodGet, "/api/exams", anyRole},
	{http.MethodPost, "/api/exams", adminTeach},
	{http.MethodPut, "/api/exams/:id", adminTeach},
	{http.MethodDelete, "/api/exams/:id", adminTeach},
	{http.MethodGet, "/api/results", anyRole},
	{http.MethodGet, "/api/results/exam/:id", anyRole},
	{http.MethodPost, "/api/results/exam/:id", adminTeach},
	{http.MethodDelete, "/api/results/:id", adminTeach},

	// attendance; student report is self-only for students (handler check)
	{http.MethodPost, "/api/attendance", adminTeach},
	{http.MethodGet, "/api/attendance", adminTeach},
	{http.MethodGet, "/api/attendance/sections/:id/report", adminTeach},
	{http.MethodGet, "/api/attendance/students/:id/report", adminTeachStu},

	// library
	{http.MethodGet, "/api/library/books", anyRole},
	{http.MethodPost, "/api/library/books", adminLib},
	{http.MethodPut, "/api/library/books/:id", adminLib},
	{http.MethodDelete, "/api/library/books/:id", adminLib},
	{http.MethodDelete, "/api/library/books", adminLib},
	{http.MethodGet, "/api/library/loans", anyRole},
	{http.MethodPost, "/api/library/loans", adminLib},
	{http.MethodPost, "/api/library/loans/:id/return", adminLib},
	{http.MethodGet, "/api/library/reservations", anyRole},
	{http.MethodPost, "/api/library/reservations", []string{user.RoleAdmin, user.RoleLibrarian, user.RoleTeacher, user.RoleStudent}},
	{http.MethodPut, "/api/library/reservations/:id", adminLib},
	{http.MethodDelete, "/api/library/reservations/:id", adminLib},
}

// rolesFor returns the allowed roles for a protected route.
// Registering a route absent from the table is a programming error.
func rolesFor(method, path string) []string {
	for _, p := range routePolicies {
		if p.method == method && p.path == path {
			return p.roles
		}
	}
	panic(fmt.Sprintf("no route policy declared for %s %s", method, path))
}

// guard returns the authorization middleware for a protected route,
// resolved from the policy table.
func guard(method, path string) echo.MiddlewareFunc {
	return authorize(rolesFor(method, path)...)
}
