package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core"
	"github.com/SamiSahil/edusysv1/core/academics"
	"github.com/SamiSahil/edusysv1/core/student"
	"github.com/SamiSahil/edusysv1/core/teacher"
	"github.com/SamiSahil/edusysv1/core/user"
)

const (
	jwtContextKey  = "userToken"
	contextUserKey = "user"
)

// portalRoles maps a client-declared login portal to the single role allowed
// to authenticate through it.
var portalRoles = map[string]string{
	"Administration": user.RoleAdmin,
	"Teacher":        user.RoleTeacher,
	"Student":        user.RoleStudent,
	"Accountant":     user.RoleAccountant,
	"Librarian":      user.RoleLibrarian,
}

// appJWTConfig returns the JWT auth middleware config.
func appJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
// The role claim is informational; authorization always re-reads the
// credential record's current role.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role,omitempty"`
}

func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role: usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, signingKey []byte) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(signingKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser returns the request user stashed by the identity middleware.
func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

// identityMiddleware loads the verified token's subject fresh from storage and
// stashes it in the request context. A subject that no longer exists fails
// authentication; the lookup is bounded by the configured database timeout.
func identityMiddleware(svc user.ServiceInterface, conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}

			c, cancel := context.WithTimeout(ctx.Request().Context(), conf.Database.Timeout)
			defer cancel()

			usr, err := svc.GetByID(c, claims.Subject)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "loading request user")
			}
			usr.PasswordHash = nil
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// authorize gates a route on the request user's current role. An empty role
// set admits any authenticated user.
func authorize(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				return next(ctx)
			}
			for _, role := range roles {
				if usr.Role == role {
					return next(ctx)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf(
				"%s role is not allowed to access %s %s", usr.Role, ctx.Request().Method, ctx.Path()))
		}
	}
}

// Identity is the merged login payload: the credential record enriched with
// the linked profile. Profile fields win over credential fields, except id
// and role which always come from the credential record.
type Identity struct {
	ID           string                 `json:"id"`
	Role         string                 `json:"role"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email,omitempty"`
	IsActive     bool                   `json:"is_active"`
	StudentID    string                 `json:"studentId,omitempty"`
	TeacherID    string                 `json:"teacherId,omitempty"`
	RollNo       string                 `json:"rollNo,omitempty"`
	Guardian     string                 `json:"guardian,omitempty"`
	Phone        string                 `json:"phone,omitempty"`
	SectionID    string                 `json:"sectionId,omitempty"`
	Section      *academics.SectionInfo `json:"section,omitempty"`
	DepartmentID string                 `json:"departmentId,omitempty"`
	SubjectID    string                 `json:"subjectId,omitempty"`
}

func newIdentity(usr user.User) Identity {
	return Identity{
		ID:        usr.ID,
		Role:      usr.Role,
		Name:      usr.Name,
		Email:     usr.Email,
		IsActive:  usr.IsActive,
		StudentID: usr.StudentID,
		TeacherID: usr.TeacherID,
	}
}

func (ident *Identity) applyStudentProfile(prof student.Profile) {
	if prof.Name != "" {
		ident.Name = prof.Name
	}
	if prof.Email != "" {
		ident.Email = prof.Email
	}
	ident.RollNo = prof.RollNo
	ident.Guardian = prof.Guardian
	ident.Phone = prof.Phone
	ident.SectionID = prof.SectionID
	ident.Section = prof.Section
}

func (ident *Identity) applyTeacherProfile(tc teacher.Teacher) {
	if tc.Name != "" {
		ident.Name = tc.Name
	}
	if tc.Email != "" {
		ident.Email = tc.Email
	}
	ident.Phone = tc.Phone
	ident.DepartmentID = tc.DepartmentID
	ident.SubjectID = tc.SubjectID
}

type authApi struct {
	userSvc    user.ServiceInterface
	studentSvc student.ServiceInterface
	teacherSvc teacher.ServiceInterface
	validate   *validator.Validate
	conf       *core.Config
}

func registerAuthAPI(
	g *echo.Group,
	userSvc user.ServiceInterface,
	studentSvc student.ServiceInterface,
	teacherSvc teacher.ServiceInterface,
	validate *validator.Validate,
	conf *core.Config,
) {
	api := authApi{
		userSvc:    userSvc,
		studentSvc: studentSvc,
		teacherSvc: teacherSvc,
		validate:   validate,
		conf:       conf,
	}

	// un-authed endpoints
	g.POST("/login", api.login)
	g.POST("/password-reset", api.resetPassword)
	g.POST("/password-reset-confirm", api.confirmPasswordReset)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// resolve the expected role before touching storage
	expectedRole, ok := portalRoles[data.Portal]
	if !ok {
		return errInvalidPortal
	}

	usr, err := api.userSvc.GetByEmail(ctx.Request().Context(), data.Username)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}
	if usr.Role != expectedRole {
		return errWrongPortal
	}
	if !usr.IsActive {
		return errAccountDeactivated
	}

	ident := api.assembleIdentity(ctx.Request().Context(), usr)

	if _, err = api.userSvc.SetLastLogin(ctx.Request().Context(), usr); err != nil {
		return errors.Wrap(err, "setting lastLogin")
	}

	token, err := GenerateToken(GetUserClaims(usr, api.conf), []byte(api.conf.SecretKey))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, User: ident, Token: token})
}

// assembleIdentity enriches the credential record with its linked profile.
// A missing or dangling profile ref falls back to the credential fields only.
func (api *authApi) assembleIdentity(ctx context.Context, usr user.User) Identity {
	ident := newIdentity(usr)

	switch usr.Role {
	case user.RoleStudent:
		if usr.StudentID == "" {
			break
		}
		if prof, err := api.studentSvc.GetProfile(ctx, usr.StudentID); err == nil {
			ident.applyStudentProfile(prof)
		}
	case user.RoleTeacher:
		if usr.TeacherID == "" {
			break
		}
		if tc, err := api.teacherSvc.GetByID(ctx, usr.TeacherID); err == nil {
			ident.applyTeacherProfile(tc)
		}
	}
	return ident
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.userSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, statusResponse{
		Success: true,
		Message: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.userSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, statusResponse{Success: true, Message: "Password has been reset with the new password."})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
		Portal   string `json:"portal" validate:"required"`
	}

	LoginResponse struct {
		Success bool     `json:"success"`
		User    Identity `json:"user"`
		Token   string   `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	statusResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	lr.Portal = core.CleanString(lr.Portal)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
