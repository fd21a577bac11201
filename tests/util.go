package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/SamiSahil/edusysv1/core"
	"github.com/SamiSahil/edusysv1/core/student"
	"github.com/SamiSahil/edusysv1/core/teacher"
	"github.com/SamiSahil/edusysv1/core/user"
)

// NewConfig returns a self-contained configuration for tests. It never reads
// the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:           false,
		TestMode:        true,
		Env:             "TEST",
		Build:           "test",
		AppName:         "EduSys",
		SecretKey:       "&!v5=yj9m16+^l#&byfp2u#qr8sc6*2!-#n#+_)op4+z7j@9b7",
		FrontendBaseURL: "http://localhost:3000",
		DefaultFromName: "EduSys",
		DefaultFromAddr: "noreply@test.cd",
		Server: core.ServerConfig{
			Host:               "localhost",
			Addr:               ":0",
			ShutdownTimeout:    5 * time.Second,
			JWTExpirationDelta: 1 * time.Hour,
		},
		Database: core.DatabaseConfig{
			Timeout: 5 * time.Second,
		},
		PasswordResetTimeoutDelta: 1 * time.Hour,
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, rollNo, sectionID string,
) student.Student {
	t.Helper()

	now := time.Now().UTC()
	st, err := repo.CreateStudent(context.Background(), student.Student{
		Name:      name,
		RollNo:    rollNo,
		SectionID: sectionID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateTeacher(
	t *testing.T,
	repo teacher.Repository,
	name, email, departmentID string,
) teacher.Teacher {
	t.Helper()

	now := time.Now().UTC()
	tc, err := repo.CreateTeacher(context.Background(), teacher.Teacher{
		Name:         name,
		Email:        email,
		DepartmentID: departmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tc
}
