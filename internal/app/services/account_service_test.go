package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/auth"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/validation"
)

func studentRequest() *dto.StudentRequest {
	return &dto.StudentRequest{
		LastName: " Alaoui ", FirstName: "Yasmine", Email: "yasmine@ensab.ma", CodeApogee: 20239999,
		CIN: "BK112233", Program: "Génie Civil", Level: "1ère année", AcademicYear: "2024-2025",
	}
}

func TestStudentCreate(t *testing.T) {
	students := seedStudents()
	svc := NewStudentService(students, testLogger)

	s, err := svc.Create(context.Background(), studentRequest())
	if err != nil {
		t.Fatal(err)
	}
	if s.LastName != "Alaoui" {
		t.Errorf("name not trimmed: %q", s.LastName)
	}

	user := students.users[len(students.users)-1]
	if user.Username != "yasmine@ensab.ma" || user.RoleType != models.RoleStudent {
		t.Errorf("login = %+v", user)
	}
	if !auth.CheckPassword(user.Password, DefaultStudentPassword) {
		t.Error("default password not set")
	}

	if _, err := svc.Create(context.Background(), studentRequest()); !errors.Is(err, apperrors.ErrStudentIdentifier) {
		t.Errorf("duplicate create = %v", err)
	}
}

func TestStudentValidation(t *testing.T) {
	svc := NewStudentService(seedStudents(), testLogger)

	tests := []struct {
		name   string
		mutate func(*dto.StudentRequest)
		msg    string
	}{
		{"blank name", func(r *dto.StudentRequest) { r.LastName = "   " }, validation.MsgRequiredFields},
		{"zero code", func(r *dto.StudentRequest) { r.CodeApogee = 0 }, validation.MsgCodeApogee},
		{"bad email", func(r *dto.StudentRequest) { r.Email = "yasmine" }, validation.MsgEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := studentRequest()
			tt.mutate(req)
			_, err := svc.Create(context.Background(), req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("err = %v", err)
			}
			if msg, _ := apperrors.UserMessage(err); msg != tt.msg {
				t.Errorf("message = %q, want %q", msg, tt.msg)
			}
		})
	}
}

func TestStudentListAndProfile(t *testing.T) {
	svc := NewStudentService(seedStudents(), testLogger)

	got, err := svc.List(context.Background(), listing.Criteria{Search: "karim"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].FirstName != "Karim" {
		t.Errorf("List() = %+v", got)
	}

	me, err := svc.Profile(context.Background(), studentP)
	if err != nil {
		t.Fatal(err)
	}
	if me.Email != "salma@ensab.ma" {
		t.Errorf("Profile() = %+v", me)
	}
	if _, err := svc.Profile(context.Background(), adminP); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("admin profile = %v", err)
	}
}

func TestAdminLifecycle(t *testing.T) {
	users := newFakeUsers()
	users.add(&models.User{ID: 1, Username: "admin", RoleType: models.RoleAdmin}, 1)
	admins := newFakeAdmins()
	svc := NewAdminService(admins, users, testLogger)
	ctx := context.Background()

	req := &dto.AdminRequest{Username: "admin", Password: "secret1", LastName: "Idrissi", FirstName: "Omar", CIN: "AB1"}
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrUsernameTaken) {
		t.Fatalf("taken username = %v", err)
	}

	req.Username = "omar"
	req.Password = "123"
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("short password = %v", err)
	}

	req.Password = "secret1"
	a, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword(admins.hashes[a.ID], "secret1") {
		t.Error("password not hashed")
	}

	req.Password = ""
	req.LastName = "Idrissi Alami"
	if _, err := svc.Update(ctx, a.ID, req); err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword(admins.hashes[a.ID], "secret1") {
		t.Error("empty password replaced the current one")
	}

	self := adminP
	self.ProfileID = a.ID
	if err := svc.Delete(ctx, self, a.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("self delete = %v", err)
	}
	other := adminP
	other.ProfileID = a.ID + 1
	if err := svc.Delete(ctx, other, a.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("last admin delete = %v", err)
	}

	users.admins = 2
	if err := svc.Delete(ctx, other, a.ID); err != nil {
		t.Errorf("delete = %v", err)
	}
}
