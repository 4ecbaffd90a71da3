package services

import (
	"testing"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/utils"
)

func newAuthService(t *testing.T) (*AuthService, *models.Worker) {
	t.Helper()
	db := newTestDB(t)

	utils.SetJWTSecret("auth-test-secret")
	svc := NewAuthService(db, &config.LDAPConfig{}, &config.JWTConfig{Secret: "auth-test-secret", ExpireHour: 1})

	hash, err := utils.HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	worker := models.Worker{
		Username:  "alice",
		Password:  hash,
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		AuthType:  "local",
		IsActive:  true,
	}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatal(err)
	}
	return svc, &worker
}

func TestLogin_Local(t *testing.T) {
	svc, worker := newAuthService(t)

	resp, err := svc.Login(&LoginRequest{Username: "alice", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("login should return a token")
	}
	if resp.Worker.ID != worker.ID {
		t.Error("login should return the authenticated worker")
	}

	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("token should parse: %v", err)
	}
	if claims.UserID != worker.ID {
		t.Errorf("token UserID = %d, expected %d", claims.UserID, worker.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"}); err == nil {
		t.Fatal("wrong password should fail")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Login(&LoginRequest{Username: "nobody", Password: "hunter22"}); err == nil {
		t.Fatal("unknown user should fail")
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, worker := newAuthService(t)

	svc.db.Model(worker).Update("is_active", false)

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "hunter22"}); err == nil {
		t.Fatal("disabled account should not log in")
	}
}

func TestChangePassword(t *testing.T) {
	svc, worker := newAuthService(t)

	err := svc.ChangePassword(worker.ID, &ChangePasswordRequest{
		OldPassword: "hunter22",
		NewPassword: "hunter23",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "hunter22"}); err == nil {
		t.Error("old password should stop working")
	}
	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "hunter23"}); err != nil {
		t.Errorf("new password should work: %v", err)
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, &config.LDAPConfig{}, &config.JWTConfig{Secret: "s", ExpireHour: 1})

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists() error = %v", err)
	}
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("second call error = %v", err)
	}

	var count int64
	db.Model(&models.Worker{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one admin, got %d", count)
	}
}
