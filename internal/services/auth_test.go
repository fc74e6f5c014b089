package services

import (
	"errors"
	"testing"

	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"github.com/nisshin-gakuen/admission-portal/internal/utils"
)

func init() {
	utils.SetJWTSecret("test-secret-for-auth-service")
}

func newAuthService(t *testing.T) (*AuthService, *StudentService) {
	t.Helper()
	db := setupTestDB(t)
	jwtCfg := &config.JWTConfig{Secret: "test-secret-for-auth-service", ExpireHour: 24}
	return NewAuthService(db, jwtCfg), NewStudentService(db)
}

func TestAdminLogin(t *testing.T) {
	service, _ := newAuthService(t)

	if err := service.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}

	result, err := service.AdminLogin(&AdminLoginRequest{Username: "admin", Password: "admin"}, "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("login should issue both tokens")
	}
	if result.User == nil || result.User.Username != "admin" {
		t.Error("login should return the user")
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, expected admin", claims.Role)
	}
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	service, _ := newAuthService(t)
	if err := service.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}

	_, err := service.AdminLogin(&AdminLoginRequest{Username: "admin", Password: "wrong"}, "", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = service.AdminLogin(&AdminLoginRequest{Username: "ghost", Password: "admin"}, "", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user should also be ErrInvalidCredentials, got %v", err)
	}
}

func TestStudentLogin_PhoneDerivedPassword(t *testing.T) {
	service, students := newAuthService(t)

	if _, err := students.Create(&CreateStudentRequest{ExamNo: "A0001", Name: "山田太郎", Phone: "090-1234-5678"}); err != nil {
		t.Fatalf("create student failed: %v", err)
	}

	result, err := service.StudentLogin(&StudentLoginRequest{ExamNo: "A0001", Password: "5678"}, "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Student == nil || result.Student.ExamNo != "A0001" {
		t.Error("login should return the student")
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.Role != RoleStudent {
		t.Errorf("Role = %q, expected student", claims.Role)
	}
	if claims.Username != "A0001" {
		t.Errorf("Username = %q, expected the exam number", claims.Username)
	}

	_, err = service.StudentLogin(&StudentLoginRequest{ExamNo: "A0001", Password: "0000"}, "", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password should be ErrInvalidCredentials, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	service, _ := newAuthService(t)
	if err := service.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}

	login, err := service.AdminLogin(&AdminLoginRequest{Username: "admin", Password: "admin"}, "", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := service.Refresh(login.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh should issue a new refresh token")
	}

	// The old token is revoked by rotation.
	if _, err := service.Refresh(login.RefreshToken, "", ""); err == nil {
		t.Error("rotated token should be rejected")
	}

	// The new token still works.
	if _, err := service.Refresh(refreshed.RefreshToken, "", ""); err != nil {
		t.Errorf("new token should refresh, got %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	service, _ := newAuthService(t)
	if err := service.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}

	login, err := service.AdminLogin(&AdminLoginRequest{Username: "admin", Password: "admin"}, "", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := service.RevokeRefreshToken(login.RefreshToken); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := service.Refresh(login.RefreshToken, "", ""); err == nil {
		t.Error("revoked token should be rejected")
	}
}

func TestChangePassword_Student(t *testing.T) {
	service, students := newAuthService(t)

	student, err := students.Create(&CreateStudentRequest{ExamNo: "A0001", Name: "山田太郎", Phone: "09012345678"})
	if err != nil {
		t.Fatalf("create student failed: %v", err)
	}

	err = service.ChangePassword(RoleStudent, student.ID, &ChangePasswordRequest{
		OldPassword: "5678",
		NewPassword: "new-secret",
	})
	if err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := service.StudentLogin(&StudentLoginRequest{ExamNo: "A0001", Password: "5678"}, "", ""); err == nil {
		t.Error("old password should no longer work")
	}
	if _, err := service.StudentLogin(&StudentLoginRequest{ExamNo: "A0001", Password: "new-secret"}, "", ""); err != nil {
		t.Errorf("new password should work, got %v", err)
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	service, students := newAuthService(t)

	student, err := students.Create(&CreateStudentRequest{ExamNo: "A0001", Name: "山田太郎", Phone: "09012345678"})
	if err != nil {
		t.Fatalf("create student failed: %v", err)
	}

	err = service.ChangePassword(RoleStudent, student.ID, &ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "new-secret",
	})
	if err == nil {
		t.Error("wrong old password should be rejected")
	}
}
