package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"github.com/nisshin-gakuen/admission-portal/internal/models"
	"github.com/nisshin-gakuen/admission-portal/internal/utils"
	"gorm.io/gorm"
)

// Roles carried in JWT claims.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

const refreshTokenExpireHours = 720

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates administrators (username/password) and
// students (exam number/password) and manages rotating refresh tokens.
type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	students  *StudentService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
		students:  NewStudentService(db),
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type StudentLoginRequest struct {
	ExamNo   string `json:"exam_no" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	SubjectType     string
	User            *models.User
	Student         *models.Student
}

type RefreshResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
}

// AdminLogin authenticates an administrator.
func (s *AuthService) AdminLogin(req *AdminLoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr(err)
	}
	if !user.IsActive {
		return nil, errors.New("account is disabled")
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokens(models.SubjectUser, user.ID, user.Username, RoleAdmin, clientIP, userAgent)
	if err != nil {
		return nil, err
	}
	result.User = &user

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	return result, nil
}

// StudentLogin authenticates a student by exam number. The initial password
// is phone-derived; see StudentService.ResetPassword.
func (s *AuthService) StudentLogin(req *StudentLoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	student, err := s.students.GetByExamNo(req.ExamNo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(req.Password, student.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokens(models.SubjectStudent, student.ID, student.ExamNo, RoleStudent, clientIP, userAgent)
	if err != nil {
		return nil, err
	}
	result.Student = student
	s.students.TouchLogin(student.ID)

	return result, nil
}

func (s *AuthService) issueTokens(subjectType string, subjectID uint, username, role, clientIP, userAgent string) (*LoginResult, error) {
	accessHours := s.jwtConfig.ExpireHour

	token, err := utils.GenerateToken(subjectID, username, role, accessHours)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshExpireAt := time.Now().Add(refreshTokenExpireHours * time.Hour)
	record := models.RefreshToken{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		TokenHash:   refreshHash,
		ExpiresAt:   refreshExpireAt,
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, storageErr(err)
	}

	return &LoginResult{
		AccessToken:     token,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: refreshExpireAt,
		SubjectType:     subjectType,
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// access/refresh pair issued atomically.
func (s *AuthService) Refresh(refreshToken, clientIP, userAgent string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, errors.New("refresh token required")
	}

	hash := hashRefreshToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid refresh token")
		}
		return nil, storageErr(err)
	}

	if stored.RevokedAt != nil {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}

	var username, role string
	switch stored.SubjectType {
	case models.SubjectUser:
		var user models.User
		if err := s.db.First(&user, stored.SubjectID).Error; err != nil {
			return nil, errors.New("account not found")
		}
		if !user.IsActive {
			return nil, errors.New("account is disabled")
		}
		username, role = user.Username, RoleAdmin
	case models.SubjectStudent:
		var student models.Student
		if err := s.db.First(&student, stored.SubjectID).Error; err != nil {
			return nil, errors.New("account not found")
		}
		username, role = student.ExamNo, RoleStudent
	default:
		return nil, errors.New("invalid refresh token")
	}

	accessHours := s.jwtConfig.ExpireHour
	newAccessToken, err := utils.GenerateToken(stored.SubjectID, username, role, accessHours)
	if err != nil {
		return nil, err
	}

	newRefreshToken, newRefreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newRecord := models.RefreshToken{
		SubjectType: stored.SubjectType,
		SubjectID:   stored.SubjectID,
		TokenHash:   newRefreshHash,
		ExpiresAt:   now.Add(refreshTokenExpireHours * time.Hour),
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newRecord).Error; err != nil {
			return err
		}
		return tx.Model(&stored).Updates(map[string]interface{}{
			"revoked_at":           now,
			"replaced_by_token_id": newRecord.ID,
		}).Error
	}); err != nil {
		return nil, storageErr(err)
	}

	return &RefreshResult{
		AccessToken:     newAccessToken,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    newRefreshToken,
		RefreshExpireAt: newRecord.ExpiresAt,
	}, nil
}

// RevokeRefreshToken invalidates the presented refresh token on logout.
func (s *AuthService) RevokeRefreshToken(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	hash := hashRefreshToken(refreshToken)
	now := time.Now()
	return storageErr(s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now).Error)
}

// GetUserByID returns an administrator account.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, storageErr(err)
	}
	return &user, nil
}

// CreateAdminIfNotExists seeds the default admin account on first boot.
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", RoleAdmin).Count(&count)

	if count == 0 {
		hashedPassword, err := utils.HashPassword("admin")
		if err != nil {
			return err
		}

		admin := models.User{
			Username: "admin",
			Password: hashedPassword,
			Nickname: "Administrator",
			Role:     RoleAdmin,
			IsActive: true,
		}
		return s.db.Create(&admin).Error
	}

	return nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword updates the caller's password. Works for both admins and
// students depending on the caller's role.
func (s *AuthService) ChangePassword(role string, subjectID uint, req *ChangePasswordRequest) error {
	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	switch role {
	case RoleAdmin:
		var user models.User
		if err := s.db.First(&user, subjectID).Error; err != nil {
			return ErrNotFound
		}
		if !utils.CheckPassword(req.OldPassword, user.Password) {
			return errors.New("incorrect old password")
		}
		return storageErr(s.db.Model(&user).Update("password", hashed).Error)
	case RoleStudent:
		var student models.Student
		if err := s.db.First(&student, subjectID).Error; err != nil {
			return ErrNotFound
		}
		if !utils.CheckPassword(req.OldPassword, student.PasswordHash) {
			return errors.New("incorrect old password")
		}
		return storageErr(s.db.Model(&student).Update("password_hash", hashed).Error)
	}
	return errors.New("unknown role")
}

func generateRefreshToken() (token string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(randomBytes)
	tokenHash = hashRefreshToken(token)
	return token, tokenHash, nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
