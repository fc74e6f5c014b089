package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/config"
	"github.com/nisshin-gakuen/admission-portal/internal/middleware"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService    *services.AuthService
	studentService *services.StudentService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:    services.NewAuthService(db, &cfg.JWT),
		studentService: services.NewStudentService(db),
	}
}

func loginResponse(result *services.LoginResult) gin.H {
	resp := gin.H{
		"access_token":      result.AccessToken,
		"access_expire_at":  result.AccessExpireAt,
		"refresh_token":     result.RefreshToken,
		"refresh_expire_at": result.RefreshExpireAt,
	}
	if result.User != nil {
		resp["user"] = result.User
	}
	if result.Student != nil {
		resp["student"] = result.Student
	}
	return resp
}

// AdminLogin handles administrator login
// POST /api/auth/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req services.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.AdminLogin(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, loginResponse(result))
}

// StudentLogin handles student login by exam number
// POST /api/auth/student-login
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req services.StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.StudentLogin(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, loginResponse(result))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a refresh token and issues a new access token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"access_token":      result.AccessToken,
		"access_expire_at":  result.AccessExpireAt,
		"refresh_token":     result.RefreshToken,
		"refresh_expire_at": result.RefreshExpireAt,
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		// A missing or already-revoked token still logs the client out.
		_ = h.authService.RevokeRefreshToken(req.RefreshToken)
	}
	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated subject
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.GetUserID(c)
	switch middleware.GetRole(c) {
	case services.RoleAdmin:
		user, err := h.authService.GetUserByID(id)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		response.Success(c, gin.H{"role": services.RoleAdmin, "user": user})
	case services.RoleStudent:
		student, err := h.studentService.GetByID(id)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		response.Success(c, gin.H{"role": services.RoleStudent, "student": student})
	default:
		response.Unauthorized(c, "unknown subject")
	}
}

// ChangePassword updates the authenticated subject's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role := middleware.GetRole(c)
	id := middleware.GetUserID(c)
	if err := h.authService.ChangePassword(role, id, &req); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "password updated"})
}

// CreateAdminIfNotExists seeds the default admin account.
func (h *AuthHandler) CreateAdminIfNotExists() error {
	return h.authService.CreateAdminIfNotExists()
}
