package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"portal-backend/models"
	"portal-backend/services"
	"portal-backend/storage"
	"portal-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const resetTokenValidity = 15 * time.Minute

// ForgetPasswordHandler godoc
// @Summary      Forgot password
// @Description  Request password reset link by email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "{\"email\":\"user@example.com\"}"
// @Success      200   {object}  object
// @Failure      400   {object}  object
// @Failure      404   {object}  object
// @Router       /api/auth/forgot-password [post]
func ForgetPasswordHandler(db *sql.DB, emailService *services.EmailService, frontendBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		type Request struct {
			Email string `json:"email" binding:"required,email"`
		}
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
			return
		}

		var userID int
		err := db.QueryRow("SELECT id FROM users WHERE email=$1", req.Email).Scan(&userID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		token := uuid.New().String()
		expiry := time.Now().Add(resetTokenValidity)

		_, err = db.Exec(`UPDATE users SET reset_token=$1, reset_token_expiry=$2 WHERE id=$3`, token, expiry, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token"})
			return
		}

		resetLink := fmt.Sprintf("%s%s", frontendBaseURL, token)

		if emailService == nil {
			log.Printf("SMTP not configured, reset link for %s: %s", req.Email, resetLink)
			c.JSON(http.StatusOK, gin.H{"message": "Reset link generated"})
			return
		}
		if err := emailService.SendPasswordReset(req.Email, resetLink, resetTokenValidity); err != nil {
			log.Printf("Failed to send reset email: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Reset link sent to email"})
	}
}

// ResetPasswordHandler godoc
// @Summary      Reset password with token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token   path      string  true  "Reset token"
// @Param        body    body      object  true  "{\"new_password\":\"newpassword\"}"
// @Success      200     {object}  object
// @Failure      400     {object}  object
// @Router       /api/auth/reset-password/{token} [post]
func ResetPasswordHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
			return
		}

		type Request struct {
			NewPassword string `json:"new_password" binding:"required,min=6"`
		}
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password format"})
			return
		}

		var userID int
		var expiry time.Time
		err := db.QueryRow(`SELECT id, reset_token_expiry FROM users WHERE reset_token=$1`, token).
			Scan(&userID, &expiry)

		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if time.Now().After(expiry) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token has expired"})
			return
		}

		hashed, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}

		_, err = db.Exec(`UPDATE users SET password=$1, reset_token=NULL, reset_token_expiry=NULL WHERE id=$2`, hashed, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
	}
}

// ChangePasswordHandler godoc
// @Summary      Change password (authenticated user)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "old_password, new_password"
// @Success      200  {object}  object
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Router       /api/change_password [post]
func ChangePasswordHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type Request struct {
			OldPassword string `json:"old_password" binding:"required"`
			NewPassword string `json:"new_password" binding:"required,min=6"`
		}
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token (session_id) required"})
			return
		}

		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var currentHash string
		err = db.QueryRow(`SELECT password FROM users WHERE id = $1`, user.ID).Scan(&currentHash)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if !utils.ValidatePassword(currentHash, req.OldPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Old password is incorrect"})
			return
		}

		hashed, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
		if _, err := db.Exec(`UPDATE users SET password = $1 WHERE id = $2`, hashed, user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}

		logEntry := models.ActivityLog{
			EventContext: "Change Password",
			EventName:    "Update",
			Description:  "User changed password",
			UserName:     user.FirstName + " " + user.LastName,
			AccountCode:  user.AccountCode,
			CreatedAt:    time.Now(),
		}
		if session, _, sessErr := GetSessionDetails(db, sessionID); sessErr == nil {
			logEntry.HostName = session.HostName
			logEntry.IPAddress = session.IPAddress
		}
		if logErr := storage.SaveActivityLog(db, logEntry); logErr != nil {
			log.Printf("Failed to log password change: %v", logErr)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}
