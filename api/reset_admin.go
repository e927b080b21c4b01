package api

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/security"
	"github.com/janil231/research-repository2/validators"
)

const (
	totpMaxAttempts = 5
	totpLockWindow  = 15 * time.Minute
)

var totpCodeFormat = regexp.MustCompile(`^\d{6}$`)

type resetAdminBody struct {
	Username    string `json:"username"`
	TotpCode    string `json:"totpCode"`
	NewPassword string `json:"newPassword"`
}

// ResetAdmin resets an admin's password against their TOTP code. Five
// failed codes lock the account out of this endpoint for 15 minutes.
func (a *API) ResetAdmin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetAdminBody
	if err := c.ShouldBind(&data); err != nil || data.Username == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Username, TOTP code and new password are required",
			"requestID": requestID,
		})
		return
	}

	if !totpCodeFormat.MatchString(data.TotpCode) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "TOTP code must be 6 digits",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var user model.User
	err := a.DB.
		Where("username = ? AND role = ?", data.Username, model.RoleAdmin).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Admin account not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up admin", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.TotpLockedUntil != nil && time.Now().Before(*user.TotpLockedUntil) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many failed attempts, try again later",
			"requestID": requestID,
		})
		return
	}

	if !security.VerifyTOTP(data.TotpCode, user.AuthSecret) {
		updates := map[string]any{"totp_attempts": user.TotpAttempts + 1}
		if user.TotpAttempts+1 >= totpMaxAttempts {
			lockedUntil := time.Now().Add(totpLockWindow)
			updates["totp_locked_until"] = lockedUntil
			updates["totp_attempts"] = 0
		}

		if err := a.DB.Model(model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			zap.L().Error("Failed to record failed TOTP attempt", zap.Error(err), zap.String("requestID", requestID))
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid TOTP code",
			"requestID": requestID,
		})
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.NewPassword)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Model(model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"password_hash":     hash,
			"totp_attempts":     0,
			"totp_locked_until": nil,
		}).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
