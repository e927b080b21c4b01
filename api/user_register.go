package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/security"
	"github.com/janil231/research-repository2/validators"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type registerBody struct {
	Role       string `json:"role"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	SchoolID   string `json:"schoolId"`
	Department string `json:"department"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	SecretKey  string `json:"secretKey"`
}

// UserRegister creates a student (pending admin approval) or an admin
// account. Admin registration is gated behind the shared secret key and
// returns a TOTP enrollment for the authenticator app.
func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	switch data.Role {
	case model.RoleStudent:
		a.registerStudent(c, requestID, &data)
	case model.RoleAdmin:
		a.registerAdmin(c, requestID, &data)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     `Invalid role. Must be "student" or "admin"`,
			"requestID": requestID,
		})
	}
}

func (a *API) registerStudent(c *gin.Context, requestID string, data *registerBody) {
	if data.FirstName == "" || data.LastName == "" || data.SchoolID == "" || data.Department == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "All fields are required",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if !a.identifierFree(c, requestID, "school_id = ?", data.SchoolID, "School ID already registered") {
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := &model.User{
		ID:           userID,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		SchoolID:     &data.SchoolID,
		Department:   data.Department,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		Status:       model.StatusPending,
	}

	if err := a.DB.Create(user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Student registration submitted. Waiting for admin approval",
		"userID":  userID,
	})
}

func (a *API) registerAdmin(c *gin.Context, requestID string, data *registerBody) {
	if data.FirstName == "" || data.LastName == "" || data.Username == "" || data.SecretKey == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "First name, last name, username, password and secret key are required",
			"requestID": requestID,
		})
		return
	}

	if len(data.Username) < 3 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Username must be at least 3 characters long",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if data.SecretKey != viper.GetString("admin.secret_key") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Invalid admin secret key",
			"requestID": requestID,
		})
		return
	}

	if !a.identifierFree(c, requestID, "username = ?", data.Username, "Username already registered") {
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	enrollment, err := security.GenerateTOTP(data.Username)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate TOTP enrollment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := &model.User{
		ID:           userID,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Username:     &data.Username,
		AuthSecret:   enrollment.Secret,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		// Not consulted for admins, set for consistency only
		Status: model.StatusApproved,
	}

	if err := a.DB.Create(user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin registered successfully. Please scan the QR code with an authenticator app",
		"userID":  userID,
		"qrCode":  enrollment.QRCode,
		"secret":  enrollment.Secret,
	})
}

// identifierFree answers whether no account holds this identifier yet,
// writing the conflict response itself when one does
func (a *API) identifierFree(c *gin.Context, requestID, cond, value, conflictMsg string) bool {
	var count int64

	err := a.DB.Model(model.User{}).Where(cond, value).Count(&count).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(err), zap.String("requestID", requestID))
		return false
	}

	if count > 0 {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     conflictMsg,
			"requestID": requestID,
		})
		return false
	}

	return true
}
