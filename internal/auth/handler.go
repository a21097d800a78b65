package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
)

// Signup POST /api/signup
func Signup(c *gin.Context) {
	var input struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		Username  string `json:"username"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if input.Email == "" || input.Password == "" || input.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must have at least 8 characters"})
		return
	}

	if user.ExistsByEmail(input.Email) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}
	if user.ExistsByUsername(input.Username) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already in use"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password hashing failed"})
		return
	}

	newUser := user.User{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Bio:          input.Bio,
		AvatarURL:    input.AvatarURL,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User creation failed"})
		logs.LogJSON("ERROR", "User creation failed", map[string]interface{}{
			"error": err.Error(),
			"route": c.FullPath(),
		})
		return
	}

	token, err := IssueToken(os.Getenv("JWT_SECRET"), newUser.ID, newUser.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token signing failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": newUser.ID})
	logs.LogJSON("INFO", "User signed up", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": newUser.ID,
	})
}

// Login POST /api/login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var account user.User
	if err := database.DB.First(&account, "email = ?", input.Email).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if account.Suspended {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account suspended"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := IssueToken(os.Getenv("JWT_SECRET"), account.ID, account.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token signing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": account.ID})
	logs.LogJSON("INFO", "User logged in", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": account.ID,
	})
}
