package user

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
)

func publicProfile(u User) gin.H {
	response := gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"bio":        u.Bio,
		"avatar_url": u.AvatarURL,
		"is_creator": u.IsCreator,
	}
	if u.IsCreator {
		response["subscription_price"] = u.SubscriptionPrice
		response["allow_tips"] = u.AllowTips
		if u.AllowTips {
			response["minimum_tip_amount"] = u.MinimumTipAmount
		}
	}
	return response
}

// GetMe GET /api/me
func GetMe(c *gin.Context) {
	userID := c.GetString("user_id")

	var u User
	if err := database.DB.First(&u, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	response := publicProfile(u)
	response["email"] = u.Email
	if u.IsAdmin {
		response["is_admin"] = true
	}
	if u.IsCreator {
		response["bank_verified"] = u.BankVerified
	}

	c.JSON(http.StatusOK, gin.H{"user": response})
}

// GetUser GET /api/users/:id
func GetUser(c *gin.Context) {
	route := c.FullPath()
	id := c.Param("id")

	var u User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		logs.LogJSON("WARN", "User not found", map[string]interface{}{
			"error": err.Error(),
			"route": route,
			"extra": fmt.Sprintf("User not found : %s", id),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicProfile(u)})
}

// UpdateUser PATCH /api/users/:id
func UpdateUser(c *gin.Context) {
	route := c.FullPath()
	currentUserID := c.GetString("user_id")
	id := c.Param("id")

	if id != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot update another user"})
		return
	}

	var u User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input struct {
		Username  *string `json:"username"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := map[string]interface{}{}
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&u).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User update failed"})
			logs.LogJSON("ERROR", "User update error", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": currentUserID,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": publicProfile(u)})
	logs.LogJSON("INFO", "User updated successfully", map[string]interface{}{
		"route":  route,
		"userID": currentUserID,
	})
}

// UpdateTipSettings PATCH /api/creator/tip-settings
func UpdateTipSettings(c *gin.Context) {
	userID := c.GetString("user_id")

	var u User
	if err := database.DB.First(&u, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !u.IsCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "Creators only"})
		return
	}

	var input struct {
		AllowTips        *bool    `json:"allow_tips"`
		MinimumTipAmount *float64 `json:"minimum_tip_amount"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := map[string]interface{}{}
	if input.AllowTips != nil {
		updates["allow_tips"] = *input.AllowTips
	}
	if input.MinimumTipAmount != nil {
		if *input.MinimumTipAmount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Minimum tip amount cannot be negative"})
			return
		}
		updates["minimum_tip_amount"] = *input.MinimumTipAmount
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&u).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Tip settings update failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"allow_tips":         u.AllowTips,
		"minimum_tip_amount": u.MinimumTipAmount,
	})
}
