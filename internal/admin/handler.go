package admin

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/config"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/post"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/withdrawal"
)

func parseDateRange(c *gin.Context) (time.Time, time.Time) {
	startDate := time.Now().AddDate(0, 0, -30)
	endDate := time.Now()

	if raw := c.Query("start_date"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			startDate = parsed
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			endDate = parsed.AddDate(0, 0, 1)
		}
	}
	return startDate, endDate
}

// GetDashboardStats GET /api/admin/stats
func GetDashboardStats(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	startDate, endDate := parseDateRange(c)

	var totalUsers, creatorsCount, suspendedUsers int64
	var totalPosts, premiumPosts int64

	database.DB.Model(&user.User{}).Count(&totalUsers)
	database.DB.Model(&user.User{}).Where("is_creator = true").Count(&creatorsCount)
	database.DB.Model(&user.User{}).Where("suspended = true").Count(&suspendedUsers)
	database.DB.Model(&post.Post{}).Count(&totalPosts)
	database.DB.Model(&post.Post{}).Where("is_paid = true").Count(&premiumPosts)

	stats := gin.H{
		"total_users":     totalUsers,
		"creators_count":  creatorsCount,
		"suspended_users": suspendedUsers,
		"total_posts":     totalPosts,
		"premium_posts":   premiumPosts,
		"date_range": gin.H{
			"start": startDate.Format("2006-01-02"),
			"end":   endDate.Format("2006-01-02"),
		},
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
	logs.LogJSON("INFO", "Admin stats retrieved", map[string]interface{}{
		"route":  route,
		"userID": userID,
	})
}

// GetFinanceReport GET /api/admin/finance
//
// Platform-wide view over the window: gross completed volume, the fee
// share the platform retained and what belongs to creators, plus the
// per-kind gross split.
func GetFinanceReport(c *gin.Context) {
	cfg := config.LoadConfig()
	startDate, endDate := parseDateRange(c)

	var gross float64
	if err := database.DB.Model(&ledger.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND completed_at >= ? AND completed_at < ?", ledger.StatusCompleted, startDate, endDate).
		Scan(&gross).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Finance aggregation failed"})
		return
	}

	byKind := map[string]float64{}
	for _, kind := range []string{ledger.KindSubscription, ledger.KindContent, ledger.KindTip} {
		var sum float64
		if err := database.DB.Model(&ledger.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("status = ? AND kind = ? AND completed_at >= ? AND completed_at < ?",
				ledger.StatusCompleted, kind, startDate, endDate).
			Scan(&sum).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Finance aggregation failed"})
			return
		}
		byKind[kind] = sum
	}

	fees := math.Round(gross*cfg.PlatformFeeRate*100) / 100
	creatorNet := math.Round((gross-fees)*100) / 100

	c.JSON(http.StatusOK, gin.H{
		"gross_volume":  gross,
		"platform_fees": fees,
		"creator_net":   creatorNet,
		"gross_by_kind": byKind,
		"date_range": gin.H{
			"start": startDate.Format("2006-01-02"),
			"end":   endDate.Format("2006-01-02"),
		},
	})
}

// ListUsers GET /api/admin/users
func ListUsers(c *gin.Context) {
	var users []user.User
	q := database.DB.Order("created_at DESC").Limit(100)

	if c.Query("suspended") == "true" {
		q = q.Where("suspended = true")
	}
	if c.Query("creators") == "true" {
		q = q.Where("is_creator = true")
	}

	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list users"})
		return
	}

	views := make([]gin.H, 0, len(users))
	for _, u := range users {
		views = append(views, gin.H{
			"id":         u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"is_creator": u.IsCreator,
			"suspended":  u.Suspended,
			"created_at": u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": views})
}

func setSuspended(c *gin.Context, suspended bool) {
	adminID := c.GetString("user_id")
	id := c.Param("id")

	if id == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot suspend yourself"})
		return
	}

	res := database.DB.Model(&user.User{}).Where("id = ?", id).Update("suspended", suspended)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suspended": suspended})
	logs.LogJSON("INFO", "User suspension changed", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": adminID,
		"extra":  id,
	})
}

// SuspendUser PATCH /api/admin/users/:id/suspend
func SuspendUser(c *gin.Context) {
	setSuspended(c, true)
}

// UnsuspendUser PATCH /api/admin/users/:id/unsuspend
func UnsuspendUser(c *gin.Context) {
	setSuspended(c, false)
}

// TakeDownPost DELETE /api/admin/posts/:id
func TakeDownPost(c *gin.Context) {
	adminID := c.GetString("user_id")
	id := c.Param("id")

	res := database.DB.Where("id = ?", id).Delete(&post.Post{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Post takedown failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post removed"})
	logs.LogJSON("INFO", "Post taken down", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": adminID,
		"extra":  id,
	})
}

// ListWithdrawals GET /api/admin/withdrawals
func ListWithdrawals(c *gin.Context) {
	startDate, endDate := parseDateRange(c)

	q := database.DB.Model(&withdrawal.Withdrawal{}).
		Where("created_at >= ? AND created_at < ?", startDate, endDate).
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var items []withdrawal.Withdrawal
	if err := q.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": items})
}
