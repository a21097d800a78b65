package subscription

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	stripesub "github.com/stripe/stripe-go/v78/subscription"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
)

// Unsubscribe DELETE /api/creators/:creator_id/subscribe
func Unsubscribe(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	subscriberID := c.GetString("user_id")
	creatorID := c.Param("creator_id")

	var existing Subscription
	if err := database.DB.
		Where("subscriber_id = ? AND creator_id = ? AND status = ?", subscriberID, creatorID, StatusActive).
		First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if existing.StripeSubscriptionID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing Stripe subscription ID"})
		return
	}

	var creator struct {
		StripeAccountID string
	}
	if err := database.DB.
		Table("users").
		Select("stripe_account_id").
		Where("id = ?", creatorID).
		Scan(&creator).Error; err != nil || creator.StripeAccountID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch the creator's Stripe account"})
		return
	}

	cancelParams := &stripe.SubscriptionCancelParams{}
	cancelParams.StripeAccount = &creator.StripeAccountID

	if _, err := stripesub.Cancel(existing.StripeSubscriptionID, cancelParams); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe cancellation failed"})
		logs.LogJSON("ERROR", "Stripe cancellation failed", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"userID": subscriberID,
		})
		return
	}

	existing.Status = StatusCancelled
	if err := database.DB.Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Local subscription update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
	logs.LogJSON("INFO", "Subscription cancelled", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": subscriberID,
	})
}

// ListMine GET /api/subscriptions
func ListMine(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	var subs []Subscription
	if err := database.DB.
		Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}
