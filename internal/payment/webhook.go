package payment

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/subscription"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
)

// HandleStripeWebhook POST /api/webhooks/stripe
//
// The webhook is the only writer that settles ledger transactions:
// charges stay pending until Stripe reports the outcome here.
func HandleStripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Body read failed"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	sigHeader := c.GetHeader("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, endpointSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Stripe signature"})
		return
	}

	switch event.Type {

	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err == nil {
			handleCheckoutSessionCompleted(session)
		}

	case "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err == nil {
			handleCheckoutSessionExpired(session)
		}

	default:
		logs.LogJSON("DEBUG", "Unhandled Stripe event", map[string]interface{}{
			"type": string(event.Type),
		})
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func handleCheckoutSessionCompleted(session stripe.CheckoutSession) {
	transactionID := session.Metadata["transaction_id"]
	kind := session.Metadata["kind"]
	creatorID := session.Metadata["creator_id"]

	if transactionID == "" || creatorID == "" {
		logs.LogJSON("ERROR", "Stripe session missing metadata", map[string]interface{}{
			"sessionID": session.ID,
		})
		return
	}

	paymentRef := session.ID
	if session.PaymentIntent != nil {
		paymentRef = session.PaymentIntent.ID
	}

	if err := ledger.MarkCompleted(database.DB, transactionID, paymentRef, time.Now()); err != nil {
		logs.LogJSON("ERROR", "Ledger settlement failed", map[string]interface{}{
			"error":         err.Error(),
			"transactionID": transactionID,
		})
		return
	}

	if kind == ledger.KindSubscription {
		activateSubscription(session, creatorID)
	}

	logs.LogJSON("INFO", "Charge settled", map[string]interface{}{
		"transactionID": transactionID,
		"kind":          kind,
	})
}

func handleCheckoutSessionExpired(session stripe.CheckoutSession) {
	transactionID := session.Metadata["transaction_id"]
	if transactionID == "" {
		return
	}
	if err := ledger.MarkFailed(database.DB, transactionID, "checkout session expired"); err != nil {
		logs.LogJSON("ERROR", "Ledger failure mark failed", map[string]interface{}{
			"error":         err.Error(),
			"transactionID": transactionID,
		})
	}
}

func activateSubscription(session stripe.CheckoutSession, creatorID string) {
	subscriberID := session.Metadata["subscriber_id"]
	if subscriberID == "" {
		logs.LogJSON("ERROR", "Subscription session missing subscriber_id", map[string]interface{}{
			"sessionID": session.ID,
		})
		return
	}

	var creator user.User
	if err := database.DB.First(&creator, "id = ?", creatorID).Error; err != nil {
		logs.LogJSON("ERROR", "Creator fetch failed on webhook", map[string]interface{}{
			"error":     err.Error(),
			"creatorID": creatorID,
		})
		return
	}

	stripeSubscriptionID := ""
	if session.Subscription != nil {
		stripeSubscriptionID = session.Subscription.ID
	}
	if stripeSubscriptionID == "" {
		logs.LogJSON("ERROR", "Stripe subscription ID missing in session", map[string]interface{}{
			"sessionID": session.ID,
		})
		return
	}

	// Monthly service period; the expiry job downgrades lapsed rows.
	expiresAt := time.Now().AddDate(0, 1, 0)

	if _, err := subscription.Activate(subscriberID, creatorID, stripeSubscriptionID, creator.SubscriptionPrice, &expiresAt); err != nil {
		logs.LogJSON("ERROR", "Subscription activation failed", map[string]interface{}{
			"error":        err.Error(),
			"creatorID":    creatorID,
			"subscriberID": subscriberID,
		})
		return
	}

	logs.LogJSON("INFO", "Subscription activated", map[string]interface{}{
		"creatorID":    creatorID,
		"subscriberID": subscriberID,
	})
}
