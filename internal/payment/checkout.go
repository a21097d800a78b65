package payment

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/price"
	"github.com/stripe/stripe-go/v78/product"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/config"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/post"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
)

// pendingCharge writes the ledger row a webhook later settles. Every
// charge starts pending; completed/failed only arrive asynchronously.
func pendingCharge(creatorID, payerID, kind, postID string, amount float64) (*ledger.Transaction, error) {
	txn := ledger.Transaction{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		CreatorID: creatorID,
		PayerID:   payerID,
		Kind:      kind,
		PostID:    postID,
		Amount:    amount,
		Status:    ledger.StatusPending,
	}
	if err := database.DB.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// CreateSubscriptionCheckout POST /api/creators/:creator_id/subscribe
func CreateSubscriptionCheckout(c *gin.Context) {
	cfg := config.LoadConfig()
	stripe.Key = cfg.StripeSecretKey

	creatorID := c.Param("creator_id")
	userID := c.GetString("user_id")
	userEmail := c.GetString("user_email")

	var creator user.User
	if err := database.DB.First(&creator, "id = ? AND is_creator = true", creatorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}
	if creator.StripeAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The creator has no Stripe account"})
		return
	}
	if creatorID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot subscribe to yourself"})
		return
	}

	txn, err := pendingCharge(creatorID, userID, ledger.KindSubscription, "", creator.SubscriptionPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger write failed"})
		return
	}

	baseParams := &stripe.Params{}
	baseParams.StripeAccount = &creator.StripeAccountID

	productParams := &stripe.ProductParams{
		Params: *baseParams,
		Name:   stripe.String(fmt.Sprintf("Subscription to creator %s", creator.Username)),
	}
	createdProduct, err := product.New(productParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe product creation failed"})
		return
	}

	priceParams := &stripe.PriceParams{
		Params:     *baseParams,
		Product:    stripe.String(createdProduct.ID),
		Currency:   stripe.String("brl"),
		UnitAmount: stripe.Int64(int64(creator.SubscriptionPrice * 100)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String("month"),
		},
	}
	createdPrice, err := price.New(priceParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe price creation failed"})
		return
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:     *baseParams,
		Mode:       stripe.String("subscription"),
		SuccessURL: stripe.String(fmt.Sprintf("%s/%s?subscribe=success", cfg.DomainURL, creator.Username)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/%s?subscribe=error", cfg.DomainURL, creator.Username)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(createdPrice.ID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(userEmail),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			ApplicationFeePercent: stripe.Float64(cfg.PlatformFeeRate * 100),
		},
		Metadata: map[string]string{
			"kind":           ledger.KindSubscription,
			"transaction_id": txn.ID,
			"creator_id":     creator.ID,
			"subscriber_id":  userID,
		},
	}

	createdSession, err := session.New(sessionParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe session creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": createdSession.URL})
}

// CreateContentCheckout POST /api/posts/:id/purchase
func CreateContentCheckout(c *gin.Context) {
	cfg := config.LoadConfig()
	stripe.Key = cfg.StripeSecretKey

	userID := c.GetString("user_id")
	userEmail := c.GetString("user_email")
	postID := c.Param("id")

	var p post.Post
	if err := database.DB.First(&p, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if !p.IsPaid || p.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post is not for sale"})
		return
	}
	if p.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot purchase your own post"})
		return
	}

	alreadyBought, err := ledger.HasCompletedPurchase(database.DB, userID, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Purchase check failed"})
		return
	}
	if alreadyBought {
		c.JSON(http.StatusConflict, gin.H{"error": "Post already purchased"})
		return
	}

	var creator user.User
	if err := database.DB.First(&creator, "id = ?", p.UserID).Error; err != nil || creator.StripeAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The creator has no Stripe account"})
		return
	}

	txn, err := pendingCharge(creator.ID, userID, ledger.KindContent, postID, p.Price)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger write failed"})
		return
	}

	createdSession, err := oneOffSession(cfg, creator, userEmail, oneOffCharge{
		Name:          fmt.Sprintf("Post %q by %s", p.Title, creator.Username),
		Amount:        p.Price,
		Kind:          ledger.KindContent,
		TransactionID: txn.ID,
		PayerID:       userID,
		PostID:        postID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe session creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": createdSession.URL})
}

// CreateTipCheckout POST /api/creators/:creator_id/tip
func CreateTipCheckout(c *gin.Context) {
	cfg := config.LoadConfig()
	stripe.Key = cfg.StripeSecretKey

	creatorID := c.Param("creator_id")
	userID := c.GetString("user_id")
	userEmail := c.GetString("user_email")

	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BindJSON(&input); err != nil || input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tip amount must be positive"})
		return
	}

	var creator user.User
	if err := database.DB.First(&creator, "id = ? AND is_creator = true", creatorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}
	if !creator.AllowTips {
		c.JSON(http.StatusForbidden, gin.H{"error": "This creator does not accept tips"})
		return
	}
	if input.Amount < creator.MinimumTipAmount {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Minimum tip amount is %.2f", creator.MinimumTipAmount),
		})
		return
	}
	if creator.StripeAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The creator has no Stripe account"})
		return
	}

	txn, err := pendingCharge(creator.ID, userID, ledger.KindTip, "", input.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger write failed"})
		return
	}

	createdSession, err := oneOffSession(cfg, creator, userEmail, oneOffCharge{
		Name:          fmt.Sprintf("Tip for %s", creator.Username),
		Amount:        input.Amount,
		Kind:          ledger.KindTip,
		TransactionID: txn.ID,
		PayerID:       userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe session creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": createdSession.URL})
	logs.LogJSON("INFO", "Tip checkout created", map[string]interface{}{
		"route":  c.FullPath(),
		"userID": userID,
		"extra":  txn.ID,
	})
}

type oneOffCharge struct {
	Name          string
	Amount        float64
	Kind          string
	TransactionID string
	PayerID       string
	PostID        string
}

func oneOffSession(cfg *config.Config, creator user.User, payerEmail string, charge oneOffCharge) (*stripe.CheckoutSession, error) {
	baseParams := &stripe.Params{}
	baseParams.StripeAccount = &creator.StripeAccountID

	amountCents := int64(charge.Amount * 100)

	sessionParams := &stripe.CheckoutSessionParams{
		Params:     *baseParams,
		Mode:       stripe.String("payment"),
		SuccessURL: stripe.String(fmt.Sprintf("%s/%s?payment=success", cfg.DomainURL, creator.Username)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/%s?payment=error", cfg.DomainURL, creator.Username)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("brl"),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(charge.Name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(payerEmail),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(int64(float64(amountCents) * cfg.PlatformFeeRate)),
		},
		Metadata: map[string]string{
			"kind":           charge.Kind,
			"transaction_id": charge.TransactionID,
			"creator_id":     creator.ID,
			"payer_id":       charge.PayerID,
			"post_id":        charge.PostID,
		},
	}

	return session.New(sessionParams)
}
