package payment

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/account"
	"github.com/stripe/stripe-go/v78/accountlink"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/database"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/user"
)

// CreateAccountLink POST /api/creator/connect
//
// Creates a connected Stripe account for the user and returns the
// onboarding link.
func CreateAccountLink(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	domain := os.Getenv("DOMAIN_URL")

	userID := c.GetString("user_id")

	acctParams := &stripe.AccountParams{
		Type: stripe.String("standard"),
	}
	acct, err := account.New(acctParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe account creation failed"})
		return
	}

	linkParams := &stripe.AccountLinkParams{
		Account:    stripe.String(acct.ID),
		RefreshURL: stripe.String(fmt.Sprintf("%s/become-creator/error", domain)),
		ReturnURL:  stripe.String(fmt.Sprintf("%s/become-creator/success?account_id=%s", domain, acct.ID)),
		Type:       stripe.String("account_onboarding"),
	}
	link, err := accountlink.New(linkParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe onboarding link creation failed"})
		return
	}

	if err := database.DB.Model(&user.User{}).Where("id = ?", userID).Update("stripe_account_id", acct.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "StripeAccountID update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": link.URL})
}

// CompleteConnect GET /api/creator/connect/complete?account_id=
//
// Confirms the onboarded account can take charges, then promotes the
// user to creator with a verified payout destination. BankVerified only
// flips here; withdrawals stay blocked until it does.
func CompleteConnect(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	userID := c.GetString("user_id")

	accountID := c.Query("account_id")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing account_id parameter"})
		return
	}

	acct, err := account.GetByID(accountID, nil)
	if err != nil || !acct.ChargesEnabled {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "The account is not activated yet"})
		return
	}

	updateData := map[string]interface{}{
		"is_creator":         true,
		"subscription_price": 5.0,
		"bank_account":       fmt.Sprintf("stripe:%s", accountID),
		"bank_verified":      acct.PayoutsEnabled,
	}

	if err := database.DB.Model(&user.User{}).Where("id = ?", userID).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bank_verified": acct.PayoutsEnabled})
}
