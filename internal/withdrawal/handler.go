package withdrawal

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
)

type Handler struct {
	authorizer *Authorizer
}

func NewHandler(authorizer *Authorizer) *Handler {
	return &Handler{authorizer: authorizer}
}

// GetBalance GET /api/creator/balance
func (h *Handler) GetBalance(c *gin.Context) {
	creatorID := c.GetString("user_id")

	balance, err := h.authorizer.Balance(creatorID, time.Now())
	if err != nil {
		if errors.Is(err, ledger.ErrCreatorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Balance computation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available_balance": balance})
}

// Create POST /api/creator/withdrawals
func (h *Handler) Create(c *gin.Context) {
	route := c.FullPath()
	creatorID := c.GetString("user_id")

	var input struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if input.Method == "" {
		input.Method = MethodBankTransfer
	}
	if input.Method != MethodInstantTransfer && input.Method != MethodBankTransfer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payout method"})
		return
	}

	created, err := h.authorizer.Create(c.Request.Context(), creatorID, input.Amount, input.Method)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Withdrawal amount must be positive"})
		case errors.Is(err, ledger.ErrCreatorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		case errors.Is(err, ErrBankNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": "Bank account not verified"})
		case errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient available balance"})
		case errors.Is(err, ErrProviderUnavailable):
			// The withdrawal record exists in failed state; the caller
			// may retry with a fresh request.
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "Payout provider unavailable, try again later",
				"withdrawal": created,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Withdrawal creation failed"})
			logs.LogJSON("ERROR", "Withdrawal creation failed", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": creatorID,
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"withdrawal": created})
	logs.LogJSON("INFO", "Withdrawal created", map[string]interface{}{
		"route":  route,
		"userID": creatorID,
		"extra":  created.ID,
	})
}

// ListMine GET /api/creator/withdrawals
func (h *Handler) ListMine(c *gin.Context) {
	creatorID := c.GetString("user_id")

	items, err := List(creatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": items})
}
