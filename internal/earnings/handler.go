package earnings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antoniodyeuson/site-teste-3-sub000/internal/ledger"
	"github.com/antoniodyeuson/site-teste-3-sub000/internal/logs"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetEarnings GET /api/creator/earnings?start_date=&end_date=
//
// Returns the two earnings views side by side: recurring_earnings is
// the active-subscription run-rate, historical covers completed
// transactions in the window. The two numbers answer different
// questions and are reported as distinct fields.
func (h *Handler) GetEarnings(c *gin.Context) {
	route := c.FullPath()
	creatorID := c.GetString("user_id")

	window, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recurring, err := h.svc.RecurringEarnings(creatorID)
	if err != nil {
		respondEarningsError(c, err)
		return
	}

	historical, err := h.svc.HistoricalEarnings(creatorID, window, time.Now())
	if err != nil {
		respondEarningsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recurring_earnings": recurring,
		"historical":         historical,
	})
	logs.LogJSON("INFO", "Earnings fetched", map[string]interface{}{
		"route":  route,
		"userID": creatorID,
	})
}

func respondEarningsError(c *gin.Context, err error) {
	if errors.Is(err, ledger.ErrCreatorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Earnings computation failed"})
	logs.LogJSON("ERROR", "Earnings computation failed", map[string]interface{}{
		"error":  err.Error(),
		"route":  c.FullPath(),
		"userID": c.GetString("user_id"),
	})
}

func parseWindow(c *gin.Context) (ledger.Window, error) {
	var window ledger.Window

	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return window, errors.New("invalid start_date format, want YYYY-MM-DD")
		}
		window.Start = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return window, errors.New("invalid end_date format, want YYYY-MM-DD")
		}
		// end_date is inclusive for callers, the window is [start, end)
		end = end.AddDate(0, 0, 1)
		window.End = &end
	}
	return window, nil
}
