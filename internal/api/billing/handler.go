package billing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/core"
)

type Handler struct {
	upgrades *core.UpgradeService
	log      *zap.Logger
}

func NewHandler(upgrades *core.UpgradeService, log *zap.Logger) *Handler {
	return &Handler{upgrades: upgrades, log: log}
}

type upgradeInput struct {
	CardNumber   string `json:"cardNumber" binding:"required"`
	Expiry       string `json:"expiry" binding:"required"`
	CVV          string `json:"cvv" binding:"required"`
	NameOnCard   string `json:"nameOnCard" binding:"required"`
	SimulateFail bool   `json:"simulateFail"`
}

// Upgrade purchases the premium plan for the authenticated user.
func (h *Handler) Upgrade(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input upgradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.upgrades.Upgrade(c.Request.Context(), userID, core.PaymentRequest{
		CardNumber:   input.CardNumber,
		Expiry:       input.Expiry,
		CVV:          input.CVV,
		NameOnCard:   input.NameOnCard,
		SimulateFail: input.SimulateFail,
	})
	if err != nil {
		h.respondUpgradeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Upgrade successful! Welcome to Premium.",
		"success":        true,
		"transactionId":  result.TransactionID,
		"subscriptionId": result.SubscriptionID,
		"partnerCode":    result.PartnerCode,
		"planName":       result.PlanName,
		"paidAt":         result.PaidAt,
		"paymentMethod":  result.PaymentMethod,
		"endDate":        result.EndDate,
	})
}

// respondUpgradeError keeps the payment and provisioning failure modes
// distinct: a declined card is the user's problem, a paid-but-unprovisioned
// account is ours and carries the transaction id for support.
func (h *Handler) respondUpgradeError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch {
	case errors.Is(err, apperror.ErrDuplicatePlan):
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case errors.Is(err, apperror.ErrPayment):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": msg})
	case errors.Is(err, apperror.ErrProvisioning):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":         msg,
			"transactionId": appErr.TransactionID,
			"support":       true,
		})
	case errors.Is(err, apperror.ErrNoUser):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// PartnerCode returns the 4-digit code issued with the user's premium
// subscription.
func (h *Handler) PartnerCode(c *gin.Context) {
	userID := c.GetUint("user_id")

	code, err := h.upgrades.PartnerCodeFor(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load partner code"})
		return
	}
	if code == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No partner code issued"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"partnerCode": code.Code, "status": code.Status})
}

// SimulatePayment stands in for the real payment gateway. The upgrade flow
// calls it over HTTP like any external processor; the contract is a 200
// JSON body with a success flag, anything else counts as a decline.
func (h *Handler) SimulatePayment(c *gin.Context) {
	var req core.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SimulateFail {
		c.JSON(http.StatusOK, core.PaymentResult{
			Success: false,
			Message: "Simulated payment failure",
		})
		return
	}

	if strings.TrimSpace(req.CardNumber) == "" || strings.TrimSpace(req.CVV) == "" ||
		strings.TrimSpace(req.Expiry) == "" || strings.TrimSpace(req.NameOnCard) == "" {
		c.JSON(http.StatusOK, core.PaymentResult{
			Success: false,
			Message: "Missing card details",
		})
		return
	}

	result := core.PaymentResult{
		Success:       true,
		TransactionID: fmt.Sprintf("txn_%s", uuid.NewString()),
		PaidAt:        time.Now().UTC().Format(time.RFC3339),
		PaymentMethod: "card",
	}
	h.log.Info("payment simulated",
		zap.String("userId", req.UserID),
		zap.String("transactionId", result.TransactionID))
	c.JSON(http.StatusOK, result)
}
