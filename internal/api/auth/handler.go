package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/authprovider"
	"diabeater-backend/internal/core"
	"diabeater-backend/internal/db"
)

const tokenLifetime = 72 * time.Hour

type Handler struct {
	flows     *core.FlowRegistry
	provider  *authprovider.Provider
	users     *db.UserRepository
	jwtSecret string
	log       *zap.Logger
}

func NewHandler(flows *core.FlowRegistry, provider *authprovider.Provider, users *db.UserRepository, jwtSecret string, log *zap.Logger) *Handler {
	return &Handler{flows: flows, provider: provider, users: users, jwtSecret: jwtSecret, log: log}
}

type registerInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Register runs the first sign-up step: validate, create the account, and
// send the verification email.
func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow := h.flows.Flow(c.Request.Context(), input.Email)
	if err := flow.CreateAccount(c.Request.Context(), input.Email, input.Password); err != nil {
		respondFlowError(c, err)
		return
	}

	snap := flow.Snapshot()
	if snap.User != nil {
		if err := h.users.UpdateNames(c.Request.Context(), snap.User.UID, input.FirstName, input.LastName); err != nil {
			h.log.Warn("profile names not stored", zap.Uint("userID", snap.User.UID), zap.Error(err))
		}
	}

	if err := flow.SendVerificationEmail(c.Request.Context()); err != nil {
		respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Please check your email and click the verification link.",
		"step":    flow.Snapshot().Step,
	})
}

type emailInput struct {
	Email string `json:"email" binding:"required"`
}

// ResendVerification re-sends the activation email for a pending signup.
func (h *Handler) ResendVerification(c *gin.Context) {
	var input emailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow := h.flows.Flow(c.Request.Context(), input.Email)
	if err := flow.SendVerificationEmail(c.Request.Context()); err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": flow.Snapshot().Success})
}

// Verify consumes the emailed token. It is the link target, so it answers
// with a small HTML page rather than JSON.
func (h *Handler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			[]byte("<h2>Invalid verification link.</h2>"))
		return
	}

	if err := h.provider.VerifyToken(c.Request.Context(), token); err != nil {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			[]byte("<h2>Invalid or expired verification link.</h2><p>Please request a new one from the app.</p>"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte("<h2>Email verified!</h2><p>Return to the app and tap \"I've verified my email\" to continue.</p>"))
}

// CheckVerification is the "I've verified my email" button: it re-reads the
// account and either advances the flow or reports that the link is still
// unclicked.
func (h *Handler) CheckVerification(c *gin.Context) {
	var input emailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow := h.flows.Flow(c.Request.Context(), input.Email)
	if err := flow.PollVerification(c.Request.Context()); err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified.",
		"step":    flow.Snapshot().Step,
	})
}

// CompleteRegistration finalizes the account after verification.
func (h *Handler) CompleteRegistration(c *gin.Context) {
	var input emailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow := h.flows.Flow(c.Request.Context(), input.Email)
	if err := flow.CompleteRegistration(c.Request.Context()); err != nil {
		respondFlowError(c, err)
		return
	}

	snap := flow.Snapshot()
	h.flows.Drop(input.Email)

	// Keep the session alive into the upgrade flow: hand back a JWT right
	// away instead of forcing a fresh login.
	if snap.User != nil {
		if token, err := h.issueToken(c, snap.User.UID); err == nil {
			c.JSON(http.StatusOK, gin.H{"message": snap.Success, "token": token})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": snap.Success})
}

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues a JWT. Unverified accounts cannot log
// in.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.provider.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	token, err := h.issueToken(c, user.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) issueToken(c *gin.Context, userID uint) (string, error) {
	stored, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"user_id": stored.ID,
		"email":   stored.Email,
		"role":    stored.Role,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}

// respondFlowError maps flow errors onto HTTP statuses without losing the
// user-facing message.
func respondFlowError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, apperror.ErrNoUser):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
