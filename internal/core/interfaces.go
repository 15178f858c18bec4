package core

import (
	"context"
	"time"

	"diabeater-backend/internal/domain/billing"
	"diabeater-backend/internal/domain/feedback"
	"diabeater-backend/internal/domain/plans"
	"diabeater-backend/internal/domain/users"
)

// AuthUser is the session-side handle for an account, the counterpart of
// what an auth provider hands back after create/sign-in. EmailVerified is
// only as fresh as the last ReloadUser call.
type AuthUser struct {
	UID           uint
	Email         string
	EmailVerified bool
}

// AccountProvider is the boundary to the authentication provider. Every
// call returns either a usable result or an error carrying the provider's
// human-readable message; callers never see a half-updated handle.
//
// CurrentUser re-reads the process-wide session at the point of use — no
// flow may cache the result across awaits on shared state.
type AccountProvider interface {
	CreateAccount(ctx context.Context, email, password string) (*AuthUser, error)
	SendVerificationEmail(ctx context.Context, u *AuthUser) error
	ReloadUser(ctx context.Context, u *AuthUser) error
	SignIn(ctx context.Context, email, password string) (*AuthUser, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*AuthUser, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*users.User, error)
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	CompleteRegistration(ctx context.Context, id uint) error
	SetPremium(ctx context.Context, id uint) error
}

type ContentRepository interface {
	// GetDocument returns the decoded content document and whether it
	// exists. A missing row is (nil, false, nil), not an error.
	GetDocument(ctx context.Context) (map[string]any, bool, error)
	SaveDocument(ctx context.Context, partial map[string]any) error
}

type FeedbackRepository interface {
	FetchFeatured(ctx context.Context) ([]feedback.Testimonial, error)
}

type PlanRepository interface {
	GetByTier(ctx context.Context, tier string) (*plans.Plan, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *billing.Subscription) error
	ActiveForUser(ctx context.Context, userID uint) ([]billing.Subscription, error)
}

type PartnerCodeRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, code *billing.PartnerCode) error
	ForOwner(ctx context.Context, userID uint) (*billing.PartnerCode, error)
}

// PaymentClient talks to the payment-simulation endpoint.
type PaymentClient interface {
	Simulate(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

type PaymentRequest struct {
	UserID       string `json:"userId"`
	Plan         string `json:"plan"`
	SimulateFail bool   `json:"simulateFail"`
	CardNumber   string `json:"cardNumber"`
	Expiry       string `json:"expiry"`
	CVV          string `json:"cvv"`
	NameOnCard   string `json:"nameOnCard"`
}

type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	PaidAt        string `json:"paidAt"`
	PaymentMethod string `json:"paymentMethod"`
	Message       string `json:"message,omitempty"`
}

// Clock lets services stamp times deterministically in tests.
type Clock func() time.Time
