package core

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/domain/billing"
	"diabeater-backend/internal/domain/plans"
)

// partnerCodeAttempts bounds the random draw for a free 4-digit code. With
// at most 9000 codes issued the chance of 25 straight collisions is
// negligible; past that the pool is effectively exhausted anyway.
const partnerCodeAttempts = 25

// UpgradeResult is what a successful premium purchase hands back.
type UpgradeResult struct {
	TransactionID  string    `json:"transactionId"`
	SubscriptionID string    `json:"subscriptionId"`
	PartnerCode    string    `json:"partnerCode"`
	PlanName       string    `json:"planName"`
	PaidAt         string    `json:"paidAt"`
	PaymentMethod  string    `json:"paymentMethod"`
	EndDate        time.Time `json:"endDate"`
}

// UpgradeService runs the premium purchase pipeline: duplicate check,
// payment, subscription record, partner code, role flip — in that order,
// with payment strictly after the local checks.
type UpgradeService struct {
	users    UserRepository
	plans    PlanRepository
	subs     SubscriptionRepository
	codes    PartnerCodeRepository
	payments PaymentClient
	log      *zap.Logger

	now  Clock
	draw func() int
}

func NewUpgradeService(
	users UserRepository,
	planRepo PlanRepository,
	subs SubscriptionRepository,
	codes PartnerCodeRepository,
	payments PaymentClient,
	log *zap.Logger,
) *UpgradeService {
	return &UpgradeService{
		users:    users,
		plans:    planRepo,
		subs:     subs,
		codes:    codes,
		payments: payments,
		log:      log,
		now:      time.Now,
		draw:     func() int { return rand.Intn(9000) + 1000 },
	}
}

// CheckPremiumStatus reports whether the user is premium: either the
// account flag is set or a live subscription exists. Lookup failures are
// logged and reported as not premium so a storage blip never blocks the
// user from the purchase page.
func (s *UpgradeService) CheckPremiumStatus(ctx context.Context, userID uint) bool {
	if user, err := s.users.GetByID(ctx, userID); err == nil && user != nil && user.IsPremium {
		return true
	}

	subs, err := s.subs.ActiveForUser(ctx, userID)
	if err != nil {
		s.log.Warn("premium status check failed", zap.Uint("userID", userID), zap.Error(err))
		return false
	}
	now := s.now()
	for i := range subs {
		if subs[i].ActiveAt(now) {
			return true
		}
	}
	return false
}

// Upgrade purchases the premium plan for the user. It charges only after
// the duplicate check passes; any failure after the charge succeeds is
// reported as a provisioning error carrying the transaction id, never as a
// plain payment failure.
func (s *UpgradeService) Upgrade(ctx context.Context, userID uint, card PaymentRequest) (*UpgradeResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, apperror.NoUser()
	}

	if s.CheckPremiumStatus(ctx, userID) {
		return nil, apperror.DuplicatePlan()
	}

	plan, err := s.plans.GetByTier(ctx, plans.TierPremium)
	if err != nil {
		return nil, apperror.QueryFailed("Premium plan is not available right now.", err)
	}

	card.UserID = fmt.Sprint(userID)
	card.Plan = plan.Name
	result, err := s.payments.Simulate(ctx, card)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &billing.Subscription{
		SubscriptionID: uuid.NewString(),
		UserID:         userID,
		PlanID:         &plan.ID,
		Type:           plan.Type,
		PlanName:       plan.Name,
		Price:          plan.Price,
		PaymentMethod:  result.PaymentMethod,
		Status:         billing.SubscriptionStatusActive,
		StartDate:      now,
		EndDate:        now.AddDate(0, 1, 0),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		s.log.Error("subscription create failed after payment",
			zap.Uint("userID", userID), zap.String("transactionID", result.TransactionID), zap.Error(err))
		return nil, apperror.ProvisioningIncomplete(result.TransactionID, err)
	}

	code, err := s.issuePartnerCode(ctx, userID)
	if err != nil {
		s.log.Error("partner code issue failed after payment",
			zap.Uint("userID", userID), zap.String("transactionID", result.TransactionID), zap.Error(err))
		return nil, apperror.ProvisioningIncomplete(result.TransactionID, err)
	}

	if err := s.users.SetPremium(ctx, userID); err != nil {
		s.log.Error("role update failed after payment",
			zap.Uint("userID", userID), zap.String("transactionID", result.TransactionID), zap.Error(err))
		return nil, apperror.ProvisioningIncomplete(result.TransactionID, err)
	}

	s.log.Info("premium upgrade completed",
		zap.Uint("userID", userID),
		zap.String("transactionID", result.TransactionID),
		zap.String("partnerCode", code))

	return &UpgradeResult{
		TransactionID:  result.TransactionID,
		SubscriptionID: sub.SubscriptionID,
		PartnerCode:    code,
		PlanName:       plan.Name,
		PaidAt:         result.PaidAt,
		PaymentMethod:  result.PaymentMethod,
		EndDate:        sub.EndDate,
	}, nil
}

// PartnerCodeFor returns the user's issued code, if any.
func (s *UpgradeService) PartnerCodeFor(ctx context.Context, userID uint) (*billing.PartnerCode, error) {
	return s.codes.ForOwner(ctx, userID)
}

// issuePartnerCode draws random 4-digit codes until a free one is found,
// bounded so a full pool cannot loop forever. A user who already holds a
// code keeps it.
func (s *UpgradeService) issuePartnerCode(ctx context.Context, userID uint) (string, error) {
	if existing, err := s.codes.ForOwner(ctx, userID); err == nil && existing != nil {
		return existing.Code, nil
	}

	for attempt := 0; attempt < partnerCodeAttempts; attempt++ {
		code := fmt.Sprintf("%04d", s.draw())
		taken, err := s.codes.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if taken {
			continue
		}
		pc := &billing.PartnerCode{
			Code:        code,
			OwnerUserID: userID,
			Status:      billing.PartnerCodeStatusActive,
		}
		if err := s.codes.Create(ctx, pc); err != nil {
			// Lost a race to another request drawing the same code.
			continue
		}
		return code, nil
	}
	return "", fmt.Errorf("no free partner code after %d attempts", partnerCodeAttempts)
}
