package core

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FlowRegistry hands out one RegistrationFlow per email address. A flow for
// an address already on record is rehydrated from the stored account so a
// signup survives a process restart.
type FlowRegistry struct {
	provider AccountProvider
	users    UserRepository
	log      *zap.Logger

	mu    sync.Mutex
	flows map[string]*RegistrationFlow
}

func NewFlowRegistry(provider AccountProvider, users UserRepository, log *zap.Logger) *FlowRegistry {
	return &FlowRegistry{
		provider: provider,
		users:    users,
		log:      log,
		flows:    make(map[string]*RegistrationFlow),
	}
}

// Flow returns the flow for the address, creating and hydrating it if
// needed.
func (r *FlowRegistry) Flow(ctx context.Context, email string) *RegistrationFlow {
	key := strings.ToLower(strings.TrimSpace(email))

	r.mu.Lock()
	if flow, ok := r.flows[key]; ok {
		r.mu.Unlock()
		return flow
	}
	flow := NewRegistrationFlow(r.provider, r.users, r.log)
	r.flows[key] = flow
	r.mu.Unlock()

	if user, err := r.users.GetByEmail(ctx, key); err == nil && user != nil {
		flow.Resume(&AuthUser{
			UID:           user.ID,
			Email:         user.Email,
			EmailVerified: user.EmailVerified,
		}, user.RegistrationCompleted)
	}
	return flow
}

// Drop forgets the flow for the address, e.g. after completion.
func (r *FlowRegistry) Drop(email string) {
	key := strings.ToLower(strings.TrimSpace(email))
	r.mu.Lock()
	delete(r.flows, key)
	r.mu.Unlock()
}
