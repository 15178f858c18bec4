package core

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"diabeater-backend/internal/apperror"
)

// Registration steps. Transitions only ever move forward one step at a
// time; the only way back is an explicit Reset.
const (
	StepUnregistered        = "unregistered"
	StepPendingVerification = "pendingVerification"
	StepVerified            = "verified"
	StepComplete            = "complete"
)

// RegistrationSnapshot is the state published to listeners after every
// mutation. At most one of Error and Success is set.
type RegistrationSnapshot struct {
	Step      string
	IsLoading bool
	Error     string
	Success   string
	User      *AuthUser
}

// RegistrationFlow drives sign-up: create account, send the verification
// email, poll for the emailed link being clicked, then finalize the
// account record. Listeners are notified after every state change and
// never see a partial update.
type RegistrationFlow struct {
	provider AccountProvider
	users    UserRepository
	log      *zap.Logger

	mu        sync.Mutex
	step      string
	loading   bool
	errMsg    string
	success   string
	user      *AuthUser
	listeners []func(RegistrationSnapshot)
}

func NewRegistrationFlow(provider AccountProvider, users UserRepository, log *zap.Logger) *RegistrationFlow {
	return &RegistrationFlow{
		provider: provider,
		users:    users,
		log:      log,
		step:     StepUnregistered,
	}
}

// AddListener registers a callback invoked with a snapshot after every
// mutation.
func (f *RegistrationFlow) AddListener(fn func(RegistrationSnapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Snapshot returns the current state.
func (f *RegistrationFlow) Snapshot() RegistrationSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// CreateAccount validates the credentials locally and, only if they pass,
// asks the provider to create the account. Validation failures never reach
// the network and leave the step at unregistered.
func (f *RegistrationFlow) CreateAccount(ctx context.Context, email, password string) error {
	if msg := validateCredentials(email, password); msg != "" {
		f.setError(msg)
		return apperror.ValidationFailed("credentials", msg)
	}

	if f.Snapshot().Step != StepUnregistered {
		msg := "Account already created. Continue with verification."
		f.setError(msg)
		return apperror.ValidationFailed("step", msg)
	}

	f.begin()
	defer f.end()

	user, err := f.provider.CreateAccount(ctx, email, password)
	if err != nil {
		f.setError(providerMessage(err, "Failed to create account. Please try again."))
		return err
	}

	f.mu.Lock()
	f.user = user
	f.step = StepPendingVerification
	f.mu.Unlock()
	f.notify()
	return nil
}

// SendVerificationEmail dispatches (or re-dispatches) the verification
// email. It may be called repeatedly and does not advance the step.
func (f *RegistrationFlow) SendVerificationEmail(ctx context.Context) error {
	user := f.currentUser()
	if user == nil {
		err := apperror.NoUser()
		f.setError(err.Message)
		return err
	}

	f.begin()
	defer f.end()

	if err := f.provider.SendVerificationEmail(ctx, user); err != nil {
		f.setError(providerMessage(err, "Failed to send verification email. Please try again."))
		return err
	}

	f.setSuccess("Verification email sent! Please check your email and click the verification link.")
	return nil
}

// PollVerification reloads the user handle for a fresh verification status.
// An unverified result is a retryable error, not a transition; the caller
// invokes this again on the next "I've verified" click.
func (f *RegistrationFlow) PollVerification(ctx context.Context) error {
	user := f.currentUser()
	if user == nil {
		err := apperror.NoUser()
		f.setError(err.Message)
		return err
	}

	f.begin()
	defer f.end()

	if err := f.provider.ReloadUser(ctx, user); err != nil {
		f.setError(providerMessage(err, "Failed to check verification status. Please try again."))
		return err
	}

	if !user.EmailVerified {
		msg := "Email not verified yet. Please check your email and click the verification link."
		f.setError(msg)
		return apperror.ValidationFailed("verification", msg)
	}

	f.mu.Lock()
	f.user = user
	f.step = StepVerified
	f.errMsg = ""
	f.success = ""
	f.mu.Unlock()
	f.notify()
	return nil
}

// CompleteRegistration finalizes the account record. The session stays
// signed in so an immediately following upgrade purchase can reuse it.
func (f *RegistrationFlow) CompleteRegistration(ctx context.Context) error {
	user := f.currentUser()
	if user == nil {
		err := apperror.NoUser()
		f.setError(err.Message)
		return err
	}
	if f.Snapshot().Step != StepVerified {
		msg := "Please verify your email before completing registration."
		f.setError(msg)
		return apperror.ValidationFailed("step", msg)
	}

	f.begin()
	defer f.end()

	if err := f.users.CompleteRegistration(ctx, user.UID); err != nil {
		f.setError("Failed to complete registration. Please try again.")
		return apperror.ProviderFailed("Failed to complete registration. Please try again.", err)
	}

	f.mu.Lock()
	f.step = StepComplete
	f.mu.Unlock()
	f.setSuccess("Registration completed successfully! Welcome!")
	f.log.Info("registration completed", zap.Uint("userID", user.UID))
	return nil
}

// Reset abandons the flow and returns to the initial state.
func (f *RegistrationFlow) Reset() {
	f.mu.Lock()
	f.step = StepUnregistered
	f.loading = false
	f.errMsg = ""
	f.success = ""
	f.user = nil
	f.mu.Unlock()
	f.notify()
}

// Resume hydrates the flow from a persisted account record, e.g. after a
// process restart mid-signup.
func (f *RegistrationFlow) Resume(user *AuthUser, registrationCompleted bool) {
	f.mu.Lock()
	f.user = user
	switch {
	case registrationCompleted:
		f.step = StepComplete
	case user.EmailVerified:
		f.step = StepVerified
	default:
		f.step = StepPendingVerification
	}
	f.loading = false
	f.errMsg = ""
	f.success = ""
	f.mu.Unlock()
	f.notify()
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateCredentials applies the strict sign-up policy. The three password
// checks run independently and their messages concatenate.
func validateCredentials(email, password string) string {
	if email == "" || password == "" {
		return "Email and password are required."
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address."
	}

	var msg string
	if len(password) < 8 {
		msg = "Password must be at least 8 characters long."
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		msg += " Must contain at least one uppercase letter."
	}
	if !strings.ContainsAny(password, "0123456789!@#$%^&*()_+-=[]{};':\"\\|,.<>/?") {
		msg += " Must contain at least one number or symbol."
	}
	return strings.TrimSpace(msg)
}

// providerMessage prefers the provider's own human-readable message.
func providerMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

func (f *RegistrationFlow) currentUser() *AuthUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *RegistrationFlow) begin() {
	f.mu.Lock()
	f.loading = true
	f.errMsg = ""
	f.success = ""
	f.mu.Unlock()
	f.notify()
}

// end clears the loading flag. Deferred by every transition so the flag is
// released on all exit paths, including failures.
func (f *RegistrationFlow) end() {
	f.mu.Lock()
	f.loading = false
	f.mu.Unlock()
	f.notify()
}

func (f *RegistrationFlow) setError(msg string) {
	f.mu.Lock()
	f.errMsg = msg
	f.success = ""
	f.mu.Unlock()
	f.notify()
}

func (f *RegistrationFlow) setSuccess(msg string) {
	f.mu.Lock()
	f.success = msg
	f.errMsg = ""
	f.mu.Unlock()
	f.notify()
}

func (f *RegistrationFlow) snapshotLocked() RegistrationSnapshot {
	snap := RegistrationSnapshot{
		Step:      f.step,
		IsLoading: f.loading,
		Error:     f.errMsg,
		Success:   f.success,
	}
	if f.user != nil {
		u := *f.user
		snap.User = &u
	}
	return snap
}

func (f *RegistrationFlow) notify() {
	f.mu.Lock()
	snap := f.snapshotLocked()
	listeners := make([]func(RegistrationSnapshot), len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
