package authprovider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"diabeater-backend/internal/apperror"
	"diabeater-backend/internal/core"
	"diabeater-backend/internal/db"
	"diabeater-backend/internal/domain/users"
)

const tokenTTL = 24 * time.Hour

// Provider implements account creation, verification mail, and sign-in on
// top of the local user store. It keeps one signed-in session for the
// process, matching the single-session model of the auth SDKs it stands in
// for.
type Provider struct {
	users  *db.UserRepository
	tokens *db.VerificationTokenRepository
	mailer *Emailer
	appURL string
	log    *zap.Logger

	mu      sync.Mutex
	session *core.AuthUser
}

func NewProvider(
	userRepo *db.UserRepository,
	tokenRepo *db.VerificationTokenRepository,
	mailer *Emailer,
	appURL string,
	log *zap.Logger,
) *Provider {
	return &Provider{
		users:  userRepo,
		tokens: tokenRepo,
		mailer: mailer,
		appURL: strings.TrimRight(appURL, "/"),
		log:    log,
	}
}

// CreateAccount stores the new user with a hashed password and signs the
// session in as them. The email must not already be registered.
func (p *Provider) CreateAccount(ctx context.Context, email, password string) (*core.AuthUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, err := p.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperror.ValidationFailed("email", "This email address is already in use.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.ProviderFailed("Failed to create account. Please try again.", err)
	}

	hashed := string(hash)
	u := &users.User{
		Email:    email,
		Password: &hashed,
		Role:     users.RoleBasic,
	}
	if err := p.users.Create(ctx, u); err != nil {
		return nil, apperror.ProviderFailed("Failed to create account. Please try again.", err)
	}

	handle := &core.AuthUser{UID: u.ID, Email: u.Email}
	p.setSession(handle)
	return handle, nil
}

// SendVerificationEmail issues a fresh token and mails the activation link.
// Repeat calls replace the previous token.
func (p *Provider) SendVerificationEmail(ctx context.Context, u *core.AuthUser) error {
	token := uuid.NewString()
	record := &users.VerificationToken{
		UserID:    u.UID,
		Token:     token,
		ExpiresAt: time.Now().Add(tokenTTL),
	}
	if err := p.tokens.Upsert(ctx, record); err != nil {
		return apperror.ProviderFailed("Failed to send verification email. Please try again.", err)
	}

	link := fmt.Sprintf("%s/verify?token=%s", p.appURL, token)
	if err := p.mailer.SendVerification(u.Email, link); err != nil {
		return apperror.ProviderFailed("Failed to send verification email. Please try again.", err)
	}
	p.log.Info("verification email sent", zap.Uint("userID", u.UID))
	return nil
}

// ReloadUser refreshes the handle's verification flag from the store.
func (p *Provider) ReloadUser(ctx context.Context, u *core.AuthUser) error {
	stored, err := p.users.GetByID(ctx, u.UID)
	if err != nil {
		return apperror.ProviderFailed("Failed to check verification status. Please try again.", err)
	}
	u.EmailVerified = stored.EmailVerified
	return nil
}

// VerifyToken consumes an emailed token and marks the account verified.
func (p *Provider) VerifyToken(ctx context.Context, token string) error {
	record, err := p.tokens.GetByToken(ctx, token)
	if err != nil {
		return apperror.ValidationFailed("token", "Invalid or expired verification link.")
	}
	if time.Now().After(record.ExpiresAt) {
		return apperror.ValidationFailed("token", "Invalid or expired verification link.")
	}

	if err := p.users.MarkEmailVerified(ctx, record.UserID); err != nil {
		return apperror.ProviderFailed("Failed to verify email. Please try again.", err)
	}
	if err := p.tokens.Delete(ctx, record.ID); err != nil {
		p.log.Warn("consumed verification token not deleted", zap.Uint("tokenID", record.ID), zap.Error(err))
	}
	p.log.Info("email verified", zap.Uint("userID", record.UserID))
	return nil
}

// SignIn checks the credentials and requires a verified email.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*core.AuthUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := p.users.GetByEmail(ctx, email)
	if err != nil || u == nil || u.Password == nil {
		return nil, apperror.ValidationFailed("credentials", "Invalid email or password.")
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(password)) != nil {
		return nil, apperror.ValidationFailed("credentials", "Invalid email or password.")
	}
	if !u.EmailVerified {
		return nil, apperror.ValidationFailed("email", "Please verify your email before logging in.")
	}

	handle := &core.AuthUser{UID: u.ID, Email: u.Email, EmailVerified: true}
	p.setSession(handle)
	return handle, nil
}

func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()
	return nil
}

// CurrentUser returns the signed-in session, refreshed from the store so
// callers always see the latest verification state.
func (p *Provider) CurrentUser(ctx context.Context) (*core.AuthUser, error) {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()
	if session == nil {
		return nil, nil
	}

	stored, err := p.users.GetByID(ctx, session.UID)
	if err != nil {
		return nil, apperror.ProviderFailed("Failed to load user session.", err)
	}
	handle := &core.AuthUser{UID: stored.ID, Email: stored.Email, EmailVerified: stored.EmailVerified}
	p.setSession(handle)
	return handle, nil
}

func (p *Provider) setSession(u *core.AuthUser) {
	p.mu.Lock()
	p.session = u
	p.mu.Unlock()
}
