package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/model"
)

// EventPublisher delivers session events to interested subscribers.
type EventPublisher interface {
	Publish(event model.SessionEvent)
}

// Auth implements sign-up, sign-in, sign-out, password recovery and
// profile updates over the user store.
type Auth struct {
	userStore    model.UserStore
	resetStore   model.ResetTokenStore
	tokenManager model.TokenManager
	tokenService *TokenService
	mailer       model.Mailer
	events       EventPublisher
	publicURL    string
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	resetStore model.ResetTokenStore,
	refreshTokenStore model.RefreshTokenStore,
	tokenManager model.TokenManager,
	mailer model.Mailer,
	events EventPublisher,
	publicURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		resetStore:   resetStore,
		tokenManager: tokenManager,
		tokenService: NewTokenService(tokenManager, refreshTokenStore, events, logger),
		mailer:       mailer,
		events:       events,
		publicURL:    strings.TrimRight(publicURL, "/"),
		logger:       logger,
	}
}

// Tokens exposes the token service sharing this Auth's stores.
func (a *Auth) Tokens() *TokenService {
	return a.tokenService
}

// SignUp registers a new user and signs them in. An empty displayName
// defaults to the local part of the email.
func (a *Auth) SignUp(ctx context.Context, email, password, displayName string) (model.Session, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	existingUser, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if existingUser.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.Session{}, model.ErrEmailTaken
	}

	if displayName == "" {
		displayName = strings.Split(email, "@")[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Metadata:     map[string]string{model.MetadataDisplayName: displayName},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := a.issueSession(ctx, user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: user registration completed",
		"email", email,
		"user_id", user.ID)

	a.events.Publish(model.SessionEvent{Type: model.SessionSignedIn, UserID: user.ID, Session: session})

	return session, nil
}

// SignIn authenticates a user by email and password.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"email", email)
		return model.Session{}, model.ErrInvalidCredentials
	}

	session, err := a.issueSession(ctx, user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: login completed",
		"email", email,
		"user_id", user.ID)

	a.events.Publish(model.SessionEvent{Type: model.SessionSignedIn, UserID: user.ID, Session: session})

	return session, nil
}

// SignOut revokes the presented refresh token and announces the sign-out.
func (a *Auth) SignOut(ctx context.Context, refreshToken string) error {
	userID, _, err := a.tokenManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return fmt.Errorf("failed to parse refresh token: %w", err)
	}

	if err := a.tokenService.RevokeByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	a.logger.Info("Auth service: user signed out",
		"user_id", userID)

	a.events.Publish(model.SessionEvent{Type: model.SessionSignedOut, UserID: userID})

	return nil
}

// ResetPassword issues a recovery token and dispatches a recovery link to
// the user's email. The link targets the configured public origin plus the
// reset-password path.
func (a *Auth) ResetPassword(ctx context.Context, email string) error {
	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	token := model.ResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(model.ResetTokenDuration),
	}

	if err := a.resetStore.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s", a.publicURL, token.Token)
	if err := a.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("failed to send recovery link: %w", err)
	}

	a.logger.Info("Auth service: recovery link dispatched",
		"email", email)

	return nil
}

// CompletePasswordReset consumes a recovery token, stores the new password
// hash and revokes every refresh token of the user.
func (a *Auth) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	rt, err := a.resetStore.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	if rt.ConsumedAt != nil {
		return model.ErrResetTokenConsumed
	}
	if time.Now().After(rt.ExpiresAt) {
		return model.ErrResetTokenExpired
	}

	if err := a.resetStore.Consume(ctx, token); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePassword(ctx, rt.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := a.tokenService.RevokeAllForUser(ctx, rt.UserID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	a.logger.Info("Auth service: password reset completed",
		"user_id", rt.UserID)

	a.events.Publish(model.SessionEvent{Type: model.SessionSignedOut, UserID: rt.UserID})

	return nil
}

// UpdateProfile merges the given fields into the user's metadata.
func (a *Auth) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.Session, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	user, err = a.userStore.UpdateMetadata(ctx, userID, update.Apply(user.Metadata))
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to update metadata: %w", err)
	}

	session := sessionFromUser(user)

	a.events.Publish(model.SessionEvent{Type: model.SessionProfileUpdated, UserID: userID, Session: session})

	return session, nil
}

// GetSession resolves the stored session view for a user ID. The returned
// session carries no tokens.
func (a *Auth) GetSession(ctx context.Context, userID uuid.UUID) (model.Session, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return sessionFromUser(user), nil
}

func (a *Auth) issueSession(ctx context.Context, user model.User) (model.Session, error) {
	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	session := sessionFromUser(user)
	session.AccessToken = access
	session.RefreshToken = refresh
	session.ExpiresAt = time.Now().Add(accessTTL)

	return session, nil
}

func sessionFromUser(user model.User) model.Session {
	return model.Session{
		UserID:   user.ID,
		Email:    user.Email,
		Metadata: user.Metadata,
	}
}
