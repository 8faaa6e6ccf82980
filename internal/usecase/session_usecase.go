package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"livechat/internal/domain/entity"
	"livechat/internal/domain/repository"
	"livechat/internal/infrastructure/ratelimit"
	"livechat/pkg/errors"
	"livechat/pkg/logger"
)

// SessionUseCase is the session registry: it issues, verifies, refreshes and
// revokes the opaque per-(chat, participant) tokens that gate every other
// operation.
type SessionUseCase struct {
	sessionRepo repository.SessionRepository
	rateLimiter *ratelimit.RateLimiter
	password    string
	now         func() time.Time
}

func NewSessionUseCase(sessionRepo repository.SessionRepository, rateLimiter *ratelimit.RateLimiter, password string) *SessionUseCase {
	return &SessionUseCase{
		sessionRepo: sessionRepo,
		rateLimiter: rateLimiter,
		password:    password,
		now:         time.Now,
	}
}

// Login checks the shared password and mints a fresh token for the channel
// key. Issuance is rate limited per key so a stuck client cannot churn
// through the token table.
func (uc *SessionUseCase) Login(ctx context.Context, chatID, participant, password string) (string, error) {
	if !entity.ValidParticipant(participant) {
		return "", errors.BadRequest("Sender must be \"user\" or \"agent\"", nil)
	}

	key := entity.ChannelKey{ChatID: chatID, Participant: participant}

	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(chatID+":"+participant, "login"); !allowed {
			logger.Warn("Login rate limited: chat=%s participant=%s wait=%v", chatID, participant, wait)
			return "", errors.RateLimited("Too many login attempts, try again later", wait)
		}
	}

	if password != uc.password {
		return "", errors.Unauthorized("Invalid password", nil)
	}

	token := uuid.NewString()
	uc.sessionRepo.Issue(ctx, key, token, uc.now())
	logger.Info("Session issued: chat=%s participant=%s", chatID, participant)
	return token, nil
}

// Authorize verifies the token for the key and slides its expiry window.
// Expiry is routine, not exceptional: clients get a stable UNAUTHORIZED and
// log in again.
func (uc *SessionUseCase) Authorize(ctx context.Context, chatID, participant, token string) error {
	if token == "" {
		return errors.Unauthorized("Session token is required", nil)
	}
	key := entity.ChannelKey{ChatID: chatID, Participant: participant}
	if !uc.sessionRepo.VerifyAndRefresh(ctx, key, token, uc.now()) {
		return errors.Unauthorized("Session expired or invalid", nil)
	}
	return nil
}

// Logout revokes the token. Revoking an absent token succeeds.
func (uc *SessionUseCase) Logout(ctx context.Context, chatID, participant, token string) {
	key := entity.ChannelKey{ChatID: chatID, Participant: participant}
	uc.sessionRepo.Revoke(ctx, key, token)
}
