package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"flyhigh/internal/config"
	"flyhigh/internal/models"
	"flyhigh/internal/repository"
)

var (
	// ErrInvalidToken means the presented token does not exist.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired means the token exists but fell out of its sliding window.
	ErrTokenExpired = errors.New("token has expired")
)

const (
	tokenLength = 32
	// 64 characters so a random byte masked to 6 bits maps without bias.
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

// TokenService owns the bearer-token lifecycle: issuance, sliding-window
// verification, revocation, and the periodic sweep of stale rows.
type TokenService interface {
	Issue(userID uint) (string, error)
	// Verify resolves the owning user id and pushes the token's LastUsedAt
	// forward. ErrInvalidToken and ErrTokenExpired are the only expected
	// failures; anything else is a store error.
	Verify(value string) (uint, error)
	Revoke(value string) error
	RevokeAll(userID uint) error
	// ScheduleCleanup starts the background sweep; it returns immediately and
	// the sweep stops when ctx is cancelled.
	ScheduleCleanup(ctx context.Context)
}

type tokenService struct {
	tokens       repository.TokenRepository
	ttl          time.Duration
	cleanupEvery time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

func NewTokenService(tokens repository.TokenRepository, cfg *config.Config, logger *slog.Logger) TokenService {
	return &tokenService{
		tokens:       tokens,
		ttl:          cfg.TokenTTL,
		cleanupEvery: cfg.TokenCleanupInterval,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *tokenService) Issue(userID uint) (string, error) {
	value, err := randomTokenValue()
	if err != nil {
		return "", err
	}

	token := &models.Token{
		Token:      value,
		UserID:     userID,
		LastUsedAt: s.now(),
	}
	// No collision retry: with 192 bits of entropy a unique-index violation is
	// effectively a generator failure and surfaces as a store error.
	if err := s.tokens.Create(token); err != nil {
		return "", fmt.Errorf("persisting token: %w", err)
	}
	return value, nil
}

func (s *tokenService) Verify(value string) (uint, error) {
	token, err := s.tokens.FindByValue(value)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("looking up token: %w", err)
	}

	now := s.now()
	if now.Sub(token.LastUsedAt) >= s.ttl {
		return 0, ErrTokenExpired
	}

	// Refresh-on-read keeps the session alive. Concurrent refreshes race
	// last-writer-wins, which can only shorten the effective lifetime.
	if err := s.tokens.UpdateLastUsed(value, now); err != nil {
		return 0, fmt.Errorf("refreshing token: %w", err)
	}
	return token.UserID, nil
}

func (s *tokenService) Revoke(value string) error {
	return s.tokens.Delete(value)
}

func (s *tokenService) RevokeAll(userID uint) error {
	return s.tokens.DeleteByUser(userID)
}

func (s *tokenService) ScheduleCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cleanupEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// sweep is best-effort storage maintenance; Verify enforces expiry on its own,
// so a failed sweep never extends a token's usable life.
func (s *tokenService) sweep() {
	cutoff := s.now().Add(-s.ttl)
	deleted, err := s.tokens.DeleteLastUsedBefore(cutoff)
	if err != nil {
		s.logger.Error("token cleanup sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("token cleanup sweep", "deleted", deleted)
	}
}

func randomTokenValue() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[b&0x3f]
	}
	return string(buf), nil
}
