package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
)

// TokenSweeper deletes verification tokens that expired more than retention ago.
// Tokens inside the retention window still confirm as expired rather than unknown.
type TokenSweeper struct {
	tokenStore model.VerificationTokenStore
	interval   time.Duration
	retention  time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

func NewTokenSweeper(tokenStore model.VerificationTokenStore, interval, retention time.Duration, logger *logger.Logger) *TokenSweeper {
	return &TokenSweeper{
		tokenStore: tokenStore,
		interval:   interval,
		retention:  max(retention, 0),
		logger:     logger,
		now:        time.Now,
	}
}

// Sweep deletes every token that expired before now minus the retention window
// and returns how many were removed.
func (s *TokenSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.tokenStore.DeleteExpired(ctx, s.now().Add(-s.retention))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	if n > 0 {
		s.logger.Info("Token sweeper: expired verification tokens deleted",
			"count", n)
	}
	return n, nil
}

// Run sweeps on every tick until ctx is done.
func (s *TokenSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Token sweeper: sweep failed",
					"error", err.Error())
			}
		}
	}
}
