package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crowdfund/internal/cache"
	"crowdfund/internal/repository"
)

// requireID evita consultas con ids que no son UUID; para el cliente es un 404.
func requireID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func invalidateCampaigns(ctx context.Context, logger *zap.Logger, c cache.CampaignCache) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		logger.Warn("invalidate campaign cache failed", zap.Error(err))
	}
}
