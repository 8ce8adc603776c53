package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crowdfund/internal/cache"
	"crowdfund/internal/domain"
	"crowdfund/internal/repository"
)

type CampaignInput struct {
	Title       string
	Description string
	GoalAmount  int64
}

func (in CampaignInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "is required")
	}
	if in.GoalAmount <= 0 {
		return invalid("goal_amount", "must be positive")
	}
	return nil
}

// CampaignService maneja el CRUD de campañas con lectura cache-aside.
type CampaignService struct {
	logger    *zap.Logger
	campaigns repository.CampaignRepository
	cache     cache.CampaignCache
	now       func() time.Time
}

func NewCampaignService(logger *zap.Logger, campaigns repository.CampaignRepository, c cache.CampaignCache) *CampaignService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignService{logger: logger, campaigns: campaigns, cache: c, now: time.Now}
}

func (s *CampaignService) Create(ctx context.Context, ownerID string, in CampaignInput) (domain.Campaign, error) {
	if err := in.validate(); err != nil {
		return domain.Campaign{}, err
	}
	campaign := domain.Campaign{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		GoalAmount:  in.GoalAmount,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return domain.Campaign{}, err
	}
	invalidateCampaigns(ctx, s.logger, s.cache)
	return campaign, nil
}

// List lee de la cache; si falla o no hay entrada va al store y repuebla.
func (s *CampaignService) List(ctx context.Context) ([]domain.Campaign, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.GetList(ctx)
		if err != nil {
			s.logger.Warn("campaign cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	if s.cache != nil {
		if err := s.cache.SetList(ctx, campaigns); err != nil {
			s.logger.Warn("campaign cache write failed", zap.Error(err))
		}
	}
	return campaigns, nil
}

func (s *CampaignService) Get(ctx context.Context, id string) (domain.Campaign, error) {
	if err := requireID(id); err != nil {
		return domain.Campaign{}, err
	}
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, mapNotFound(err)
	}
	return campaign, nil
}

func (s *CampaignService) Update(ctx context.Context, userID, id string, in CampaignInput) (domain.Campaign, error) {
	campaign, err := s.owned(ctx, userID, id)
	if err != nil {
		return domain.Campaign{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Campaign{}, err
	}
	campaign.Title = strings.TrimSpace(in.Title)
	campaign.Description = strings.TrimSpace(in.Description)
	campaign.GoalAmount = in.GoalAmount
	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return domain.Campaign{}, mapNotFound(err)
	}
	invalidateCampaigns(ctx, s.logger, s.cache)
	return campaign, nil
}

func (s *CampaignService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	invalidateCampaigns(ctx, s.logger, s.cache)
	return nil
}

func (s *CampaignService) owned(ctx context.Context, userID, id string) (domain.Campaign, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return domain.Campaign{}, err
	}
	if campaign.UserID != userID {
		return domain.Campaign{}, ErrForbidden
	}
	return campaign, nil
}
