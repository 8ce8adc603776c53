package service

import (
	"context"

	"crowdfund/internal/domain"
	"crowdfund/internal/repository"
)

// DashboardService arma las vistas por usuario.
type DashboardService struct {
	campaigns repository.CampaignRepository
	donations repository.DonationRepository
	likes     repository.LikeRepository
	comments  repository.CommentRepository
}

func NewDashboardService(
	campaigns repository.CampaignRepository,
	donations repository.DonationRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
) *DashboardService {
	return &DashboardService{campaigns: campaigns, donations: donations, likes: likes, comments: comments}
}

func (s *DashboardService) Funded(ctx context.Context, userID string) ([]domain.Donation, error) {
	return orEmpty(s.donations.ListByUser(ctx, userID))
}

func (s *DashboardService) Comments(ctx context.Context, userID string) ([]domain.Comment, error) {
	return orEmpty(s.comments.ListByUser(ctx, userID))
}

func (s *DashboardService) MyCampaigns(ctx context.Context, userID string) ([]domain.CampaignSummary, error) {
	return orEmpty(s.campaigns.ListByOwner(ctx, userID))
}

func (s *DashboardService) Likes(ctx context.Context, userID string) ([]domain.Like, error) {
	return orEmpty(s.likes.ListByUser(ctx, userID))
}

// orEmpty evita serializar null en JSON.
func orEmpty[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}
