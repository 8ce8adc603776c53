package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crowdfund/internal/domain"
	"crowdfund/internal/repository"
)

const maxCommentLength = 2000

// EngagementService agrupa likes y comentarios sobre campañas.
type EngagementService struct {
	logger   *zap.Logger
	likes    repository.LikeRepository
	comments repository.CommentRepository
	now      func() time.Time
}

func NewEngagementService(logger *zap.Logger, likes repository.LikeRepository, comments repository.CommentRepository) *EngagementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngagementService{logger: logger, likes: likes, comments: comments, now: time.Now}
}

// Like es idempotente: un segundo like del mismo usuario no suma.
func (s *EngagementService) Like(ctx context.Context, userID, campaignID string) error {
	if err := requireID(campaignID); err != nil {
		return err
	}
	err := s.likes.Like(ctx, domain.Like{UserID: userID, CampaignID: campaignID, CreatedAt: s.now().UTC()})
	return mapNotFound(err)
}

func (s *EngagementService) Unlike(ctx context.Context, userID, campaignID string) error {
	if err := requireID(campaignID); err != nil {
		return err
	}
	return s.likes.Unlike(ctx, userID, campaignID)
}

func (s *EngagementService) LikeCount(ctx context.Context, campaignID string) (int64, error) {
	if err := requireID(campaignID); err != nil {
		return 0, err
	}
	return s.likes.Count(ctx, campaignID)
}

func (s *EngagementService) AddComment(ctx context.Context, userID, campaignID, body string) (domain.Comment, error) {
	if err := requireID(campaignID); err != nil {
		return domain.Comment{}, err
	}
	body, err := validateComment(body)
	if err != nil {
		return domain.Comment{}, err
	}
	comment := domain.Comment{
		ID:         uuid.NewString(),
		UserID:     userID,
		CampaignID: campaignID,
		Body:       body,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return comment, nil
}

func (s *EngagementService) Comments(ctx context.Context, campaignID string) ([]domain.Comment, error) {
	if err := requireID(campaignID); err != nil {
		return nil, err
	}
	return orEmpty(s.comments.ListByCampaign(ctx, campaignID))
}

func (s *EngagementService) EditComment(ctx context.Context, userID, commentID, body string) (domain.Comment, error) {
	comment, err := s.ownedComment(ctx, userID, commentID)
	if err != nil {
		return domain.Comment{}, err
	}
	body, err = validateComment(body)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := s.comments.UpdateBody(ctx, commentID, body); err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	comment.Body = body
	return comment, nil
}

func (s *EngagementService) DeleteComment(ctx context.Context, userID, commentID string) error {
	if _, err := s.ownedComment(ctx, userID, commentID); err != nil {
		return err
	}
	return mapNotFound(s.comments.Delete(ctx, commentID))
}

func (s *EngagementService) ownedComment(ctx context.Context, userID, commentID string) (domain.Comment, error) {
	if err := requireID(commentID); err != nil {
		return domain.Comment{}, err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	if comment.UserID != userID {
		return domain.Comment{}, ErrForbidden
	}
	return comment, nil
}

func validateComment(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", invalid("comment", "is required")
	}
	if utf8.RuneCountInString(body) > maxCommentLength {
		return "", invalid("comment", "is too long")
	}
	return body, nil
}
