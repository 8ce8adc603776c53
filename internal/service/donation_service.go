package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crowdfund/internal/cache"
	"crowdfund/internal/domain"
	"crowdfund/internal/email"
	"crowdfund/internal/repository"
)

// DonationService registra donaciones directas y pagos simulados.
type DonationService struct {
	logger      *zap.Logger
	donations   repository.DonationRepository
	campaigns   repository.CampaignRepository
	cache       cache.CampaignCache
	mailer      email.Sender
	mailTimeout time.Duration
	now         func() time.Time
}

func NewDonationService(
	logger *zap.Logger,
	donations repository.DonationRepository,
	campaigns repository.CampaignRepository,
	c cache.CampaignCache,
	mailer email.Sender,
	mailTimeout time.Duration,
) *DonationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailTimeout <= 0 {
		mailTimeout = 10 * time.Second
	}
	return &DonationService{
		logger:      logger,
		donations:   donations,
		campaigns:   campaigns,
		cache:       c,
		mailer:      mailer,
		mailTimeout: mailTimeout,
		now:         time.Now,
	}
}

func (s *DonationService) Donate(ctx context.Context, userID, campaignID string, amount int64) (domain.Donation, error) {
	return s.record(ctx, userID, campaignID, amount, "")
}

func (s *DonationService) record(ctx context.Context, userID, campaignID string, amount int64, txnID string) (domain.Donation, error) {
	if amount <= 0 {
		return domain.Donation{}, invalid("amount", "must be positive")
	}
	if err := requireID(campaignID); err != nil {
		return domain.Donation{}, err
	}
	donation := domain.Donation{
		ID:            uuid.NewString(),
		UserID:        userID,
		CampaignID:    campaignID,
		Amount:        amount,
		TransactionID: txnID,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return domain.Donation{}, mapNotFound(err)
	}
	invalidateCampaigns(ctx, s.logger, s.cache)
	return donation, nil
}

// Pay simula el gateway: registra la donacion con un id de transaccion y
// avisa por mail al donante y al dueño. Los mails son best-effort.
func (s *DonationService) Pay(ctx context.Context, userID, donorEmail, campaignID string, amount int64) (domain.PaymentReceipt, error) {
	if amount <= 0 {
		return domain.PaymentReceipt{}, invalid("amount", "must be positive")
	}
	if err := requireID(campaignID); err != nil {
		return domain.PaymentReceipt{}, err
	}
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return domain.PaymentReceipt{}, mapNotFound(err)
	}

	txnID := fmt.Sprintf("TXN_%d_%d", s.now().UnixMilli(), rand.Intn(10000))
	if _, err := s.record(ctx, userID, campaignID, amount, txnID); err != nil {
		return domain.PaymentReceipt{}, err
	}

	s.notify(ctx, donorEmail, "Payment successful",
		fmt.Sprintf("You have successfully funded %d to %q.\nTransaction ID: %s\n", amount, campaign.Title, txnID))
	if campaign.OwnerEmail != "" {
		s.notify(ctx, campaign.OwnerEmail, "New funding received",
			fmt.Sprintf("Your campaign %q received %d.\nTransaction ID: %s\n", campaign.Title, amount, txnID))
	}

	return domain.PaymentReceipt{TransactionID: txnID, CampaignID: campaignID, Amount: amount}, nil
}

func (s *DonationService) notify(ctx context.Context, to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.Warn("payment notification failed", zap.Error(err), zap.String("email", MaskEmail(to)))
	}
}

func (s *DonationService) History(ctx context.Context, userID string) ([]domain.Donation, error) {
	return orEmpty(s.donations.ListByUser(ctx, userID))
}

func (s *DonationService) ForCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	if err := requireID(campaignID); err != nil {
		return nil, err
	}
	return orEmpty(s.donations.ListByCampaign(ctx, campaignID))
}

func (s *DonationService) Stats(ctx context.Context, campaignID string) (domain.DonationStats, error) {
	if err := requireID(campaignID); err != nil {
		return domain.DonationStats{}, err
	}
	return s.donations.Stats(ctx, campaignID)
}
