package http

import (
	"context"
	"sync"
	"time"

	"crowdfund/internal/domain"
	"crowdfund/internal/repository"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id })
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *mockUserRepo) GetByVerificationToken(_ context.Context, token string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return token != "" && u.VerificationToken == token })
}

func (m *mockUserRepo) GetByResetToken(_ context.Context, token string) (domain.User, error) {
	return m.find(func(u domain.User) bool { return token != "" && u.ResetToken == token })
}

func (m *mockUserRepo) find(match func(domain.User) bool) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *mockUserRepo) Update(_ context.Context, id string, update domain.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.ExpectVerificationToken != "" && user.VerificationToken != update.ExpectVerificationToken {
		return repository.ErrNotFound
	}
	if update.ExpectResetToken != "" && user.ResetToken != update.ExpectResetToken {
		return repository.ErrNotFound
	}
	if update.ExpectUnverified && user.IsVerified {
		return repository.ErrNotFound
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.IsVerified != nil {
		user.IsVerified = *update.IsVerified
	}
	if c := update.Verification; c != nil {
		user.VerificationToken, user.VerificationExpires = tokenPair(*c)
	}
	if c := update.Reset; c != nil {
		user.ResetToken, user.ResetExpires = tokenPair(*c)
	}
	m.users[id] = user
	return nil
}

func tokenPair(c domain.TokenChange) (string, *time.Time) {
	if c.IsClear() {
		return "", nil
	}
	exp := c.ExpiresAt
	return c.Token, &exp
}

type mockCampaignRepo struct {
	mu    sync.Mutex
	items map[string]domain.Campaign
}

func (m *mockCampaignRepo) Create(_ context.Context, c domain.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c
	return nil
}

func (m *mockCampaignRepo) GetByID(_ context.Context, id string) (domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return domain.Campaign{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCampaignRepo) List(_ context.Context) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Campaign, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCampaignRepo) ListByOwner(context.Context, string) ([]domain.CampaignSummary, error) {
	return nil, nil
}

func (m *mockCampaignRepo) Update(_ context.Context, c domain.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c
	return nil
}

func (m *mockCampaignRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// emptyRepo cubre donaciones, likes y comentarios para las rutas que estos
// tests no ejercitan en detalle.
type emptyRepo struct{}

func (emptyRepo) Create(context.Context, domain.Donation) error {
	return nil
}

func (emptyRepo) ListByUser(context.Context, string) ([]domain.Donation, error) {
	return nil, nil
}

func (emptyRepo) ListByCampaign(context.Context, string) ([]domain.Donation, error) {
	return nil, nil
}

func (emptyRepo) Stats(context.Context, string) (domain.DonationStats, error) {
	return domain.DonationStats{TotalDonations: 2, TotalRaised: 700}, nil
}

type emptyLikes struct{}

func (emptyLikes) Like(context.Context, domain.Like) error {
	return nil
}

func (emptyLikes) Unlike(context.Context, string, string) error {
	return nil
}

func (emptyLikes) Count(context.Context, string) (int64, error) {
	return 3, nil
}

func (emptyLikes) ListByUser(context.Context, string) ([]domain.Like, error) {
	return nil, nil
}

type emptyComments struct{}

func (emptyComments) Create(context.Context, domain.Comment) error {
	return nil
}

func (emptyComments) GetByID(context.Context, string) (domain.Comment, error) {
	return domain.Comment{}, repository.ErrNotFound
}

func (emptyComments) ListByCampaign(context.Context, string) ([]domain.Comment, error) {
	return nil, nil
}

func (emptyComments) ListByUser(context.Context, string) ([]domain.Comment, error) {
	return nil, nil
}

func (emptyComments) UpdateBody(context.Context, string, string) error {
	return nil
}

func (emptyComments) Delete(context.Context, string) error {
	return nil
}

type sentMail struct {
	to, subject, body string
}

type mockSender struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *mockSender) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *mockSender) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].body
}
