package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"crowdfund/internal/domain"
	"crowdfund/internal/repository"
)

type mockUserRepo struct {
	mu        sync.Mutex
	usersByID map[string]domain.User
	getErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{usersByID: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.usersByID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
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
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	for _, u := range m.usersByID {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

// Update aplica el mismo compare-and-set que la version SQL.
func (m *mockUserRepo) Update(_ context.Context, id string, update domain.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if update.Empty() {
		return nil
	}
	user, ok := m.usersByID[id]
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
		user.VerificationToken, user.VerificationExpires = applyToken(*c)
	}
	if c := update.Reset; c != nil {
		user.ResetToken, user.ResetExpires = applyToken(*c)
	}
	m.usersByID[id] = user
	return nil
}

func applyToken(c domain.TokenChange) (string, *time.Time) {
	if c.IsClear() {
		return "", nil
	}
	exp := c.ExpiresAt
	return c.Token, &exp
}

func (m *mockUserRepo) byEmail(email string) domain.User {
	u, _ := m.GetByEmail(context.Background(), email)
	return u
}

type sentMail struct {
	to, subject, body string
}

type mockSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockSender) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *mockSender) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

var errStoreDown = errors.New("store down")
