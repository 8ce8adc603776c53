package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher hashea y verifica contraseñas.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	// Verify devuelve false ante un hash mal formado; el error solo indica
	// que el contexto termino antes de obtener un slot.
	Verify(ctx context.Context, plain, hash string) (bool, error)
	BurnCompare(ctx context.Context, plain string)
}

// BcryptHasher limita cuantas operaciones bcrypt corren a la vez.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
	dummy []byte
}

func NewBcryptHasher(cost int, concurrency int64) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("crowdfund-dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	return &BcryptHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(concurrency),
		dummy: dummy,
	}, nil
}

func (h *BcryptHasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(ctx context.Context, plain, hash string) (bool, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.slots.Release(1)
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil, nil
}

// BurnCompare gasta una comparacion contra un hash fijo para igualar el
// costo de un login con email desconocido.
func (h *BcryptHasher) BurnCompare(ctx context.Context, plain string) {
	_, _ = h.Verify(ctx, plain, string(h.dummy))
}
