package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_portal/internal/repository"
)

type TokenRepository struct {
	s *Store
}

func (r *TokenRepository) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.revoked[jti]; !ok {
		r.s.revoked[jti] = expiresAt
	}
	return nil
}

func (r *TokenRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.revoked[jti]
	return ok, nil
}

func (r *TokenRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var purged int64
	for jti, exp := range r.s.revoked {
		if !exp.After(now) {
			delete(r.s.revoked, jti)
			purged++
		}
	}
	for code, lc := range r.s.linkCodes {
		if !lc.expiresAt.After(now) {
			delete(r.s.linkCodes, code)
			purged++
		}
	}
	return purged, nil
}

func (r *TokenRepository) SaveLinkCode(_ context.Context, code string, chatID int64, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.linkCodes[code]; ok {
		return fmt.Errorf("save link code: %w", repository.ErrConflict)
	}
	for c, lc := range r.s.linkCodes {
		if lc.chatID == chatID {
			delete(r.s.linkCodes, c)
		}
	}
	r.s.linkCodes[code] = linkCode{chatID: chatID, expiresAt: expiresAt}
	return nil
}

func (r *TokenRepository) ConsumeLinkCode(_ context.Context, code string, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lc, ok := r.s.linkCodes[code]
	if !ok {
		return 0, fmt.Errorf("consume link code: %w", repository.ErrNotFound)
	}
	delete(r.s.linkCodes, code)
	if !lc.expiresAt.After(now) {
		return 0, fmt.Errorf("consume link code: expired: %w", repository.ErrNotFound)
	}
	return lc.chatID, nil
}
