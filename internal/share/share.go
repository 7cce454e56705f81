// Package share manages the public-dashboard capability tokens.
package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
)

const DefaultExpiryDays = 7

var ErrInvalidToken = errors.New("malformed share token")

type Service struct {
	repo *database.Repository
	now  func() time.Time
}

func NewService(repo *database.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Generate issues a fresh token for the user, replacing any previous one.
func (s *Service) Generate(userID int64, expiryDays int) (*database.ShareToken, error) {
	if expiryDays <= 0 {
		expiryDays = DefaultExpiryDays
	}

	t := database.ShareToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().AddDate(0, 0, expiryDays),
	}
	if err := s.repo.SaveShareToken(t); err != nil {
		return nil, fmt.Errorf("saving share token: %w", err)
	}
	return &t, nil
}

// Disable revokes the user's token, reporting whether one existed.
func (s *Service) Disable(userID int64) (bool, error) {
	return s.repo.DeleteShareToken(userID)
}

// Current returns the user's token, expired or not; the caller compares
// ExpiresAt against now to decide how to present it. Nil when none.
func (s *Service) Current(userID int64) (*database.ShareToken, error) {
	t, err := s.repo.GetShareToken(userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

// Resolve maps a public token to its user. Malformed identifiers are
// rejected before touching the database; expired tokens read as absent.
func (s *Service) Resolve(token string) (int64, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, ErrInvalidToken
	}

	t, err := s.repo.GetShareTokenByToken(token)
	if err != nil {
		return 0, err
	}
	if t.Expired(s.now()) {
		return 0, database.ErrNotFound
	}
	return t.UserID, nil
}
