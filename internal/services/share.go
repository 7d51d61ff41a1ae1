package services

import (
	"context"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/repository"
)

// QRSize is the edge length in pixels of generated share codes
const QRSize = 256

// ShareRepository is the data access ShareService needs
type ShareRepository interface {
	repository.EventRepository
	repository.SettingsRepository
}

// ShareService builds the public links participants use to follow a schedule
type ShareService struct {
	repo ShareRepository
	// fallbackBaseURL is used when no base_url setting is stored
	fallbackBaseURL string
}

// NewShareService creates a new ShareService
func NewShareService(repo ShareRepository, fallbackBaseURL string) *ShareService {
	return &ShareService{repo: repo, fallbackBaseURL: strings.TrimRight(fallbackBaseURL, "/")}
}

// PublicURL returns the read-only schedule URL for an event
func (s *ShareService) PublicURL(ctx context.Context, eventID int) (string, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return "", fromRepo(err, "event not found")
	}
	base, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		return "", errors.Internal(err)
	}
	if base == "" {
		base = s.fallbackBaseURL
	}
	return strings.TrimRight(base, "/") + "/e/" + ev.PublicToken, nil
}

// QRCode returns a PNG QR code pointing at the event's public URL
func (s *ShareService) QRCode(ctx context.Context, eventID int) ([]byte, error) {
	url, err := s.PublicURL(ctx, eventID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(url, qrcode.Medium, QRSize)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return png, nil
}
