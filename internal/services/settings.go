package services

import (
	"context"
	"strings"

	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/repository"
)

// Setting keys
const (
	SettingBaseURL       = "base_url"
	SettingRosterFeedURL = "roster_feed_url"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetBaseURL returns the application base URL used in share links
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.repo.GetSetting(ctx, SettingBaseURL)
}

// SetBaseURL saves the application base URL without a trailing slash
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingBaseURL, strings.TrimRight(url, "/"))
}

// GetRosterFeedURL returns the configured roster feed URL
func (s *SettingsService) GetRosterFeedURL(ctx context.Context) (string, error) {
	return s.repo.GetSetting(ctx, SettingRosterFeedURL)
}

// SetRosterFeedURL saves the roster feed URL
func (s *SettingsService) SetRosterFeedURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingRosterFeedURL, strings.TrimSpace(url))
}

// AllSettings returns the settings shown to organizers
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	feedURL, err := s.GetRosterFeedURL(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		SettingBaseURL:       baseURL,
		SettingRosterFeedURL: feedURL,
	}, nil
}
