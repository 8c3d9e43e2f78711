package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"medibook-server/config"

	"github.com/sirupsen/logrus"
)

const lineProfileURL = "https://api.line.me/v2/profile"

// Profile is the subset of a LINE profile used to pre-fill the wizard.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// ProfileProvider supplies display name and an opaque external user id for
// a logged-in user. Absence of the integration is a normal, silent path:
// Available reports false and the wizard simply starts empty.
type ProfileProvider interface {
	Available() bool
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// NewLineProfileService returns the LINE-backed provider, or the disabled
// variant when no application id is configured.
func NewLineProfileService(cfg config.LineConfig, log *logrus.Logger) ProfileProvider {
	if cfg.AppID == "" {
		log.Info("LINE app id not set, profile pre-fill disabled")
		return disabledProfileProvider{}
	}
	return &lineProfileService{
		appID:  cfg.AppID,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

type lineProfileService struct {
	appID  string
	client *http.Client
	log    *logrus.Logger
}

func (s *lineProfileService) Available() bool {
	return true
}

func (s *lineProfileService) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lineProfileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("line profile request failed with status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode line profile: %w", err)
	}

	s.log.Infof("LINE profile fetched for user %s", profile.UserID)
	return &profile, nil
}

type disabledProfileProvider struct{}

func (disabledProfileProvider) Available() bool {
	return false
}

func (disabledProfileProvider) FetchProfile(context.Context, string) (*Profile, error) {
	return nil, fmt.Errorf("line profile provider is disabled")
}
