package settings

import (
	"context"
	"net/http"

	"github.com/Daskott/raksha/engine/api"
	"github.com/Daskott/raksha/engine/message"
)

// profile is the user record returned by '/api/auth/me', every setting may be null
type profile struct {
	ID                    string  `json:"id"`
	Language              *string `json:"language"`
	DarkMode              *bool   `json:"darkMode"`
	FakeCallEnabled       *bool   `json:"fakeCallEnabled"`
	SilentSOS             *bool   `json:"silentSOS"`
	SirenSound            *bool   `json:"sirenSound"`
	PowerSaving           *bool   `json:"powerSaving"`
	SelectedEmergencyType *string `json:"selectedEmergencyType"`
}

func (p profile) settings() Settings {
	s := Defaults()

	if p.Language != nil && *p.Language != "" {
		s.Language = message.Language(*p.Language)
	}
	if p.SelectedEmergencyType != nil && *p.SelectedEmergencyType != "" {
		s.SelectedCategory = message.Category(*p.SelectedEmergencyType)
	}

	s.DarkMode = boolOr(p.DarkMode, s.DarkMode)
	s.FakeCallEnabled = boolOr(p.FakeCallEnabled, s.FakeCallEnabled)
	s.SilentMode = boolOr(p.SilentSOS, s.SilentMode)
	s.SirenEnabled = boolOr(p.SirenSound, s.SirenEnabled)
	s.PowerSaving = boolOr(p.PowerSaving, s.PowerSaving)

	return s
}

type HTTPRemote struct {
	client *api.Client
}

func NewHTTPRemote(client *api.Client) *HTTPRemote {
	return &HTTPRemote{client: client}
}

func (r *HTTPRemote) UpdateSettings(ctx context.Context, patch Patch) error {
	return r.client.Do(ctx, http.MethodPatch, "/api/user/settings", patch, nil)
}

func (r *HTTPRemote) FetchSettings(ctx context.Context) (Settings, error) {
	p := profile{}
	if err := r.client.Do(ctx, http.MethodGet, "/api/auth/me", nil, &p); err != nil {
		return Settings{}, err
	}

	return p.settings(), nil
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
