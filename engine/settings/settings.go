package settings

import (
	"context"
	"errors"
	"sync"

	"github.com/Daskott/raksha/engine/logger"
	"github.com/Daskott/raksha/engine/message"
	"github.com/go-playground/validator"
	pkgErrors "github.com/pkg/errors"
)

type Settings struct {
	Language         message.Language `json:"language"`
	DarkMode         bool             `json:"darkMode"`
	FakeCallEnabled  bool             `json:"fakeCallEnabled"`
	SilentMode       bool             `json:"silentSOS"`
	SirenEnabled     bool             `json:"sirenSound"`
	PowerSaving      bool             `json:"powerSaving"`
	SelectedCategory message.Category `json:"selectedEmergencyType"`
}

// Patch is a partial update, only non-nil fields are applied & sent
type Patch struct {
	Language         *message.Language `json:"language,omitempty" validate:"omitempty,language"`
	DarkMode         *bool             `json:"darkMode,omitempty"`
	FakeCallEnabled  *bool             `json:"fakeCallEnabled,omitempty"`
	SilentMode       *bool             `json:"silentSOS,omitempty"`
	SirenEnabled     *bool             `json:"sirenSound,omitempty"`
	PowerSaving      *bool             `json:"powerSaving,omitempty"`
	SelectedCategory *message.Category `json:"selectedEmergencyType,omitempty" validate:"omitempty,category"`
}

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrNotPersisted    = errors.New("settings were applied locally but not saved remotely")

	logg     = logger.NewLogger().Named("settings")
	validate *validator.Validate
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return message.IsSupportedLanguage(message.Language(fl.Field().String()))
	})
	_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return message.IsValidCategory(message.Category(fl.Field().String()))
	})
}

func Defaults() Settings {
	return Settings{
		Language:         message.DefaultLanguage,
		SirenEnabled:     true,
		SelectedCategory: message.DefaultCategory,
	}
}

// Apply returns a copy of s with patch applied
func (s Settings) Apply(patch Patch) Settings {
	if patch.Language != nil {
		s.Language = *patch.Language
	}
	if patch.DarkMode != nil {
		s.DarkMode = *patch.DarkMode
	}
	if patch.FakeCallEnabled != nil {
		s.FakeCallEnabled = *patch.FakeCallEnabled
	}
	if patch.SilentMode != nil {
		s.SilentMode = *patch.SilentMode
	}
	if patch.SirenEnabled != nil {
		s.SirenEnabled = *patch.SirenEnabled
	}
	if patch.PowerSaving != nil {
		s.PowerSaving = *patch.PowerSaving
	}
	if patch.SelectedCategory != nil {
		s.SelectedCategory = *patch.SelectedCategory
	}

	return s
}

// Diff returns the patch that turns s into target
func (s Settings) Diff(target Settings) Patch {
	patch := Patch{}
	if s.Language != target.Language {
		patch.Language = &target.Language
	}
	if s.DarkMode != target.DarkMode {
		patch.DarkMode = &target.DarkMode
	}
	if s.FakeCallEnabled != target.FakeCallEnabled {
		patch.FakeCallEnabled = &target.FakeCallEnabled
	}
	if s.SilentMode != target.SilentMode {
		patch.SilentMode = &target.SilentMode
	}
	if s.SirenEnabled != target.SirenEnabled {
		patch.SirenEnabled = &target.SirenEnabled
	}
	if s.PowerSaving != target.PowerSaving {
		patch.PowerSaving = &target.PowerSaving
	}
	if s.SelectedCategory != target.SelectedCategory {
		patch.SelectedCategory = &target.SelectedCategory
	}

	return patch
}

// Merge fills the fields p leaves nil from other
func (p Patch) Merge(other Patch) Patch {
	if p.Language == nil {
		p.Language = other.Language
	}
	if p.DarkMode == nil {
		p.DarkMode = other.DarkMode
	}
	if p.FakeCallEnabled == nil {
		p.FakeCallEnabled = other.FakeCallEnabled
	}
	if p.SilentMode == nil {
		p.SilentMode = other.SilentMode
	}
	if p.SirenEnabled == nil {
		p.SirenEnabled = other.SirenEnabled
	}
	if p.PowerSaving == nil {
		p.PowerSaving = other.PowerSaving
	}
	if p.SelectedCategory == nil {
		p.SelectedCategory = other.SelectedCategory
	}

	return p
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Remote persists settings for the signed in user
type Remote interface {
	UpdateSettings(ctx context.Context, patch Patch) error
	FetchSettings(ctx context.Context) (Settings, error)
}

// Manager owns the session's settings. Updates are applied locally straight
// away and then sent to the remote; Confirmed is the last state the remote
// acknowledged.
//
// A failed remote update is NOT rolled back, Pending stays true until a
// later update or Sync succeeds.
type Manager struct {
	remote Remote

	mu        sync.RWMutex
	current   Settings
	confirmed Settings
}

func NewManager(remote Remote, initial Settings) *Manager {
	return &Manager{remote: remote, current: initial, confirmed: initial}
}

func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current
}

func (m *Manager) Confirmed() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.confirmed
}

// Pending reports whether local settings differ from what the remote has confirmed
func (m *Manager) Pending() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current != m.confirmed
}

// Update applies patch locally, then persists it remotely along with any
// earlier changes the remote hasn't confirmed yet
func (m *Manager) Update(ctx context.Context, patch Patch) (Settings, error) {
	if err := validate.Struct(patch); err != nil {
		return m.Current(), pkgErrors.Wrap(ErrInvalidSettings, err.Error())
	}

	if patch.IsEmpty() {
		return m.Current(), nil
	}

	m.mu.Lock()
	m.current = m.current.Apply(patch)
	updated := m.current
	outgoing := patch.Merge(m.confirmed.Diff(updated))
	m.mu.Unlock()

	if err := m.remote.UpdateSettings(ctx, outgoing); err != nil {
		logg.Errorf("Error updating settings: %v", err)
		return updated, pkgErrors.Wrap(ErrNotPersisted, err.Error())
	}

	m.mu.Lock()
	m.confirmed = m.confirmed.Apply(outgoing)
	m.mu.Unlock()

	return updated, nil
}

// Replace sets both local & confirmed settings e.g. after loading the user profile
func (m *Manager) Replace(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s
	m.confirmed = s
}

// Sync loads settings from the remote, discarding unconfirmed local changes
func (m *Manager) Sync(ctx context.Context) (Settings, error) {
	s, err := m.remote.FetchSettings(ctx)
	if err != nil {
		return m.Current(), pkgErrors.Wrap(err, "sync settings")
	}

	m.Replace(s)
	return s, nil
}
