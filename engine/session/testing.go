package session

import (
	"context"
	"sync"
	"time"

	"github.com/Daskott/raksha/engine/alert"
	"github.com/Daskott/raksha/engine/contacts"
	"github.com/Daskott/raksha/engine/kvstore"
	"github.com/Daskott/raksha/engine/location"
	"github.com/Daskott/raksha/engine/network"
	"github.com/Daskott/raksha/engine/settings"
)

// SamplerStub returns Signal on every Sample call
type SamplerStub struct {
	mu     sync.Mutex
	Signal network.Signal
}

func (s *SamplerStub) Sample(ctx context.Context) network.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Signal
}

func (s *SamplerStub) Set(signal network.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Signal = signal
}

// Stubs are the collaborators behind a session built by NewStubbedSession
type Stubs struct {
	Locator  *location.LocatorStub
	Store    *kvstore.MemoryStore
	Contacts *contacts.ServiceStub
	Settings *settings.RemoteStub
	Channel  *alert.ChannelStub
	Cue      *alert.CueRecorder
	Sampler  *SamplerStub
}

// NewStubbedSession returns a session backed by in-memory stubs: location
// access granted, an available channel & an online network.
func NewStubbedSession() (*Session, *Stubs) {
	stubs := &Stubs{
		Locator: &location.LocatorStub{
			Granted: true,
			Fix:     location.NewSample(19.076, 72.8777, time.Unix(1700000000, 0), nil),
		},
		Store:    kvstore.NewMemoryStore(),
		Contacts: &contacts.ServiceStub{},
		Settings: &settings.RemoteStub{Stored: settings.Defaults()},
		Channel:  &alert.ChannelStub{IsAvailable: true},
		Cue:      &alert.CueRecorder{},
		Sampler:  &SamplerStub{Signal: network.Signal{Connected: true, InternetReachable: network.Reachable}},
	}

	s := NewSession(Dependencies{
		Locator:  stubs.Locator,
		Store:    stubs.Store,
		Contacts: stubs.Contacts,
		Settings: stubs.Settings,
		Channel:  stubs.Channel,
		Cue:      stubs.Cue,
		Sampler:  stubs.Sampler,
	})

	return s, stubs
}
