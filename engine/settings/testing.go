package settings

import (
	"context"
	"sync"
)

// RemoteStub records the patches it receives
type RemoteStub struct {
	mu        sync.Mutex
	Patches   []Patch
	UpdateErr error
	Stored    Settings
	FetchErr  error
}

func (r *RemoteStub) UpdateSettings(ctx context.Context, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Patches = append(r.Patches, patch)
	if r.UpdateErr != nil {
		return r.UpdateErr
	}

	r.Stored = r.Stored.Apply(patch)
	return nil
}

func (r *RemoteStub) FetchSettings(ctx context.Context) (Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.Stored, r.FetchErr
}
