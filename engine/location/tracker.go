package location

import (
	"context"
	"errors"
	"sync"

	"github.com/Daskott/raksha/engine/kvstore"
	"github.com/Daskott/raksha/engine/logger"
)

const LAST_LOCATION_KEY = "last_location"

var (
	ErrPermissionDenied = errors.New("location permission denied")

	logg = logger.NewLogger().Named("location")
)

// Locator is the platform's source of position fixes
type Locator interface {
	// RequestPermission reports whether the user allows location access
	RequestPermission(ctx context.Context) (bool, error)

	// CurrentPosition returns a live fix with the requested accuracy
	CurrentPosition(ctx context.Context, accuracy Accuracy) (Sample, error)
}

// Store is where the last good fix is kept between runs
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Tracker owns the last known position and the location status state machine.
// Its methods never return errors, failures show up as a Status.
type Tracker struct {
	locator Locator
	store   Store

	mu         sync.RWMutex
	status     Status
	sample     *Sample
	generation uint64
}

func NewTracker(locator Locator, store Store) *Tracker {
	return &Tracker{
		locator: locator,
		store:   store,
		status:  Loading,
	}
}

// Load restores the last persisted fix, if any, and switches to UsingLast so
// callers have something to work with before a live fix completes.
func (t *Tracker) Load(ctx context.Context) Status {
	last, ok := t.lastPersisted(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if ok && t.status != Ready {
		t.sample = last
		t.status = UsingLast
	}

	return t.status
}

// RequestPermission asks for location access and refreshes the fix when it's granted
func (t *Tracker) RequestPermission(ctx context.Context) Status {
	granted, err := t.locator.RequestPermission(ctx)
	if err != nil {
		logg.Errorf("Error requesting location permission: %v", err)
	}

	if err != nil || !granted {
		if err == nil {
			logg.Warn(ErrPermissionDenied)
		}

		t.mu.Lock()
		t.generation++
		t.status = Unavailable
		t.mu.Unlock()

		return Unavailable
	}

	return t.Refresh(ctx)
}

// Refresh attempts a live fix, falling back to the last persisted fix on failure.
//
// Only the most recent call is allowed to update state: a refresh that
// completes after a newer one started is discarded.
func (t *Tracker) Refresh(ctx context.Context) Status {
	gen := t.begin()

	sample, err := t.locator.CurrentPosition(ctx, AccuracyBalanced)
	if err == nil {
		if !t.commit(gen, Ready, sample.copy()) {
			logg.Debugf("Discarding stale location fix (generation=%v)", gen)
			return t.Status()
		}

		t.persist(ctx, sample)
		return Ready
	}

	logg.Warnf("Error getting location: %v", err)

	status := Unavailable
	last, ok := t.lastPersisted(ctx)
	if ok {
		status = UsingLast
	}

	if !t.commit(gen, status, last) {
		logg.Debugf("Discarding stale location fallback (generation=%v)", gen)
		return t.Status()
	}

	return status
}

// Snapshot returns the current status & a copy of the sample (nil when absent)
func (t *Tracker) Snapshot() (Status, *Sample) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.sample == nil {
		return t.status, nil
	}

	return t.status, t.sample.copy()
}

func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.status
}

// Current returns a copy of the last known sample or nil
func (t *Tracker) Current() *Sample {
	_, sample := t.Snapshot()
	return sample
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (t *Tracker) begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	t.status = Loading

	return t.generation
}

func (t *Tracker) commit(gen uint64, status Status, sample *Sample) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		return false
	}

	t.status = status
	t.sample = sample

	return true
}

func (t *Tracker) persist(ctx context.Context, sample Sample) {
	data, err := encodeSample(sample)
	if err != nil {
		logg.Errorf("Error saving last location: %v", err)
		return
	}

	if err = t.store.Set(ctx, LAST_LOCATION_KEY, data); err != nil {
		logg.Errorf("Error saving last location: %v", err)
	}
}

func (t *Tracker) lastPersisted(ctx context.Context) (*Sample, bool) {
	data, err := t.store.Get(ctx, LAST_LOCATION_KEY)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, false
	}

	if err != nil {
		logg.Errorf("Error getting last location: %v", err)
		return nil, false
	}

	sample, err := decodeSample(data)
	if err != nil {
		logg.Errorf("Error decoding last location: %v", err)
		return nil, false
	}

	return sample, true
}
