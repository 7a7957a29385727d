package location

import (
	"context"
	"sync"
)

// LocatorStub returns canned permission & fix results
type LocatorStub struct {
	Granted       bool
	PermissionErr error
	Fix           Sample
	FixErr        error

	mu         sync.Mutex
	FixCalls   int
	Accuracies []Accuracy
}

func (ls *LocatorStub) RequestPermission(ctx context.Context) (bool, error) {
	return ls.Granted, ls.PermissionErr
}

func (ls *LocatorStub) CurrentPosition(ctx context.Context, accuracy Accuracy) (Sample, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.FixCalls++
	ls.Accuracies = append(ls.Accuracies, accuracy)
	return ls.Fix, ls.FixErr
}
