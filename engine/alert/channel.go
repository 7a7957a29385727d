package alert

import (
	"context"
	"strings"
)

// Channel delivers the SOS text, e.g. SMS
type Channel interface {
	// Available reports whether the channel can send right now
	Available(ctx context.Context) (bool, error)

	// SendText sends message to every number as one batch
	SendText(ctx context.Context, numbers []string, message string) error
}

// LogChannel doesn't deliver anything, it logs what would have been sent.
// Used for dry runs.
type LogChannel struct{}

func (LogChannel) Available(ctx context.Context) (bool, error) {
	return true, nil
}

func (LogChannel) SendText(ctx context.Context, numbers []string, message string) error {
	logg.Infof("[dry-run] to=%v message=%q", strings.Join(numbers, ","), message)
	return nil
}
