package alert

import (
	"context"
	"sync"
)

// ChannelStub records every SendText call
type ChannelStub struct {
	IsAvailable  bool
	AvailableErr error
	SendErr      error

	// Block, when set, holds SendText until it's closed
	Block chan struct{}

	mu             sync.Mutex
	AvailableCalls int
	Sends          []SentText
}

type SentText struct {
	Numbers []string
	Message string
}

func (c *ChannelStub) Available(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AvailableCalls++
	return c.IsAvailable, c.AvailableErr
}

func (c *ChannelStub) SendText(ctx context.Context, numbers []string, message string) error {
	c.mu.Lock()
	c.Sends = append(c.Sends, SentText{Numbers: append([]string{}, numbers...), Message: message})
	c.mu.Unlock()

	if c.Block != nil {
		<-c.Block
	}

	return c.SendErr
}

func (c *ChannelStub) SendCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.Sends)
}

// CueRecorder keeps the cues it was asked to give
type CueRecorder struct {
	mu   sync.Mutex
	Cues []CueKind
}

func (cr *CueRecorder) Notify(ctx context.Context, kind CueKind) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	cr.Cues = append(cr.Cues, kind)
}
