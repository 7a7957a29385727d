package network

import (
	"sync"

	"github.com/Daskott/raksha/engine/logger"
)

type Status string

const (
	Online  Status = "online"
	SmsOnly Status = "sms_only"
	Offline Status = "offline"
)

// Reachability is the platform's answer to "is there a data path to the internet"
type Reachability int

const (
	Unknown Reachability = iota
	Reachable
	Unreachable
)

func ReachabilityOf(reachable *bool) Reachability {
	if reachable == nil {
		return Unknown
	}

	if *reachable {
		return Reachable
	}

	return Unreachable
}

// Signal is a raw connectivity reading
type Signal struct {
	Connected         bool
	InternetReachable Reachability
}

var logg = logger.NewLogger().Named("network")

// Classify maps a connectivity signal to a Status. An unknown reachability
// is not treated as reachable.
func Classify(signal Signal) Status {
	switch {
	case !signal.Connected:
		return Offline
	case signal.InternetReachable == Reachable:
		return Online
	default:
		return SmsOnly
	}
}

// Monitor holds the status computed from the most recent signal. The status
// is informational, it never gates an alert.
type Monitor struct {
	mu          sync.RWMutex
	status      Status
	subscribers []func(Status)
}

// NewMonitor starts Online, like a device that hasn't reported anything yet
func NewMonitor() *Monitor {
	return &Monitor{status: Online}
}

// Update recomputes the status from signal & notifies subscribers when it changes
func (m *Monitor) Update(signal Signal) Status {
	status := Classify(signal)

	m.mu.Lock()
	previous := m.status
	m.status = status
	subscribers := append([]func(Status){}, m.subscribers...)
	m.mu.Unlock()

	if previous != status {
		logg.Infof("Network status changed from %v to %v", previous, status)
		for _, notify := range subscribers {
			notify(status)
		}
	}

	return status
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.status
}

// Subscribe registers fn to be called with every status change
func (m *Monitor) Subscribe(fn func(Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribers = append(m.subscribers, fn)
}
