package network

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Prober samples connectivity signals from the host it runs on
type Prober struct {
	// ProbeURL is requested to confirm a data path, reachability is Unknown when empty
	ProbeURL string
	Client   *http.Client

	// interfaces is swapped out in tests
	interfaces func() ([]net.Interface, error)
	addrs      func(net.Interface) ([]net.Addr, error)
}

func NewProber(probeURL string, timeout time.Duration) *Prober {
	return &Prober{
		ProbeURL:   probeURL,
		Client:     &http.Client{Timeout: timeout},
		interfaces: net.Interfaces,
		addrs:      func(iface net.Interface) ([]net.Addr, error) { return iface.Addrs() },
	}
}

// Sample reads the current signal
func (p *Prober) Sample(ctx context.Context) Signal {
	signal := Signal{Connected: p.connected()}
	if !signal.Connected {
		signal.InternetReachable = Unreachable
		return signal
	}

	signal.InternetReachable = p.reachable(ctx)
	return signal
}

func (p *Prober) connected() bool {
	ifaces, err := p.interfaces()
	if err != nil {
		logg.Warnf("Unable to list network interfaces: %v", err)
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := p.addrs(iface)
		if err == nil && len(addrs) > 0 {
			return true
		}
	}

	return false
}

func (p *Prober) reachable(ctx context.Context) Reachability {
	if p.ProbeURL == "" {
		return Unknown
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.ProbeURL, nil)
	if err != nil {
		logg.Warnf("Invalid probe url %q: %v", p.ProbeURL, err)
		return Unknown
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return Unreachable
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Unreachable
	}

	return Reachable
}
