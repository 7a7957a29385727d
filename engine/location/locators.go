package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// CITY_ACCURACY_METERS is the radius reported for geo-ip fixes
const CITY_ACCURACY_METERS = 5000.0

var ErrNoFix = errors.New("no position fix available")

// StaticLocator reports a fixed position, e.g. a home address set in config.
// It mirrors a device where location access is either on or off.
type StaticLocator struct {
	Enabled   bool
	Latitude  float64
	Longitude float64
	Accuracy  *float64
	Now       func() time.Time
}

func (sl *StaticLocator) RequestPermission(ctx context.Context) (bool, error) {
	return sl.Enabled, nil
}

func (sl *StaticLocator) CurrentPosition(ctx context.Context, accuracy Accuracy) (Sample, error) {
	if !sl.Enabled {
		return Sample{}, ErrPermissionDenied
	}

	if sl.Latitude == 0 && sl.Longitude == 0 {
		return Sample{}, ErrNoFix
	}

	now := time.Now
	if sl.Now != nil {
		now = sl.Now
	}

	return NewSample(sl.Latitude, sl.Longitude, now(), sl.Accuracy), nil
}

// GeoIPLocator resolves an approximate position from the public IP using an
// ip-api.com compatible endpoint.
type GeoIPLocator struct {
	Enabled bool
	URL     string
	Client  *http.Client
}

type geoIPResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewGeoIPLocator(url string, timeout time.Duration) *GeoIPLocator {
	return &GeoIPLocator{
		Enabled: true,
		URL:     url,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (gl *GeoIPLocator) RequestPermission(ctx context.Context) (bool, error) {
	return gl.Enabled && gl.URL != "", nil
}

func (gl *GeoIPLocator) CurrentPosition(ctx context.Context, accuracy Accuracy) (Sample, error) {
	if !gl.Enabled {
		return Sample{}, ErrPermissionDenied
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gl.URL, nil)
	if err != nil {
		return Sample{}, fmt.Errorf("CurrentPosition: %v", err)
	}

	resp, err := gl.Client.Do(req)
	if err != nil {
		return Sample{}, fmt.Errorf("CurrentPosition: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Sample{}, fmt.Errorf("CurrentPosition: unexpected status %v", resp.StatusCode)
	}

	body := geoIPResponse{}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Sample{}, fmt.Errorf("CurrentPosition: %v", err)
	}

	if body.Status != "" && body.Status != "success" {
		return Sample{}, fmt.Errorf("CurrentPosition: %w: %v", ErrNoFix, body.Message)
	}

	acc := CITY_ACCURACY_METERS
	return NewSample(body.Lat, body.Lon, time.Now(), &acc), nil
}
