package location

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

var ErrCorruptSample = errors.New("persisted location is corrupt")

type Status string

const (
	Loading     Status = "loading"
	Ready       Status = "ready"
	UsingLast   Status = "using_last"
	Unavailable Status = "unavailable"
)

// Accuracy is the fix quality requested from a Locator
type Accuracy int

const (
	AccuracyLow Accuracy = iota
	AccuracyBalanced
	AccuracyHigh
)

func (a Accuracy) String() string {
	switch a {
	case AccuracyLow:
		return "low"
	case AccuracyHigh:
		return "high"
	default:
		return "balanced"
	}
}

// Sample is a single position fix. Treat it as immutable, the tracker only
// ever hands out copies.
type Sample struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	CapturedAt int64    `json:"timestamp"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
}

func NewSample(latitude, longitude float64, capturedAt time.Time, accuracy *float64) Sample {
	sample := Sample{
		Latitude:   latitude,
		Longitude:  longitude,
		CapturedAt: capturedAt.UnixMilli(),
	}

	if accuracy != nil {
		acc := *accuracy
		sample.Accuracy = &acc
	}

	return sample
}

// Time returns the capture time of the sample
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.CapturedAt)
}

func (s Sample) copy() *Sample {
	c := s
	if s.Accuracy != nil {
		acc := *s.Accuracy
		c.Accuracy = &acc
	}
	return &c
}

func encodeSample(s Sample) ([]byte, error) {
	return json.Marshal(s)
}

func decodeSample(data []byte) (*Sample, error) {
	sample := Sample{}
	if err := json.Unmarshal(data, &sample); err != nil {
		return nil, errors.Wrap(ErrCorruptSample, err.Error())
	}

	if sample.CapturedAt == 0 {
		return nil, ErrCorruptSample
	}

	return &sample, nil
}
