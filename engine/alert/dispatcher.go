package alert

import (
	"context"

	"github.com/Daskott/raksha/engine/location"
	"github.com/Daskott/raksha/engine/logger"
	"github.com/Daskott/raksha/engine/message"
	"github.com/Daskott/raksha/engine/settings"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Reason says why an attempt wasn't delivered
type Reason string

const (
	NoRecipients        Reason = "no_recipients"
	DeliveryUnavailable Reason = "delivery_unavailable"
	DeliveryFailed      Reason = "delivery_failed"
	AlreadyInFlight     Reason = "already_in_flight"
)

var logg = logger.NewLogger().Named("alert")

// Outcome is the result of one alert attempt
type Outcome struct {
	Delivered      bool   `json:"delivered"`
	RecipientCount int    `json:"recipientCount"`
	Reason         Reason `json:"reason,omitempty"`
}

// Recipients provides the phone numbers to alert
type Recipients interface {
	PhoneNumbers() []string
}

// Locations provides the last known position, nil when there's none
type Locations interface {
	Current() *location.Sample
}

// SettingsProvider provides the session's current settings
type SettingsProvider interface {
	Current() settings.Settings
}

// Dispatcher sends the SOS message to all trusted contacts
type Dispatcher struct {
	recipients Recipients
	locations  Locations
	settings   SettingsProvider
	channel    Channel
	cue        Cue

	inFlight *atomic.Bool
}

func NewDispatcher(recipients Recipients, locations Locations, settings SettingsProvider, channel Channel, cue Cue) *Dispatcher {
	if cue == nil {
		cue = NopCue{}
	}

	return &Dispatcher{
		recipients: recipients,
		locations:  locations,
		settings:   settings,
		channel:    channel,
		cue:        cue,
		inFlight:   atomic.NewBool(false),
	}
}

// SendAlert makes one attempt to deliver the SOS message. It never returns an
// error, a failed attempt is an Outcome with Delivered=false.
//
// Only one attempt runs at a time, a call made while another is in flight
// returns straight away with AlreadyInFlight.
func (d *Dispatcher) SendAlert(ctx context.Context) Outcome {
	if !d.inFlight.CAS(false, true) {
		logg.Warn("SOS already being sent, ignoring request")
		return Outcome{Reason: AlreadyInFlight}
	}
	defer d.inFlight.Store(false)

	attemptID := uuid.New().String()
	current := d.settings.Current()

	if !current.SilentMode {
		d.cue.Notify(ctx, CueWarning)
	}

	numbers := d.recipients.PhoneNumbers()
	if len(numbers) == 0 {
		logg.Infof("[%v] no contacts to alert", attemptID)
		return Outcome{Reason: NoRecipients}
	}

	text := message.Compose(current.SelectedCategory, d.locations.Current(), current.Language)

	available, err := d.channel.Available(ctx)
	if err != nil {
		logg.Errorf("[%v] error checking delivery channel: %v", attemptID, err)
	}
	if err != nil || !available {
		logg.Warnf("[%v] delivery channel unavailable", attemptID)
		return Outcome{Reason: DeliveryUnavailable}
	}

	if err = d.channel.SendText(ctx, numbers, text); err != nil {
		logg.Errorf("[%v] error sending SOS: %v", attemptID, err)
		if !current.SilentMode {
			d.cue.Notify(ctx, CueError)
		}
		return Outcome{Reason: DeliveryFailed}
	}

	if !current.SilentMode {
		d.cue.Notify(ctx, CueSuccess)
	}

	logg.Infof("[%v] SOS sent to %v contact(s)", attemptID, len(numbers))
	return Outcome{Delivered: true, RecipientCount: len(numbers)}
}

// InFlight reports whether an attempt is currently running
func (d *Dispatcher) InFlight() bool {
	return d.inFlight.Load()
}
