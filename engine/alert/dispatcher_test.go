package alert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Daskott/raksha/engine/location"
	"github.com/Daskott/raksha/engine/message"
	"github.com/Daskott/raksha/engine/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRecipients []string

func (sr staticRecipients) PhoneNumbers() []string {
	return sr
}

type staticLocation struct {
	sample *location.Sample
}

func (sl staticLocation) Current() *location.Sample {
	return sl.sample
}

type staticSettings settings.Settings

func (ss staticSettings) Current() settings.Settings {
	return settings.Settings(ss)
}

func phoneNumbers(n int) staticRecipients {
	numbers := staticRecipients{}
	for i := 0; i < n; i++ {
		numbers = append(numbers, fmt.Sprintf("+1555000%04d", i))
	}
	return numbers
}

func TestSendAlertWithNoContacts(t *testing.T) {
	channel := &ChannelStub{IsAvailable: true}
	cues := &CueRecorder{}
	dispatcher := NewDispatcher(phoneNumbers(0), staticLocation{}, staticSettings(settings.Defaults()), channel, cues)

	outcome := dispatcher.SendAlert(context.Background())

	assert.Equal(t, Outcome{Delivered: false, RecipientCount: 0, Reason: NoRecipients}, outcome)
	assert.Equal(t, 0, channel.AvailableCalls, "Should not query delivery channel")
	assert.Equal(t, 0, channel.SendCount(), "Should not call delivery channel")
	assert.Equal(t, []CueKind{CueWarning}, cues.Cues)
}

func TestSendAlertDelivers(t *testing.T) {
	sample := &location.Sample{Latitude: 18.5204, Longitude: 73.8567}

	for n := 1; n <= 10; n++ {
		t.Run(fmt.Sprintf("Should deliver to %v contact(s)", n), func(t *testing.T) {
			channel := &ChannelStub{IsAvailable: true}
			numbers := phoneNumbers(n)
			dispatcher := NewDispatcher(numbers, staticLocation{sample}, staticSettings(settings.Defaults()), channel, nil)

			outcome := dispatcher.SendAlert(context.Background())

			assert.Equal(t, Outcome{Delivered: true, RecipientCount: n}, outcome)
			require.Equal(t, 1, channel.SendCount(), "Should send one batch")
			assert.Equal(t, []string(numbers), channel.Sends[0].Numbers)
			assert.Equal(t,
				message.Compose(message.Medical, sample, message.English),
				channel.Sends[0].Message)
		})
	}
}

func TestSendAlertComposesFromSettings(t *testing.T) {
	channel := &ChannelStub{IsAvailable: true}
	s := settings.Defaults()
	s.Language = message.Marathi
	s.SelectedCategory = message.Threat

	dispatcher := NewDispatcher(phoneNumbers(2), staticLocation{}, staticSettings(s), channel, nil)
	outcome := dispatcher.SendAlert(context.Background())

	assert.True(t, outcome.Delivered)
	assert.Equal(t, message.Compose(message.Threat, nil, message.Marathi), channel.Sends[0].Message)
	assert.Contains(t, channel.Sends[0].Message, message.UnavailableToken(message.Marathi))
}

func TestSendAlertFailures(t *testing.T) {
	cases := []struct {
		description  string
		channel      *ChannelStub
		silent       bool
		expected     Outcome
		expectedCues []CueKind
	}{
		{
			description:  "Should not send when channel is unavailable",
			channel:      &ChannelStub{IsAvailable: false},
			expected:     Outcome{Reason: DeliveryUnavailable},
			expectedCues: []CueKind{CueWarning},
		},
		{
			description:  "Should not send when availability check fails",
			channel:      &ChannelStub{IsAvailable: true, AvailableErr: errors.New("no modem")},
			expected:     Outcome{Reason: DeliveryUnavailable},
			expectedCues: []CueKind{CueWarning},
		},
		{
			description:  "Should swallow delivery error",
			channel:      &ChannelStub{IsAvailable: true, SendErr: errors.New("carrier rejected")},
			expected:     Outcome{Reason: DeliveryFailed},
			expectedCues: []CueKind{CueWarning, CueError},
		},
		{
			description:  "Should not give cues in silent mode",
			channel:      &ChannelStub{IsAvailable: true, SendErr: errors.New("carrier rejected")},
			silent:       true,
			expected:     Outcome{Reason: DeliveryFailed},
			expectedCues: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			s := settings.Defaults()
			s.SilentMode = c.silent
			cues := &CueRecorder{}

			dispatcher := NewDispatcher(phoneNumbers(3), staticLocation{}, staticSettings(s), c.channel, cues)
			outcome := dispatcher.SendAlert(context.Background())

			assert.Equal(t, c.expected, outcome)
			assert.Equal(t, 0, outcome.RecipientCount)
			assert.Equal(t, c.expectedCues, cues.Cues)
		})
	}
}

func TestSendAlertIsSingleFlight(t *testing.T) {
	ctx := context.Background()
	channel := &ChannelStub{IsAvailable: true, Block: make(chan struct{})}
	dispatcher := NewDispatcher(phoneNumbers(2), staticLocation{}, staticSettings(settings.Defaults()), channel, nil)

	first := make(chan Outcome)
	go func() { first <- dispatcher.SendAlert(ctx) }()

	require.Eventually(t, func() bool { return channel.SendCount() == 1 }, time.Second, time.Millisecond)
	assert.True(t, dispatcher.InFlight())

	assert.Equal(t, Outcome{Reason: AlreadyInFlight}, dispatcher.SendAlert(ctx))

	close(channel.Block)
	assert.Equal(t, Outcome{Delivered: true, RecipientCount: 2}, <-first)
	assert.False(t, dispatcher.InFlight())
	assert.Equal(t, 1, channel.SendCount(), "Should not send twice")

	// guard is released once the attempt completes
	assert.True(t, dispatcher.SendAlert(ctx).Delivered)
}

func TestTerminalCue(t *testing.T) {
	out := new(bytes.Buffer)
	cue := TerminalCue{Out: out}

	cue.Notify(context.Background(), CueWarning)
	cue.Notify(context.Background(), CueSuccess)

	assert.Contains(t, out.String(), "Sending SOS...")
	assert.Contains(t, out.String(), "SOS sent")
}
