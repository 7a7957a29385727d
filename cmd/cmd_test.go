package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Daskott/raksha/engine/alert"
	"github.com/Daskott/raksha/engine/contacts"
	"github.com/Daskott/raksha/engine/network"
	"github.com/Daskott/raksha/engine/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

type TestDataProvider []struct {
	description string
	args        []string
	expectedOut string
}

// stubSessions points sessionFactory at s for the duration of the test
func stubSessions(t *testing.T, s *session.Session) {
	savedFactory := sessionFactory
	t.Cleanup(func() {
		sessionFactory = savedFactory
	})

	sessionFactory = func(ctx context.Context, opts session.Options) (*session.Session, error) {
		return s, nil
	}
}

func runCases(t *testing.T, newCmd func() *cobra.Command, cases TestDataProvider) {
	buff := new(bytes.Buffer)

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			cmd := newCmd()

			// Clear output buffer before the next test
			buff.Reset()

			cmd.SetOut(buff)
			cmd.SetErr(buff)
			cmd.SetArgs(c.args)

			cmd.Execute()

			actualOut := buff.String()
			if !strings.Contains(actualOut, c.expectedOut) {
				t.Errorf("Expected: \n\"%s\" \nTo contain: \n\"%s\"", actualOut, c.expectedOut)
			}
		})
	}
}

func TestAlertCmd(t *testing.T) {
	s, stubs := session.NewStubbedSession()
	stubSessions(t, s)

	runCases(t, createAlertCmd, TestDataProvider{
		{
			description: "Should NOT send an alert without contacts",
			args:        []string{},
			expectedOut: "No trusted contacts to alert",
		},
	})
	assert.Equal(t, 0, stubs.Channel.SendCount())

	stubs.Contacts.Remote = []contacts.Contact{
		{ID: "c-1", Name: "Asha", Phone: "+919800000001"},
		{ID: "c-2", Name: "Ravi", Phone: "+919800000002"},
	}

	runCases(t, createAlertCmd, TestDataProvider{
		{
			description: "Should send an alert to every contact",
			args:        []string{},
			expectedOut: "SOS sent to 2 contact(s)",
		},
	})
	assert.Equal(t, 1, stubs.Channel.SendCount())

	stubs.Channel.SendErr = errors.New("carrier rejected")
	runCases(t, createAlertCmd, TestDataProvider{
		{
			description: "Should report a failed delivery",
			args:        []string{"--dry-run"},
			expectedOut: reasonMessages[alert.DeliveryFailed],
		},
	})
}

func TestContactsCmd(t *testing.T) {
	s, stubs := session.NewStubbedSession()
	stubSessions(t, s)

	runCases(t, createContactsCmd, TestDataProvider{
		{
			description: "Should list no contacts",
			args:        []string{"list"},
			expectedOut: "No trusted contacts yet",
		},
		{
			description: "Should fail when phone flag is not provided",
			args:        []string{"add", "--name", "Asha"},
			expectedOut: "\"phone\" not set",
		},
		{
			description: "Should NOT add a contact with an invalid phone number",
			args:        []string{"add", "--name", "Asha", "--phone", "call me"},
			expectedOut: "invalid contact",
		},
		{
			description: "Should add a contact",
			args:        []string{"add", "--name", "Asha", "--phone", "+91 98000 00001", "--relationship", "sister"},
			expectedOut: "with id c-1",
		},
		{
			description: "Should list added contacts",
			args:        []string{"list"},
			expectedOut: "1/10 contacts",
		},
		{
			description: "Should NOT edit without any field to update",
			args:        []string{"edit", "c-1"},
			expectedOut: "nothing to update",
		},
		{
			description: "Should edit a contact",
			args:        []string{"edit", "c-1", "--name", "Asha Tai"},
			expectedOut: "Updated Asha Tai",
		},
		{
			description: "Should warn when editing a missing contact",
			args:        []string{"edit", "c-9", "--name", "Nobody"},
			expectedOut: "resource not found",
		},
		{
			description: "Should remove a contact",
			args:        []string{"remove", "c-1"},
			expectedOut: "Removed contact c-1",
		},
	})

	assert.Empty(t, stubs.Contacts.Remote)
}

func TestContactsCmdAtCapacity(t *testing.T) {
	s, stubs := session.NewStubbedSession()
	for i := 0; i < contacts.MAX_CONTACTS; i++ {
		stubs.Contacts.Remote = append(stubs.Contacts.Remote, contacts.Contact{ID: string(rune('a' + i)), Name: "Contact", Phone: "+919800000000"})
	}
	stubSessions(t, s)

	runCases(t, createContactsCmd, TestDataProvider{
		{
			description: "Should NOT add an 11th contact",
			args:        []string{"add", "--name", "Eleventh", "--phone", "+919800000011"},
			expectedOut: contacts.ErrCapacityExceeded.Error(),
		},
	})
	assert.Equal(t, 0, stubs.Contacts.CreateCalls)
}

func TestLocationCmd(t *testing.T) {
	s, stubs := session.NewStubbedSession()
	stubSessions(t, s)

	runCases(t, createLocationCmd, TestDataProvider{
		{
			description: "Should show the current fix",
			args:        []string{"show"},
			expectedOut: "https://maps.google.com/maps?q=19.076,72.8777",
		},
	})

	stubs.Locator.FixErr = errors.New("no gps")
	runCases(t, createLocationCmd, TestDataProvider{
		{
			description: "Should fall back to the last fix",
			args:        []string{"refresh"},
			expectedOut: "using_last",
		},
	})

	fresh, freshStubs := session.NewStubbedSession()
	freshStubs.Locator.Granted = false
	stubSessions(t, fresh)
	runCases(t, createLocationCmd, TestDataProvider{
		{
			description: "Should report an unavailable location",
			args:        []string{"show"},
			expectedOut: "unavailable",
		},
	})
}

func TestNetworkCmd(t *testing.T) {
	s, stubs := session.NewStubbedSession()
	stubSessions(t, s)

	runCases(t, createNetworkCmd, TestDataProvider{
		{
			description: "Should report online",
			args:        []string{},
			expectedOut: "online",
		},
	})

	stubs.Sampler.Set(network.Signal{Connected: false})
	runCases(t, createNetworkCmd, TestDataProvider{
		{
			description: "Should report offline",
			args:        []string{},
			expectedOut: "alerts can't be sent",
		},
	})
}

func TestSettingsCmd(t *testing.T) {
	s, stubs := session.NewStubbedSession()
	stubSessions(t, s)

	runCases(t, createSettingsCmd, TestDataProvider{
		{
			description: "Should show default settings",
			args:        []string{"show"},
			expectedOut: "Language:        en",
		},
		{
			description: "Should NOT update without any flag",
			args:        []string{"set"},
			expectedOut: "nothing to update",
		},
		{
			description: "Should NOT accept an unsupported language",
			args:        []string{"set", "--language", "fr"},
			expectedOut: "invalid settings",
		},
		{
			description: "Should update the language",
			args:        []string{"set", "--language", "hi"},
			expectedOut: "Language:        hi",
		},
		{
			description: "Should update the emergency type",
			args:        []string{"set", "--category", "fire", "--silent"},
			expectedOut: "Silent SOS:      true",
		},
	})

	assert.Len(t, stubs.Settings.Patches, 2)

	stubs.Settings.UpdateErr = errors.New("offline")
	runCases(t, createSettingsCmd, TestDataProvider{
		{
			description: "Should keep a change that wasn't saved remotely",
			args:        []string{"set", "--dark-mode"},
			expectedOut: "not saved to your account yet",
		},
	})
}
