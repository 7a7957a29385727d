package twilio

import (
	"context"
	"fmt"

	"github.com/Daskott/raksha/engine/logger"
	"github.com/Daskott/raksha/shared"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/multierr"
)

var logg = logger.NewLogger().Named("twilio")

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Channel delivers SOS messages as SMS through Twilio
type Channel struct {
	messages messageCreator
	config   shared.TwilioConfig
	devMode  bool
}

// NewChannel creates a Twilio backed channel. In devMode messages are only logged.
func NewChannel(config shared.TwilioConfig, devMode bool) *Channel {
	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})

	return &Channel{
		messages: client.ApiV2010,
		config:   config,
		devMode:  devMode,
	}
}

// Available is true once credentials & a sender (messaging service or number) are configured
func (c *Channel) Available(ctx context.Context) (bool, error) {
	if c.devMode {
		return true, nil
	}

	hasCredentials := c.config.AccountSid != "" && c.config.AuthToken != ""
	hasSender := c.config.MessagingServiceSid != "" || c.config.From != ""

	return hasCredentials && hasSender, nil
}

// SendText sends message to each number. Every number is attempted, the
// batch fails if any of them failed.
func (c *Channel) SendText(ctx context.Context, numbers []string, message string) error {
	var errs error

	for _, to := range numbers {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		if err := c.sendMessage(to, message); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("SendText(%v): %v", to, err))
		}
	}

	return errs
}

func (c *Channel) sendMessage(to, msg string) error {
	if c.devMode {
		logg.Infof("to=%v message=%q", to, msg)
		return nil
	}

	params := &openapi.CreateMessageParams{}
	if c.config.MessagingServiceSid != "" {
		params.SetMessagingServiceSid(c.config.MessagingServiceSid)
	} else {
		params.SetFrom(c.config.From)
	}
	params.SetTo(to)
	params.SetBody(msg)

	resp, err := c.messages.CreateMessage(params)
	if err != nil {
		return err
	}

	if resp != nil && resp.ErrorMessage != nil {
		return fmt.Errorf("%v", *resp.ErrorMessage)
	}

	if resp != nil && resp.Sid != nil {
		logg.Debugf("Message %v queued for %v", *resp.Sid, to)
	}

	return nil
}
