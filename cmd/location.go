package cmd

import (
	"time"

	"github.com/Daskott/raksha/colors"
	"github.com/Daskott/raksha/engine/location"
	"github.com/Daskott/raksha/engine/message"
	"github.com/Daskott/raksha/engine/session"
	"github.com/spf13/cobra"
)

func createLocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Show or refresh the location used in SOS texts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the last known location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLocation(cmd, false)
			},
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Get a new location fix",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLocation(cmd, true)
			},
		},
	)

	return cmd
}

func runLocation(cmd *cobra.Command, refresh bool) error {
	s, err := startSession(cmd, session.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	if refresh {
		s.Tracker.Refresh(commandContext(cmd))
	}

	printLocation(cmd, s.Tracker)
	return nil
}

func printLocation(cmd *cobra.Command, tracker *location.Tracker) {
	status, sample := tracker.Snapshot()
	cmd.Printf("Status: %v\n", colors.ForStatus(string(status)))

	if sample == nil {
		return
	}

	cmd.Printf("Location: %v\n", message.MapsLink(*sample))
	cmd.Printf("Captured: %v\n", sample.Time().Format(time.RFC1123))
	if sample.Accuracy != nil {
		cmd.Printf("Accuracy: ±%.0fm\n", *sample.Accuracy)
	}
}
