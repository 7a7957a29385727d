package cmd

import (
	"github.com/Daskott/raksha/colors"
	"github.com/Daskott/raksha/engine/alert"
	"github.com/Daskott/raksha/engine/session"
	"github.com/spf13/cobra"
)

var reasonMessages = map[alert.Reason]string{
	alert.NoRecipients:        "No trusted contacts to alert. Add one with 'raksha contacts add'",
	alert.DeliveryUnavailable: "SMS is not available right now",
	alert.DeliveryFailed:      "Sending the SOS failed, please try again",
	alert.AlreadyInFlight:     "An SOS is already being sent",
}

func createAlertCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Send an SOS text with your location to all trusted contacts",
		Long: `Send an SOS text to all trusted contacts. The text is written in your
preferred language & includes a map link to your last known location, when there's one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, session.Options{
				DryRun: dryRun,
				Cue:    alert.TerminalCue{Out: cmd.OutOrStderr()},
			})
			if err != nil {
				return err
			}
			defer s.Close()

			outcome := s.Dispatcher.SendAlert(commandContext(cmd))
			if outcome.Delivered {
				cmd.Printf("%s SOS sent to %v contact(s)\n", colors.Green("✔"), outcome.RecipientCount)
				return nil
			}

			cmd.Printf("%s %s\n", colors.Red("✘"), reasonMessages[outcome.Reason])
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the SOS text instead of sending it")

	return cmd
}
