package cmd

import (
	"github.com/Daskott/raksha/colors"
	"github.com/Daskott/raksha/engine/network"
	"github.com/Daskott/raksha/engine/session"
	"github.com/spf13/cobra"
)

var networkHints = map[network.Status]string{
	network.Online:  "Alerts go out as SMS, contacts & settings sync with your account",
	network.SmsOnly: "No internet, alerts still go out as SMS",
	network.Offline: "No connection, alerts can't be sent until the device reconnects",
}

func createNetworkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Show how alerts can be delivered on the current connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer s.Close()

			status := s.SampleNetwork(commandContext(cmd))
			cmd.Printf("Network: %v\n", colors.ForStatus(string(status)))
			cmd.Println(networkHints[status])
			return nil
		},
	}
}
