package cmd

import (
	"github.com/Daskott/raksha/engine/session"
	"github.com/Daskott/raksha/server"
	"github.com/spf13/cobra"
)

func createServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start a local raksha server",
		Long: `The raksha server exposes the engine over a local JSON API & runs the
scheduled jobs i.e. location refresh, contacts sync & encrypted store backups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			s, err := session.New(ctx, config, session.Options{DevMode: isDevEnv})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Start(ctx); err != nil {
				cmd.Printf("%s %v\n", warningLabel, err)
			}

			return server.Start(s, config)
		},
	}
}
