/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/Daskott/raksha/colors"
	"github.com/Daskott/raksha/engine/logger"
	"github.com/Daskott/raksha/engine/session"
	"github.com/Daskott/raksha/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile  string
	isDevEnv bool
	quiet    bool
	noColor  bool

	warningLabel = colors.Yellow("Warning:")

	// sessionFactory builds the session a command runs against
	sessionFactory = newSession
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initOutput)

	rootCmd = createRootCmd()
	rootCmd.Version = fmt.Sprintf("v%s", version.Version)

	rootCmd.AddCommand(
		createAlertCmd(),
		createContactsCmd(),
		createLocationCmd(),
		createNetworkCmd(),
		createSettingsCmd(),
		createServerCmd(),
	)
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "raksha",
		Short: `raksha sends an SOS text, with your last known location,
to up to 10 trusted contacts.

It keeps working when the data connection is gone: the last location fix is
kept in an encrypted local store & alerts go out as SMS.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.raksha.yaml)")
	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings & errors")
	cmd.PersistentFlags().BoolVarP(&noColor, "no-color", "", false, "disable colored output")

	return cmd
}

func initOutput() {
	if quiet {
		logger.SetLevel(zapcore.WarnLevel)
	}

	if noColor {
		colors.Disable()
	}
}

// startSession builds the session for cmd & restores its state. Start up
// failures (e.g. remote service unreachable) are printed as warnings only.
func startSession(cmd *cobra.Command, opts session.Options) (*session.Session, error) {
	ctx := commandContext(cmd)

	s, err := sessionFactory(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := s.Start(ctx); err != nil {
		cmd.Printf("%s %v\n", warningLabel, err)
	}

	return s, nil
}

func newSession(ctx context.Context, opts session.Options) (*session.Session, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts.DevMode = isDevEnv
	return session.New(ctx, config, opts)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd.Context() == nil {
		return context.Background()
	}
	return cmd.Context()
}
