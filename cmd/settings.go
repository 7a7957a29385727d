package cmd

import (
	"errors"

	"github.com/Daskott/raksha/colors"
	"github.com/Daskott/raksha/engine/message"
	"github.com/Daskott/raksha/engine/session"
	"github.com/Daskott/raksha/engine/settings"
	"github.com/spf13/cobra"
)

func createSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change your SOS settings",
	}

	cmd.AddCommand(createSettingsShowCmd(), createSettingsSetCmd())
	return cmd
}

func createSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer s.Close()

			printSettings(cmd, s.Settings)
			return nil
		},
	}
}

func createSettingsSetCmd() *cobra.Command {
	var (
		language, category                             string
		darkMode, fakeCall, silent, siren, powerSaving bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Example: `  raksha settings set --language hi
  raksha settings set --category fire --silent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			patch := settings.Patch{}

			if flags.Changed("language") {
				lang := message.Language(language)
				patch.Language = &lang
			}
			if flags.Changed("category") {
				cat := message.Category(category)
				patch.SelectedCategory = &cat
			}
			if flags.Changed("dark-mode") {
				patch.DarkMode = &darkMode
			}
			if flags.Changed("fake-call") {
				patch.FakeCallEnabled = &fakeCall
			}
			if flags.Changed("silent") {
				patch.SilentMode = &silent
			}
			if flags.Changed("siren") {
				patch.SirenEnabled = &siren
			}
			if flags.Changed("power-saving") {
				patch.PowerSaving = &powerSaving
			}

			if patch.IsEmpty() {
				return errors.New("nothing to update, see 'raksha settings set --help'")
			}

			s, err := startSession(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer s.Close()

			_, err = s.Settings.Update(commandContext(cmd), patch)
			if errors.Is(err, settings.ErrInvalidSettings) {
				return err
			}
			if err != nil {
				cmd.Printf("%s %v\n", warningLabel, err)
			}

			printSettings(cmd, s.Settings)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the SOS text: en, hi or mr")
	cmd.Flags().StringVarP(&category, "category", "c", "", "emergency type: medical, fire, police, threat or disaster")
	cmd.Flags().BoolVar(&darkMode, "dark-mode", false, "use the dark theme")
	cmd.Flags().BoolVar(&fakeCall, "fake-call", false, "enable fake incoming calls")
	cmd.Flags().BoolVar(&silent, "silent", false, "send alerts without sound or bell")
	cmd.Flags().BoolVar(&siren, "siren", true, "play the siren while alerting")
	cmd.Flags().BoolVar(&powerSaving, "power-saving", false, "refresh location less often")

	return cmd
}

func printSettings(cmd *cobra.Command, manager *settings.Manager) {
	current := manager.Current()

	cmd.Printf("Language:        %v\n", current.Language)
	cmd.Printf("Emergency type:  %v (%v)\n", current.SelectedCategory, message.CategoryLabel(current.SelectedCategory, current.Language))
	cmd.Printf("Silent SOS:      %v\n", current.SilentMode)
	cmd.Printf("Siren:           %v\n", current.SirenEnabled)
	cmd.Printf("Fake call:       %v\n", current.FakeCallEnabled)
	cmd.Printf("Power saving:    %v\n", current.PowerSaving)
	cmd.Printf("Dark mode:       %v\n", current.DarkMode)

	if manager.Pending() {
		cmd.Printf("%s\n", colors.Yellow("Some changes are not saved to your account yet"))
	}
}
