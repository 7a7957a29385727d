package cmd

import (
	"fmt"

	"github.com/Daskott/raksha/colors"
	"github.com/Daskott/raksha/engine/contacts"
	"github.com/Daskott/raksha/engine/session"
	"github.com/spf13/cobra"
)

func createContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the trusted contacts who receive your SOS",
		Long:  fmt.Sprintf("Manage the trusted contacts who receive your SOS, up to a max of %v", contacts.MAX_CONTACTS),
	}

	cmd.AddCommand(
		createContactsListCmd(),
		createContactsAddCmd(),
		createContactsEditCmd(),
		createContactsRemoveCmd(),
	)

	return cmd
}

func createContactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trusted contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer s.Close()

			printContacts(cmd, s.Contacts.Contacts())
			return nil
		},
	}
}

func createContactsAddCmd() *cobra.Command {
	var name, phone, relationship string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a trusted contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer s.Close()

			draft := contacts.Draft{Name: name, Phone: phone}
			if cmd.Flags().Changed("relationship") {
				draft.Relationship = &relationship
			}

			contact, err := s.Contacts.Add(commandContext(cmd), draft)
			if err != nil {
				cmd.Printf("%s %v\n", warningLabel, err)
				return nil
			}

			cmd.Printf("Added %v (%v) with id %v\n", colors.Bold(contact.Name), contact.Phone, contact.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "contact's name")
	cmd.Flags().StringVarP(&phone, "phone", "p", "", "contact's phone number e.g. +91 98765 43210")
	cmd.Flags().StringVarP(&relationship, "relationship", "r", "", "how you know the contact e.g. sister")

	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("phone")

	return cmd
}

func createContactsEditCmd() *cobra.Command {
	var name, phone, relationship string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a trusted contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := contacts.Patch{}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				patch.Phone = &phone
			}
			if cmd.Flags().Changed("relationship") {
				patch.Relationship = &relationship
			}

			if patch.Name == nil && patch.Phone == nil && patch.Relationship == nil {
				return fmt.Errorf("nothing to update, set at least one of --name, --phone or --relationship")
			}

			s, err := startSession(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer s.Close()

			contact, err := s.Contacts.Edit(commandContext(cmd), args[0], patch)
			if err != nil {
				cmd.Printf("%s %v\n", warningLabel, err)
				return nil
			}

			cmd.Printf("Updated %v (%v)\n", colors.Bold(contact.Name), contact.Phone)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "contact's name")
	cmd.Flags().StringVarP(&phone, "phone", "p", "", "contact's phone number")
	cmd.Flags().StringVarP(&relationship, "relationship", "r", "", "how you know the contact")

	return cmd
}

func createContactsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a trusted contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Contacts.Remove(commandContext(cmd), args[0]); err != nil {
				cmd.Printf("%s %v\n", warningLabel, err)
				return nil
			}

			cmd.Printf("Removed contact %v\n", args[0])
			return nil
		},
	}
}

func printContacts(cmd *cobra.Command, list []contacts.Contact) {
	if len(list) == 0 {
		cmd.Println("No trusted contacts yet")
		return
	}

	for i, contact := range list {
		relationship := ""
		if contact.Relationship != nil && *contact.Relationship != "" {
			relationship = fmt.Sprintf(" [%v]", *contact.Relationship)
		}
		cmd.Printf("%2d. %-20s %-16s%s  %s\n", i+1, contact.Name, contact.Phone, relationship, colors.Blue(contact.ID))
	}
	cmd.Printf("%v/%v contacts\n", len(list), contacts.MAX_CONTACTS)
}
