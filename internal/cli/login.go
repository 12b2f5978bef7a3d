package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) loginCommand() *cobra.Command {
	var phone string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if phone == "" {
				if phone, err = a.prompt("Phone"); err != nil {
					return err
				}
			}
			pw, err := a.password()
			if err != nil {
				return err
			}

			api := a.api()
			resp, err := api.Login(cmd.Context(), phone, pw)
			if err != nil {
				return err
			}

			a.v.Set("token", resp.Token)
			if err := a.saveConfig(); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			a.printf("Signed in as %s (%s, %s)\n", resp.User.Name, resp.User.Role, resp.User.OrgID)
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "login phone number")
	return cmd
}
