package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountCmds(st *state) []*cobra.Command {
	var password, confirm string

	signup := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create a local account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := st.app.Credentials.Register(cmd.Context(), args[0], password, confirm)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s\n", acc.Email)
			return nil
		},
	}
	signup.Flags().StringVarP(&password, "password", "p", "", "Password")
	signup.Flags().StringVar(&confirm, "confirm", "", "Password again")

	var loginPassword string
	login := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := st.app.Credentials.Login(cmd.Context(), args[0], loginPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", acc.Email)
			return nil
		},
	}
	login.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.app.Credentials.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := st.app.Credentials.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), email)
			return nil
		},
	}

	return []*cobra.Command{signup, login, logout, whoami}
}
