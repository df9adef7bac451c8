package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/internal/config"
	"github.com/aretw0/jot/pkg/core"
)

var (
	loginPassword    string
	registerPassword string
	registerConfirm  string
	whoamiRemote     bool
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Sign in and keep the session on this machine",
	Long: `Login exchanges a username and password for a token and stores it in the
configured credential store. The password is read from --password, then
JOT_PASSWORD, then a hidden prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := username(cmd, args)
		if err != nil {
			return err
		}
		pass, err := password(cmd, loginPassword, "Password: ")
		if err != nil {
			return err
		}

		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		s, err := c.Sessions.SignIn(cmd.Context(), user, pass)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", s.Profile.Username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account and sign in",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := username(cmd, args)
		if err != nil {
			return err
		}
		pass, err := password(cmd, registerPassword, "Password: ")
		if err != nil {
			return err
		}

		again := registerConfirm
		switch {
		case again != "":
		case registerPassword != "" || os.Getenv(config.EnvPassword) != "":
			again = pass
		default:
			if again, err = promptSecret(cmd, "Confirm password: "); err != nil {
				return err
			}
		}

		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		s, err := c.Sessions.SignUpConfirm(cmd.Context(), user, pass, again)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account created, signed in as %s\n", s.Profile.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		c.Sessions.SignOut(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		s, ok := c.Sessions.Current()
		if !ok {
			return errors.New("not signed in")
		}
		name := s.Profile.Username

		if whoamiRemote {
			p, err := c.Whoami(cmd.Context())
			if errors.Is(err, core.ErrUnauthorized) {
				return fmt.Errorf("session for %s was rejected by the server, sign in again: %w", name, err)
			}
			if err != nil {
				return err
			}
			name = p.Username
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prefer the prompt or JOT_PASSWORD)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prefer the prompt or JOT_PASSWORD)")
	registerCmd.Flags().StringVar(&registerConfirm, "confirm", "", "Password confirmation (defaults to --password)")
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Ask the server instead of reading the local session")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
