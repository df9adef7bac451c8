package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow sign-ins and sign-outs made by other jot processes",
	Long: `Watch reports changes to the stored session until interrupted. Only the
file backend can be watched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		events, err := c.WatchSession(cmd.Context())
		if errors.Is(err, core.ErrWatchUnsupported) {
			return fmt.Errorf("the %s store cannot be watched: %w", cfg.Store.Backend, err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, describeSession(c.Sessions.Current()))
		for e := range events {
			stamp := time.Unix(e.Timestamp, 0).Format(time.TimeOnly)
			fmt.Fprintf(out, "%s %s\n", stamp, describeSession(c.Sessions.Current()))
		}
		return nil
	},
}

func describeSession(s core.Session, ok bool) string {
	if !ok {
		return "signed out"
	}
	return "signed in as " + s.Profile.Username
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
