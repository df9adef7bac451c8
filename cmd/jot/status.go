package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/adapters/credstore"
	"github.com/aretw0/jot/pkg/core"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the client state: API, session and credential store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		st := c.State().(jot.ClientState)
		if statusJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(st)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "api:      %s\n", st.APIURL)
		if s, ok := st.Session.(core.SessionState); ok {
			who := "signed out"
			if s.Authenticated {
				who = "signed in as " + s.Username
			}
			fmt.Fprintf(out, "session:  %s\n", who)
		}
		if s, ok := st.Store.(credstore.StoreState); ok {
			fmt.Fprintf(out, "store:    %s", s.Backend)
			if s.Location != "" {
				fmt.Fprintf(out, " (%s)", s.Location)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
}
