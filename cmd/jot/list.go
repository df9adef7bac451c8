package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/core"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		if _, ok := c.Sessions.Current(); !ok {
			return core.ErrNotAuthenticated
		}
		if err := c.Notes.Refresh(cmd.Context()); err != nil {
			return err
		}

		notes := c.Notes.Notes()
		if listMatch != "" {
			if notes, err = c.Notes.Filter(listMatch); err != nil {
				return err
			}
		}
		if notes == nil {
			notes = []core.Note{}
		}

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(notes)
		}

		if len(notes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No notes yet.")
			return nil
		}
		for _, n := range notes {
			printNote(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func printNote(w io.Writer, n core.Note) {
	fmt.Fprintf(w, "#%d %s\n", n.ID, n.Title)
	for i, text := range n.Texts() {
		fmt.Fprintf(w, "  %d. %s\n", i+1, text)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only show notes whose title matches a glob (e.g. 'Shop*')")
}
