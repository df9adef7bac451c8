package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/core"
)

var (
	addTitle string
	addItems []string

	editTitle  string
	editItems  []string
	editAppend []string
	editRemove []int

	deleteYes bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Example: `  jot add --title Groceries --item milk --item eggs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		c.Staging.StartNew()
		saved, err := c.Submit(cmd.Context(), core.Draft{Title: addTitle, Items: addItems})
		return reportSaved(cmd, saved, err)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change the title or items of a note",
	Example: `  jot edit 3 --append butter
  jot edit 3 --remove 1 --title "Weekend shopping"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

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
		note, ok := c.Notes.Find(id)
		if !ok {
			return fmt.Errorf("note #%d: %w", id, core.ErrNotFound)
		}
		c.Staging.Set(&note)

		d, err := applyEdits(note.Draft())
		if err != nil {
			c.Staging.Clear()
			return err
		}
		saved, err := c.Submit(cmd.Context(), d)
		return reportSaved(cmd, saved, err)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if !deleteYes {
			ok, err := confirm(cmd, fmt.Sprintf("Delete note #%d?", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}

		c, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		msg, err := c.Remove(cmd.Context(), id)
		if err != nil && msg == "" {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		if err != nil {
			logger.Warn("note deleted but the list could not be reloaded", "error", err)
		}
		return nil
	},
}

// applyEdits layers the edit flags over d: --item replaces every item,
// --remove drops 1-based positions, --append adds at the end.
func applyEdits(d core.Draft) (core.Draft, error) {
	if editTitle != "" {
		d.Title = editTitle
	}
	if len(editItems) > 0 {
		d.Items = slices.Clone(editItems)
	}

	if len(editRemove) > 0 {
		drop := make(map[int]bool, len(editRemove))
		for _, pos := range editRemove {
			if pos < 1 || pos > len(d.Items) {
				return d, &core.ValidationError{Field: "remove", Reason: fmt.Sprintf("position %d is out of range 1..%d", pos, len(d.Items))}
			}
			drop[pos-1] = true
		}
		kept := d.Items[:0:0]
		for i, item := range d.Items {
			if !drop[i] {
				kept = append(kept, item)
			}
		}
		d.Items = kept
	}

	d.Items = append(d.Items, editAppend...)
	return d, nil
}

func reportSaved(cmd *cobra.Command, saved jot.Note, err error) error {
	if err != nil && !errors.Is(err, core.ErrRefreshAfterSave) {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved note #%d %s\n", saved.ID, saved.Title)
	if err != nil {
		logger.Warn("note saved but the list could not be reloaded", "error", err)
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a note id", raw)}
	}
	return id, nil
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	addCmd.Flags().StringArrayVar(&addItems, "item", nil, "Note item (repeatable)")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringArrayVar(&editItems, "item", nil, "Replace all items (repeatable)")
	editCmd.Flags().StringArrayVar(&editAppend, "append", nil, "Append an item (repeatable)")
	editCmd.Flags().IntSliceVar(&editRemove, "remove", nil, "Remove the item at a 1-based position (repeatable)")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(addCmd, editCmd, deleteCmd)
}
