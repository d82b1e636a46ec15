package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoryCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage the categories of a folder",
	}

	add := &cobra.Command{
		Use:   "add <folder> <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			c, err := st.app.Shopping.AddCategory(cmd.Context(), f.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %q to %q\n", c.Name, f.Name)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <folder> <position>",
		Short: "Delete a category and its items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			idx, err := parseIndex("category", args[1])
			if err != nil {
				return err
			}
			c, err := st.app.Shopping.RemoveCategory(cmd.Context(), f.ID, idx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %q (%d items)\n", c.Name, len(c.Items))
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <folder> <position> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			idx, err := parseIndex("category", args[1])
			if err != nil {
				return err
			}
			if err := st.app.Categories.RenameCategory(cmd.Context(), f.ID, idx, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed category %d to %q\n", idx+1, args[2])
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <folder> <position>",
		Short: "Expand or collapse a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			idx, err := parseIndex("category", args[1])
			if err != nil {
				return err
			}
			expanded, err := st.app.Categories.ToggleExpanded(cmd.Context(), f.ID, idx)
			if err != nil {
				return err
			}
			status := "collapsed"
			if expanded {
				status = "expanded"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %d %s\n", idx+1, status)
			return nil
		},
	}

	cmd.AddCommand(add, remove, rename, toggle)
	return cmd
}
