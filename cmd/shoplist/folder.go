package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shoplist/internal/core"
)

func newFolderCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folder",
		Aliases: []string{"folders"},
		Short:   "Manage folders",
	}

	var description string

	list := &cobra.Command{
		Use:   "list",
		Short: "List folders in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := st.app.Folders.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(folders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No folders yet.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tITEMS\tDESCRIPTION\tID")
			for _, f := range folders {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.ItemCount, f.Description, f.ID)
			}
			return w.Flush()
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.app.Shopping.CreateFolder(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created folder %q (%s)\n", f.Name, f.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "Folder description")

	var newDescription string
	rename := &cobra.Command{
		Use:   "rename <folder> <new-name>",
		Short: "Rename a folder and optionally change its description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			desc := f.Description
			if cmd.Flags().Changed("description") {
				desc = newDescription
			}
			updated, err := st.app.Shopping.RenameFolder(cmd.Context(), f.ID, args[1], desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed folder %q to %q\n", f.Name, updated.Name)
			return nil
		},
	}
	rename.Flags().StringVarP(&newDescription, "description", "d", "", "New description")

	remove := &cobra.Command{
		Use:     "rm <folder>",
		Aliases: []string{"delete"},
		Short:   "Delete a folder with all its categories",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			if err := st.app.Shopping.DeleteFolder(cmd.Context(), f.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %q\n", f.Name)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <folder>",
		Short: "Show the categories and items of a folder with totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			cats, err := st.app.Categories.Load(cmd.Context(), f.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", f.Name)
			if f.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", f.Description)
			}
			printCategories(cmd, cats)
			total := core.SummarizeAll(f.Name, cats)
			fmt.Fprintf(cmd.OutOrStdout(), "\nFolder total: %s (tax %s)\n",
				core.FormatAmount(total.Total), core.FormatAmount(total.Tax))
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Replace an unreadable folder list with an empty one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.app.Folders.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Folder list reset.")
			return nil
		},
	}

	cmd.AddCommand(list, add, rename, remove, show, reset)
	return cmd
}

// printCategories renders categories with 1-based positions.
func printCategories(cmd *cobra.Command, cats []core.Category) {
	out := cmd.OutOrStdout()
	if len(cats) == 0 {
		fmt.Fprintln(out, "  (no categories)")
		return
	}
	for i, c := range cats {
		marker := "+"
		if c.IsExpanded {
			marker = "-"
		}
		fmt.Fprintf(out, "%s %d. %s  total %s  tax %s\n", marker, i+1, c.Name,
			core.FormatAmount(c.TotalPrice()), core.FormatAmount(c.TotalTax()))
		if !c.IsExpanded {
			continue
		}
		for j, it := range c.Items {
			fmt.Fprintf(out, "    %d. %s [%s] %s + %s = %s\n", j+1, it.Name, it.Category,
				core.FormatAmount(it.Price), core.FormatAmount(it.TaxAmount()), core.FormatAmount(it.TotalPrice()))
		}
	}
}
