package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shoplist/internal/core"
)

func newItemCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add or remove items",
	}

	var label string
	add := &cobra.Command{
		Use:   "add <folder> <category-position> <name> <price>",
		Short: "Add an item; the label decides the tax rate",
		Example: `  shoplist item add Weekly 1 Milk 4.50 --label Food
  shoplist item add Weekly 2 "Dish soap" 3,99 --label Cleaning`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			idx, err := parseIndex("category", args[1])
			if err != nil {
				return err
			}
			it, err := st.app.Shopping.AddItemFromInput(cmd.Context(), f.ID, idx, args[2], args[3], label)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s + %s tax = %s\n", it.Name,
				core.FormatAmount(it.Price), core.FormatAmount(it.TaxAmount()), core.FormatAmount(it.TotalPrice()))
			return nil
		},
	}
	add.Flags().StringVarP(&label, "label", "l", core.LabelOther, "Item label (Food, Medication, Cleaning, Other)")

	remove := &cobra.Command{
		Use:   "rm <folder> <category-position> <item-position>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := st.resolveFolder(cmd, args[0])
			if err != nil {
				return err
			}
			catIdx, err := parseIndex("category", args[1])
			if err != nil {
				return err
			}
			itemIdx, err := parseIndex("item", args[2])
			if err != nil {
				return err
			}
			it, err := st.app.Shopping.RemoveItem(cmd.Context(), f.ID, catIdx, itemIdx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %q\n", it.Name)
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List item labels and their tax rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, l := range core.Labels() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s%%\n", l, core.TaxRate(l).Shift(2).String())
			}
			return nil
		},
	}
}
