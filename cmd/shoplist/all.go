package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shoplist/internal/core"
	"shoplist/internal/views"
)

func newAllCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Show the categories of every folder in one list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := st.app.View.BuildConsolidatedList(cmd.Context())
			if err != nil {
				return err
			}
			cats := views.Categories(entries)
			printCategories(cmd, cats)
			total := core.SummarizeAll("all", cats)
			fmt.Fprintf(cmd.OutOrStdout(), "\nGrand total: %s (tax %s, %d items)\n",
				core.FormatAmount(total.Total), core.FormatAmount(total.Tax), total.Items)
			return nil
		},
	}
}

func newExportCmd(st *state) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the consolidated list as XLSX or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			switch format {
			case "xlsx":
				data, err = st.app.Export.XLSX(cmd.Context())
			case "yaml", "yml":
				data, err = st.app.Export.YAML(cmd.Context())
			default:
				return fmt.Errorf("%w: unknown export format %q", core.ErrInvalidInput, format)
			}
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Export format: xlsx or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file; stdout when empty")
	return cmd
}

func newPruneCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete stored categories whose folder no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := st.app.Shopping.PruneOrphans(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d category lists\n", n)
			return nil
		},
	}
}
