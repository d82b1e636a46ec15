package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shoplist/internal/backend"
	"shoplist/internal/cli"
	"shoplist/internal/config"
	"shoplist/internal/core"
	applog "shoplist/internal/log"
)

// state is shared by all subcommands of one invocation.
type state struct {
	verbose bool
	backend string
	dbPath  string

	logger *applog.Logger
	store  *backend.BackendResult
	app    *cli.App
}

// newRootCmd builds the command tree. The returned func closes the store
// opened by the invocation, whether or not the command failed.
func newRootCmd() (*cobra.Command, func() error) {
	st := &state{}

	root := &cobra.Command{
		Use:           "shoplist",
		Short:         "Organize shopping lists into folders and categories",
		Long:          `shoplist keeps shopping lists in a local store: folders hold categories, categories hold priced items, and totals include sales tax.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.open(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&st.backend, "backend", "",
		fmt.Sprintf("Storage backend (%s); overrides DATA_BACKEND", strings.Join(backend.GetBackendTypeStrings(), ", ")))
	root.PersistentFlags().StringVar(&st.dbPath, "db", "", "SQLite database path; overrides SQLITE_DB_PATH")

	root.AddCommand(
		newFolderCmd(st),
		newCategoryCmd(st),
		newItemCmd(st),
		newAllCmd(st),
		newExportCmd(st),
		newPruneCmd(st),
		newLabelsCmd(),
	)
	root.AddCommand(newAccountCmds(st)...)
	return root, st.close
}

func (st *state) open(cmd *cobra.Command) error {
	cli.LoadEnvFile()

	level := os.Getenv("LOG_LEVEL")
	if st.verbose {
		level = "debug"
	}
	st.logger = cli.SetupLogger(level)

	cfg, err := cli.LoadAndValidateConfig(st.logger, st.applyFlags)
	if err != nil {
		return err
	}

	ctx := applog.NewContext(cmd.Context(), st.logger)
	cmd.SetContext(ctx)

	st.store, err = cli.InitStore(ctx, st.logger, cfg)
	if err != nil {
		return err
	}
	st.app = cli.NewApp(st.store.Store, st.logger)
	st.logger.Debug("Store ready",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, cfg.DataBackend)
	return nil
}

// applyFlags lets --backend, --db and --verbose win over the environment.
func (st *state) applyFlags(cfg *config.Config) {
	if st.backend != "" {
		cfg.DataBackend = st.backend
	}
	if st.dbPath != "" {
		cfg.SQLiteDBPath = st.dbPath
	}
	if st.verbose {
		cfg.LogLevel = "debug"
	}
}

func (st *state) close() error {
	if st.store == nil {
		return nil
	}
	err := st.store.Close()
	st.store = nil
	return err
}

// resolveFolder accepts a folder id or name.
func (st *state) resolveFolder(cmd *cobra.Command, ref string) (core.Folder, error) {
	ctx := cmd.Context()
	if f, err := st.app.Folders.Get(ctx, ref); err == nil {
		return f, nil
	}
	return st.app.Folders.FindByName(ctx, ref)
}

// parseIndex converts a 1-based position from the command line.
func parseIndex(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s position must be a number starting at 1, got %q", core.ErrInvalidInput, what, s)
	}
	return n - 1, nil
}
