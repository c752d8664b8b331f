package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/eldlog/internal/config"
	"github.com/faizmokh/eldlog/internal/files"
	"github.com/faizmokh/eldlog/internal/logging"
	"github.com/faizmokh/eldlog/internal/ui"
	"github.com/faizmokh/eldlog/internal/version"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	e := newEnv(ctx, manager)

	var (
		configFlag   string
		logLevelFlag string
		logCloser    io.Closer
	)

	cmd := &cobra.Command{
		Use:     "eldlog",
		Short:   "Keep a driver's record of duty status from your terminal.",
		Version: version.Info(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, optional := configFlag, false
			if path == "" {
				path, optional = config.DefaultPath(manager.BasePath()), true
			}
			cfg, err := config.Load(path, optional)
			if err != nil {
				return err
			}
			if logLevelFlag != "" {
				cfg.Log.Level = logLevelFlag
			}

			logger, closer, err := logging.New(cfg.Log, "cli", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logCloser = closer
			logger.Debug().Str("home", manager.BasePath()).Str("cycle", cfg.Cycle).Msg("config loaded")

			e.cfg = cfg
			e.ctx = logging.Attach(ctx, logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := ui.NewModel(e.ctx, manager, ui.WithConfig(e.cfg))
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(e.ctx)).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: <home>/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newStatusCommand(e),
		newEndCommand(e),
		newLogCommand(e),
		newEditCommand(e),
		newDeleteCommand(e),
		newMilesCommand(e),
		newRouteCommand(e),
		newTodayCommand(e),
		newPrevCommand(e),
		newNextCommand(e),
		newJumpCommand(e),
		newListCommand(e),
		newSearchCommand(e),
		newGridCommand(e),
		newSheetCommand(e),
		newRecapCommand(e),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "eldlog %s\n", version.Info())
			return nil
		},
	}
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	cmd := NewRootCommand(ctx, manager)
	return cmd.ExecuteContext(ctx)
}

// Main is a helper used by cmd/eldlog/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
