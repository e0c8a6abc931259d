// Command bindings inspects platform resolution and calls into the loaded
// binding artifact.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/bindings"
	"github.com/wippyai/bindings/config"
	"github.com/wippyai/bindings/platform"
)

func main() {
	if err := newRootCmd(&app{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorMsg("%v", err))
		os.Exit(1)
	}
}

// app carries state shared by all subcommands
type app struct {
	cfgPath string
	debug   bool
	noColor bool
	cfg     *config.Config

	// fs and host replace the host filesystem and facts when set.
	fs   platform.FS
	host *platform.Host
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bindings",
		Short:         "Resolve and call platform-specific binding artifacts",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Logging.Level = "debug"
			}
			logger, err := cfg.Logging.NewLogger()
			if err != nil {
				return fmt.Errorf("configure logger: %w", err)
			}
			bindings.SetLogger(logger)
			logger.Debug("configuration loaded", zap.String("source", source))

			a.cfg = cfg
			configureOutput(cmd.OutOrStdout(), a.noColor)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to configuration file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(platformCmd(a))
	root.AddCommand(targetsCmd())
	root.AddCommand(sumCmd(a))
	root.AddCommand(exportsCmd(a))
	root.AddCommand(repeatCmd(a))
	return root
}

func (a *app) fsys() platform.FS {
	if a.fs != nil {
		return a.fs
	}
	return platform.OSFS{}
}

// open loads the binding for the configured or overridden host
func (a *app) open(ctx context.Context) (*bindings.Binding, error) {
	opts := []bindings.Option{
		bindings.WithConfig(a.cfg),
		bindings.WithFS(a.fsys()),
	}
	if a.host != nil {
		opts = append(opts, bindings.WithHost(*a.host))
	}
	return bindings.New(ctx, opts...)
}
