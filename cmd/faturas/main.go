package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/config"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/container"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/pkg/utils"
)

var Version = "dev"

// app holds what every subcommand needs once flags are parsed
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "faturas",
		Short:         "Billing console: invoice views, exports and billing mutations",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(generateCmd(a))
	rootCmd.AddCommand(migrateCmd(a))

	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// startContainer builds and starts the container; one-shot commands skip workers
func (a *app) startContainer(ctx context.Context, withWorkers bool) (*container.Container, error) {
	cfg := container.FromAppConfig(a.cfg)
	cfg.SkipWorkers = !withWorkers

	c, err := container.NewContainer(cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}
