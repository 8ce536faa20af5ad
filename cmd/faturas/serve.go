package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/interfaces/http"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/pkg/utils"
)

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the overdue refresh worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := a.startContainer(ctx, true)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					a.logger.Error("Container close failed", zap.Error(err))
				}
			}()

			serverCfg := httpapi.ServerConfig{
				Host:         a.cfg.Server.Host,
				Port:         a.cfg.Server.Port,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
				Debug:        a.cfg.Logger.Level == "debug",
			}
			if cmd.Flags().Changed("port") {
				serverCfg.Port = port
			}

			server := httpapi.NewServer(serverCfg, httpapi.Deps{
				Orchestrator:    c.Orchestrator(),
				Collections:     c.Cache(),
				Sessions:        c.Sessions(),
				Notifications:   c.Feed(),
				PrivilegedRoles: c.Config().PrivilegedRoles,
				ClampPolicy:     c.Config().View.ClampPolicy,
				Health: func() (bool, interface{}) {
					h := c.Health()
					return h.Overall, h.Components
				},
			}, utils.NewSugaredAdapter(a.logger.Named("http")))

			a.logger.Info("Starting billing console",
				zap.String("version", Version),
				zap.String("addr", server.Address()))

			return server.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	return cmd
}

