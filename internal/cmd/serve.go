package cmd

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pwc-dv/dvmap/internal/chart"
	"github.com/pwc-dv/dvmap/internal/server"
	"github.com/pwc-dv/dvmap/internal/store"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Long: `Serve the heatmap at / and a JSON API under /api until interrupted.

    GET  /api/grid
    GET  /api/stages
    GET  /api/providers/:name
    PUT  /api/providers/:name/intercepts   {"stages":["2","4"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = sess.cfg.DVMap.Server.Addr
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close(s)

			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			srv, err := server.New(server.Config{
				Addr:   addr,
				Store:  s,
				Chart:  chart.OptionsFromConfig(sess.cfg.DVMap.Chart),
				Logger: sess.logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			group, gctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return srv.Start(gctx)
			})
			group.Go(func() error {
				<-gctx.Done()
				sess.logger.Info("shutting down", zap.String("addr", srv.Addr()))
				return nil
			})

			cmd.Printf("Serving dashboard on %s (backend %s)\n", srv.Addr(), s.Name())
			return group.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
