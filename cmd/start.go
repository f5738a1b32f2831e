package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kandttextiles/ktportal/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tracking data server.",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, logger, err := newCore(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		s, release, err := openTrackingStore(ctx, logger)
		if err != nil {
			return err
		}
		defer release()

		if err = c.SetTrackingStore(s); err != nil {
			return err
		}

		return server.Run(ctx, c, viper.GetString("server.addr"))
	},
}

func init() {
	startCmd.Flags().String("addr", "", "listen address (default server.addr)")
	viper.BindPFlag("server.addr", startCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(startCmd)
}
