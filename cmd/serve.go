package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spigell/formfill/internal/logger"
	"github.com/spigell/formfill/internal/server"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAddress = ":8000"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the formfill http api",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "address to listen on (default "+defaultAddress+")")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	f, parser := buildComponents(ctx, config, logger)

	address := viper.GetString("server.address")
	if address == "" && config.Server != nil {
		address = config.Server.Address
	}
	if address == "" {
		address = defaultAddress
	}

	logger.Info("starting the formfill api",
		zap.String("version", version),
		zap.String("address", address),
	)

	srv := server.New(address, f, parser, logger)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("running the server", zap.Error(err))
	}
}
