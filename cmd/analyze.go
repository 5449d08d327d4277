package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spigell/formfill/internal/filler"
	"github.com/spigell/formfill/internal/gforms"
	"github.com/spigell/formfill/internal/logger"
	"github.com/spigell/formfill/internal/resolver"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [form-url]",
	Short: "Print the structure of a public Google Form as json",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		analyze(args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(formURL string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// No resolution happens here, only schema extraction.
	forms := gforms.New(logger)
	if config.UserAgent != "" {
		forms.UserAgent = config.UserAgent
	}

	f := filler.New(forms, resolver.New(nil, nil, logger), logger)

	info, err := f.Analyze(ctx, formURL)
	if err != nil {
		logger.Fatal("analyzing the form", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		logger.Fatal("rendering the form structure", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
