package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/formfill/internal/ai"
	"github.com/spigell/formfill/internal/ai/gemini"
	"github.com/spigell/formfill/internal/filler"
	"github.com/spigell/formfill/internal/gforms"
	"github.com/spigell/formfill/internal/logger"
	"github.com/spigell/formfill/internal/resolver"
	"github.com/spigell/formfill/internal/resume"
	"github.com/spigell/formfill/internal/secrets"
	"go.uber.org/zap"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	PromptYes        = "Yes"
	PromptNo         = "No"
	PromptShowFields = "Show resolved fields"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Submit the form?",
	Items: []string{PromptYes, PromptNo, PromptShowFields},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Parse a resume, resolve the form fields and submit the form",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("form-url", "u", "", "public Google Form URL to fill")
	runCmd.Flags().StringP("resume", "r", "", "path to the resume file (pdf, docx or txt)")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before submitting")
	runCmd.Flags().Bool("enhance-all", false, "consult the AI matcher even for entries resolved by rules")

	runCmd.MarkFlagRequired("form-url")
	runCmd.MarkFlagRequired("resume")

	viper.BindPFlag("enhance-all", runCmd.Flags().Lookup("enhance-all"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the formfill", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	formURL := cmd.Flag("form-url").Value.String()
	resumePath := cmd.Flag("resume").Value.String()

	f, parser := buildComponents(ctx, config, logger)

	prof, err := parser.ParseFile(ctx, resumePath)
	if err != nil {
		logger.Fatal("parsing the resume", zap.Error(err))
	}

	logger.Info("parsed the resume",
		zap.String("file", resumePath),
		zap.Int("attributes", len(prof.Map())),
	)

	_, mappings, err := f.Resolve(ctx, formURL, prof)
	if err != nil {
		logger.Fatal("resolving form fields", zap.Error(err))
	}

	resolved := 0
	for i := range mappings {
		if mappings[i].Resolved() {
			resolved++
		}
	}

	logger.Info("resolved form fields",
		zap.Int("total", len(mappings)),
		zap.Int("resolved", resolved),
	)

	if resolved == 0 {
		logger.Info("exiting", zap.String("reason", "no form entries could be resolved from the resume"))
		return
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(ctx, action, f, formURL, mappings, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, f *filler.Filler, formURL string, mappings []resolver.Mapping, logger *zap.Logger) error {
	switch action {
	case PromptYes:
		result := f.Submit(ctx, formURL, mappings)
		if !result.Success {
			return errors.New(result.Error)
		}
		logger.Info(result.Message, zap.Strings("fields", result.FilledFields))
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptShowFields:
		pretty, _ := json.MarshalIndent(mappings, "", "  ")
		fmt.Println(string(pretty))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// buildComponents wires the filler and the resume parser from the config.
// AI pieces stay nil when the ai section is disabled or missing.
func buildComponents(ctx context.Context, config *Config, logger *zap.Logger) (*filler.Filler, *resume.Parser) {
	var generator *gemini.Generator
	var matcher ai.Matcher

	if config.AI != nil && config.AI.Enabled {
		var err error
		generator, err = newGenerator(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building the ai generator", zap.Error(err))
		}

		matcher = gemini.NewMatcher(generator, config.AI.Gemini.MaxLogLength, logger)
	} else {
		logger.Info("ai matching is disabled, using rule and fallback passes only")
	}

	forms := gforms.New(logger)
	if config.UserAgent != "" {
		forms.UserAgent = config.UserAgent
	}

	resolverConfig := &resolver.Config{
		EnhanceAll: viper.GetBool("enhance-all"),
	}
	if config.AI != nil {
		resolverConfig.MinConfidence = config.AI.MinimumConfidence
	}

	res := resolver.New(matcher, resolverConfig, logger)

	var parser *resume.Parser
	if generator != nil {
		parser = resume.NewParser(generator, logger)
	} else {
		parser = resume.NewParser(nil, logger)
	}

	return filler.New(forms, res, logger), parser
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithCommonFields(log, "gemini", cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
}
