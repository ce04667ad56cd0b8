package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/logging"
	"github.com/goliatone/go-formwizard/pkg/cache"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
)

// Version set via ldflags during build
var version = "dev"

var (
	// Global flags
	configFile string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formwizard",
	Short: "Multi-step laptop price wizard",
	Long: `formwizard walks a user through a three-step form describing a laptop,
validates each step, and submits the collected fields to a price prediction
service.

It can serve the wizard over HTTP, run it interactively in the terminal, or
render a single step for inspection.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(config.Options{File: configFile, EnvFile: envFile})
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(logging.Options{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			Verbose: verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./formwizard.yml when present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded before reading config (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(lintCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// definitionSource maps the definition.* settings onto an orchestrator source.
func definitionSource(c *config.Config) orchestrator.Source {
	if c.Definition.Path != "" {
		return orchestrator.SourceFromFile(c.Definition.Path)
	}
	if c.Definition.OpenAPI != "" {
		return orchestrator.SourceFromOpenAPI(c.Definition.OpenAPI, c.Definition.Operation)
	}
	return orchestrator.Source{}
}

func loadDefinition(ctx context.Context) (model.Definition, error) {
	src := definitionSource(cfg)
	def, err := src.Load(ctx)
	if err != nil {
		return model.Definition{}, err
	}
	logger.Debug("definition loaded",
		zap.String("source", src.String()),
		zap.String("wizard", def.Name),
		zap.Int("steps", def.TotalSteps()),
	)
	return def, nil
}

// predictURL prefers the configured URL over the definition's endpoint.
func predictURL(def model.Definition) string {
	if cfg.Predict.URL != "" {
		return cfg.Predict.URL
	}
	return def.Endpoint
}

// openCache builds the store selected by cache.driver. The returned closer is
// never nil.
func openCache(ctx context.Context) (cache.Store, func(), error) {
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		return cache.NewMemory(), func() {}, nil
	case config.CacheRedis:
		store, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		}, logger)
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close redis", zap.Error(err))
			}
		}, nil
	default:
		return nil, func() {}, nil
	}
}

func shutdownTimeout() time.Duration {
	if cfg.Server.WriteTimeout > 0 {
		return cfg.Server.WriteTimeout
	}
	return 10 * time.Second
}
