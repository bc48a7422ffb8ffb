package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tubeseo/tubeseo/internal/config"
	"github.com/tubeseo/tubeseo/internal/credentials"
	"github.com/tubeseo/tubeseo/internal/gemini"
	"github.com/tubeseo/tubeseo/internal/pipeline"
	"github.com/tubeseo/tubeseo/internal/thumbnail"
)

// rootOptions is shared by every subcommand. cfg is populated before any RunE.
type rootOptions struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tubeseo",
		Short: "YouTube title, SEO and thumbnail assistant powered by Gemini",
		Long: `tubeseo turns a topic or a reference image into five title suggestions,
SEO metadata for the chosen title, a thumbnail with the title rendered into it,
and an optional video script.

It can run as an HTTP API for the browser UI or as a one-shot CLI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			slog.SetDefault(cfg.Log.Logger(os.Stderr, opts.verbose))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newModelsCmd())

	return cmd
}

// newGateway wires the text client and the image renderer around one key store
func newGateway(cfg config.Config, keys *credentials.Store) *gemini.Gemini {
	renderer := thumbnail.NewRenderer(keys, cfg.ImageRateInterval)
	return gemini.New(keys, cfg.TextModel, renderer)
}

func sessionSettings(cfg config.Config) pipeline.Settings {
	return pipeline.Settings{
		ImageModel:  cfg.ImageModel,
		AspectRatio: cfg.AspectRatio,
		Language:    cfg.Language,
	}
}
