package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tubeseo/tubeseo/internal/credentials"
	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/pipeline"
	"gopkg.in/yaml.v3"
)

type generateOptions struct {
	topic    string
	image    string
	pick     int
	model    string
	aspect   string
	language string
	script   bool
	out      string
}

// generateSummary is what the generate command prints
type generateSummary struct {
	Input         string                   `yaml:"input"`
	Titles        []models.TitleSuggestion `yaml:"titles"`
	SelectedTitle string                   `yaml:"selected_title,omitempty"`
	Details       *models.VideoDetails     `yaml:"details,omitempty"`
	Thumbnail     string                   `yaml:"thumbnail,omitempty"`
	History       int                      `yaml:"thumbnails_generated"`
	Error         string                   `yaml:"error,omitempty"`
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	g := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the whole pipeline once from the terminal",
		Long: `Generates five titles for a topic or reference image, picks one,
generates its SEO details and a thumbnail, and optionally a script.

The result is printed as YAML. The thumbnail is written to --out.`,
		Example: `  # From a topic, keep the second title
  tubeseo generate --topic "how to make coffee at home" --pick 2 --out thumb.jpg

  # From a reference image, portrait thumbnail with the premium model
  tubeseo generate --image ref.png --model gemini-3-pro-image-preview --aspect 9:16 --script`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, g)
		},
	}

	cmd.Flags().StringVarP(&g.topic, "topic", "t", "", "Video topic or idea")
	cmd.Flags().StringVarP(&g.image, "image", "i", "", "Reference image path")
	cmd.Flags().IntVar(&g.pick, "pick", 1, "Which of the five titles to use (1-5)")
	cmd.Flags().StringVarP(&g.model, "model", "m", "", "Image model (see 'tubeseo models')")
	cmd.Flags().StringVarP(&g.aspect, "aspect", "a", "", "Thumbnail aspect ratio")
	cmd.Flags().StringVarP(&g.language, "language", "l", "", "Output language, Auto mirrors the input")
	cmd.Flags().BoolVar(&g.script, "script", false, "Also generate a video script")
	cmd.Flags().StringVarP(&g.out, "out", "o", "", "Write the thumbnail to this file")
	cmd.MarkFlagsOneRequired("topic", "image")
	cmd.MarkFlagsMutuallyExclusive("topic", "image")

	return cmd
}

func (g *generateOptions) settings(base pipeline.Settings) (pipeline.Settings, error) {
	if g.model != "" {
		m, err := models.ParseImageModel(g.model)
		if err != nil {
			return base, err
		}
		base.ImageModel = m
	}
	if g.aspect != "" {
		r, err := models.ParseAspectRatio(g.aspect)
		if err != nil {
			return base, err
		}
		base.AspectRatio = r
	}
	if g.language != "" {
		l, err := models.ParseLanguage(g.language)
		if err != nil {
			return base, err
		}
		base.Language = l
	}
	if g.pick < 1 || g.pick > 5 {
		return base, fmt.Errorf("--pick must be between 1 and 5, got %d", g.pick)
	}
	return base, nil
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, g *generateOptions) error {
	ctx := cmd.Context()
	settings, err := g.settings(sessionSettings(opts.cfg))
	if err != nil {
		return err
	}

	keys := credentials.NewStore(opts.cfg.APIKey)
	bridge := credentials.NewTerminalBridge(keys, cmd.InOrStdin(), cmd.ErrOrStderr())
	if keys.APIKey() == "" {
		if err := bridge.SelectKey(ctx); err != nil {
			return fmt.Errorf("an API key is required: %w", err)
		}
	}

	session := pipeline.NewSession(newGateway(opts.cfg, keys), bridge, settings)

	if g.image != "" {
		f, err := os.Open(g.image)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		session.SubmitImage(ctx, f)
		f.Close()
	} else {
		session.SubmitTopic(ctx, g.topic)
	}

	if session.Snapshot().Error == "" {
		if err := session.SelectTitleAt(g.pick - 1); err != nil {
			return err
		}
		if err := session.ConfirmAndGenerate(ctx); err != nil {
			return err
		}
		if g.script && session.Snapshot().VideoDetails != nil {
			if err := session.GenerateScript(ctx); err != nil {
				return err
			}
		}
	}

	st := session.Snapshot()
	if g.out != "" && len(st.GeneratedImage) > 0 {
		if err := os.WriteFile(g.out, st.GeneratedImage, 0o644); err != nil {
			return fmt.Errorf("failed to write thumbnail: %w", err)
		}
		slog.Info("Thumbnail written", "path", g.out, "bytes", len(st.GeneratedImage))
	}

	if err := writeSummary(cmd.OutOrStdout(), summarize(st, g.out)); err != nil {
		return err
	}
	if st.Error != "" {
		return errors.New(st.Error)
	}
	return nil
}

func summarize(st pipeline.State, out string) generateSummary {
	s := generateSummary{
		Input:   st.OriginalInput,
		Titles:  st.Titles,
		Details: st.VideoDetails,
		History: len(st.ThumbnailHistory),
		Error:   st.Error,
	}
	if st.SelectedTitle != nil {
		s.SelectedTitle = st.SelectedTitle.Text
	}
	if out != "" && len(st.GeneratedImage) > 0 {
		s.Thumbnail = out
	}
	return s
}

func writeSummary(w io.Writer, s generateSummary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return enc.Close()
}
