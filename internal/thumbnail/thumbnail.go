package thumbnail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/providers"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// imageAPI is the subset of genai.Models used for image synthesis
type imageAPI interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Request describes one thumbnail to render
type Request struct {
	Title        string
	VisualPrompt string
	Model        models.ImageModel
	AspectRatio  models.AspectRatio
}

// variant builds and sends the request shape of one model family
type variant interface {
	render(ctx context.Context, api imageAPI, req Request) ([]byte, error)
}

var variants = map[models.ModelFamily]variant{
	models.FamilyImagen: imagenVariant{},
	models.FamilyGemini: geminiVariant{},
}

// Renderer synthesizes thumbnails through the Gemini API
type Renderer struct {
	keys    providers.KeySource
	limiter *rate.Limiter
	connect func(ctx context.Context, apiKey string) (imageAPI, error)
}

// NewRenderer returns a renderer. A zero interval disables rate limiting.
func NewRenderer(keys providers.KeySource, interval time.Duration) *Renderer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Renderer{
		keys:    keys,
		limiter: rate.NewLimiter(limit, 1),
		connect: connect,
	}
}

func connect(ctx context.Context, apiKey string) (imageAPI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client.Models, nil
}

// Render returns the raw bytes of one generated thumbnail
func (r *Renderer) Render(ctx context.Context, title, visualPrompt string, model models.ImageModel, ratio models.AspectRatio) ([]byte, error) {
	apiKey := r.keys.APIKey()
	if apiKey == "" {
		return nil, providers.ErrMissingAPIKey
	}

	v, ok := variants[model.Family()]
	if !ok {
		return nil, fmt.Errorf("no request builder for model %s", model)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	api, err := r.connect(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := v.render(ctx, api, Request{
		Title:        title,
		VisualPrompt: visualPrompt,
		Model:        model,
		AspectRatio:  ratio,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Thumbnail rendered", "model", model, "aspect_ratio", ratio, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

// Prompt builds the combined prompt for both model families
func Prompt(req Request) string {
	return fmt.Sprintf(`Create a high-converting YouTube thumbnail.
Aspect Ratio: %s.
Style: Vibrant, High Contrast, 4K resolution, Digital Art or Photorealistic.

Visual Description: %s

CRITICAL INSTRUCTION - TEXT RENDERING:
You MUST include the text %q prominently in the image.
- The text should be in a bold, sans-serif font.
- Use high contrast colors (e.g., yellow text on a dark background, or white with a black outline).
- Make the text the focal point of the composition alongside the main subject.`, req.AspectRatio, req.VisualPrompt, req.Title)
}

type imagenVariant struct{}

func (imagenVariant) render(ctx context.Context, api imageAPI, req Request) ([]byte, error) {
	resp, err := api.GenerateImages(ctx, string(req.Model), Prompt(req), &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    string(req.AspectRatio),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	return firstGeneratedImage(resp)
}

func firstGeneratedImage(resp *genai.GenerateImagesResponse) ([]byte, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("%w: no image from Imagen", providers.ErrEmptyResponse)
	}
	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return nil, fmt.Errorf("%w: no image from Imagen", providers.ErrEmptyResponse)
	}
	return img.ImageBytes, nil
}

type geminiVariant struct{}

func (geminiVariant) config(req Request) *genai.GenerateContentConfig {
	imageConfig := &genai.ImageConfig{AspectRatio: string(req.AspectRatio)}
	if req.Model.Premium() {
		imageConfig.ImageSize = "1K"
	}
	return &genai.GenerateContentConfig{ImageConfig: imageConfig}
}

func (v geminiVariant) render(ctx context.Context, api imageAPI, req Request) ([]byte, error) {
	resp, err := api.GenerateContent(ctx, string(req.Model), genai.Text(Prompt(req)), v.config(req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return firstInlineImage(resp)
}

// firstInlineImage scans the first candidate's parts in order
func firstInlineImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no image from Gemini", providers.ErrEmptyResponse)
}
