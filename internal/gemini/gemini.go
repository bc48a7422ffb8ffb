package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/providers"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash"

// ThumbnailRenderer synthesizes thumbnail images
type ThumbnailRenderer interface {
	Render(ctx context.Context, title, visualPrompt string, model models.ImageModel, ratio models.AspectRatio) ([]byte, error)
}

// generateFunc sends parts to a text model and returns the response text
type generateFunc func(ctx context.Context, apiKey, model string, schema *genai.Schema, parts ...genai.Part) (string, error)

// Gemini is the gateway backed by Google Gemini
type Gemini struct {
	keys     providers.KeySource
	model    string
	renderer ThumbnailRenderer
	generate generateFunc
}

// New returns a Gemini gateway. Text calls use model; thumbnails go through renderer.
func New(keys providers.KeySource, model string, renderer ThumbnailRenderer) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		keys:     keys,
		model:    model,
		renderer: renderer,
		generate: generateContent,
	}
}

func (g *Gemini) apiKey() (string, error) {
	key := g.keys.APIKey()
	if key == "" {
		return "", providers.ErrMissingAPIKey
	}
	return key, nil
}

// AnalyzeImage describes a reference image as a reusable generation prompt
func (g *Gemini) AnalyzeImage(ctx context.Context, image []byte, lang models.Language) (string, error) {
	key, err := g.apiKey()
	if err != nil {
		return "", err
	}

	text, err := g.generate(ctx, key, g.model, nil, genai.Blob{MIMEType: sniffImageType(image), Data: image}, genai.Text(analyzeImagePrompt(lang)))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", providers.ErrEmptyResponse
	}
	return text, nil
}

// GenerateTitles returns exactly five title suggestions for a topic
func (g *Gemini) GenerateTitles(ctx context.Context, topic string, lang models.Language) ([]models.TitleSuggestion, error) {
	key, err := g.apiKey()
	if err != nil {
		return nil, err
	}

	text, err := g.generate(ctx, key, g.model, titlesSchema(), genai.Text(titlesPrompt(topic, lang)))
	if err != nil {
		return nil, err
	}
	return decodeTitles(text)
}

// GenerateDetails returns hashtags, keywords, tips, visual prompt and description for a title
func (g *Gemini) GenerateDetails(ctx context.Context, title string, lang models.Language) (models.VideoDetails, error) {
	key, err := g.apiKey()
	if err != nil {
		return models.VideoDetails{}, err
	}

	text, err := g.generate(ctx, key, g.model, detailsSchema(), genai.Text(detailsPrompt(title, lang)))
	if err != nil {
		return models.VideoDetails{}, err
	}
	return decodeDetails(text)
}

// GenerateScript returns an intro, main points and call to action for a title
func (g *Gemini) GenerateScript(ctx context.Context, title string, lang models.Language) (models.VideoScript, error) {
	key, err := g.apiKey()
	if err != nil {
		return models.VideoScript{}, err
	}

	text, err := g.generate(ctx, key, g.model, scriptSchema(), genai.Text(scriptPrompt(title, lang)))
	if err != nil {
		return models.VideoScript{}, err
	}
	return decodeScript(text)
}

// GenerateThumbnailImage renders a thumbnail with the title written into it
func (g *Gemini) GenerateThumbnailImage(ctx context.Context, title, visualPrompt string, model models.ImageModel, ratio models.AspectRatio) ([]byte, error) {
	if _, err := g.apiKey(); err != nil {
		return nil, err
	}
	return g.renderer.Render(ctx, title, visualPrompt, model, ratio)
}

func generateContent(ctx context.Context, apiKey, modelName string, schema *genai.Schema, parts ...genai.Part) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	if schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schema
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	slog.Debug("Gemini response received", "model", modelName, "length", len(text))
	return text, nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

// sniffImageType detects the image MIME type, defaulting to PNG
func sniffImageType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if strings.HasPrefix(mimeType, "image/") {
		return mimeType
	}
	return "image/png"
}
