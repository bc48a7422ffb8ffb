package providers

import (
	"context"
	"errors"

	"github.com/tubeseo/tubeseo/internal/models"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured for the call
	ErrMissingAPIKey = errors.New("API key is missing")
	// ErrEmptyResponse is returned when the provider answered without usable data
	ErrEmptyResponse = errors.New("no data received from provider")
	// ErrMalformedResponse is returned when the response does not match the requested structure
	ErrMalformedResponse = errors.New("malformed structured response")
)

// Gateway turns pipeline intents into remote model calls
type Gateway interface {
	AnalyzeImage(ctx context.Context, image []byte, lang models.Language) (string, error)
	GenerateTitles(ctx context.Context, topic string, lang models.Language) ([]models.TitleSuggestion, error)
	GenerateDetails(ctx context.Context, title string, lang models.Language) (models.VideoDetails, error)
	GenerateScript(ctx context.Context, title string, lang models.Language) (models.VideoScript, error)
	GenerateThumbnailImage(ctx context.Context, title, visualPrompt string, model models.ImageModel, ratio models.AspectRatio) ([]byte, error)
}

// KeySource returns the API key to use for the next call
type KeySource interface {
	APIKey() string
}
