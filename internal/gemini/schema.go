package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/providers"
)

const titleCount = 5

func stringArray() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

func titlesSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"titles": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text":     {Type: genai.TypeString},
						"hookType": {Type: genai.TypeString},
						"score":    {Type: genai.TypeNumber, Description: "Predicted score out of 100"},
					},
					Required: []string{"text", "hookType", "score"},
				},
			},
		},
		Required: []string{"titles"},
	}
}

func detailsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"hashtags":     stringArray(),
			"keywords":     stringArray(),
			"seoTips":      stringArray(),
			"visualPrompt": {Type: genai.TypeString},
			"description":  {Type: genai.TypeString},
		},
		Required: []string{"hashtags", "keywords", "seoTips", "visualPrompt", "description"},
	}
}

func scriptSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"intro":        {Type: genai.TypeString},
			"mainContent":  stringArray(),
			"callToAction": {Type: genai.TypeString},
		},
		Required: []string{"intro", "mainContent", "callToAction"},
	}
}

// cleanJSON strips markdown code fences some models wrap around JSON
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func unmarshal(text string, v any) error {
	text = cleanJSON(text)
	if text == "" {
		return providers.ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", providers.ErrMalformedResponse, err)
	}
	return nil
}

func decodeTitles(text string) ([]models.TitleSuggestion, error) {
	var raw struct {
		Titles []struct {
			Text     *string  `json:"text"`
			HookType *string  `json:"hookType"`
			Score    *float64 `json:"score"`
		} `json:"titles"`
	}
	if err := unmarshal(text, &raw); err != nil {
		return nil, err
	}

	if len(raw.Titles) != titleCount {
		return nil, fmt.Errorf("%w: expected %d titles, got %d", providers.ErrMalformedResponse, titleCount, len(raw.Titles))
	}

	titles := make([]models.TitleSuggestion, 0, titleCount)
	for i, t := range raw.Titles {
		if t.Text == nil || strings.TrimSpace(*t.Text) == "" {
			return nil, fmt.Errorf("%w: title %d has no text", providers.ErrMalformedResponse, i)
		}
		if t.HookType == nil {
			return nil, fmt.Errorf("%w: title %d has no hookType", providers.ErrMalformedResponse, i)
		}
		if t.Score == nil || *t.Score < 0 || *t.Score > 100 {
			return nil, fmt.Errorf("%w: title %d has no score in [0,100]", providers.ErrMalformedResponse, i)
		}
		titles = append(titles, models.TitleSuggestion{
			Text:     *t.Text,
			HookType: *t.HookType,
			Score:    *t.Score,
		})
	}
	return titles, nil
}

func decodeDetails(text string) (models.VideoDetails, error) {
	var raw struct {
		Hashtags     []string `json:"hashtags"`
		Keywords     []string `json:"keywords"`
		SEOTips      []string `json:"seoTips"`
		VisualPrompt *string  `json:"visualPrompt"`
		Description  *string  `json:"description"`
	}
	if err := unmarshal(text, &raw); err != nil {
		return models.VideoDetails{}, err
	}

	var missing []string
	if raw.Hashtags == nil {
		missing = append(missing, "hashtags")
	}
	if raw.Keywords == nil {
		missing = append(missing, "keywords")
	}
	if raw.SEOTips == nil {
		missing = append(missing, "seoTips")
	}
	if raw.VisualPrompt == nil {
		missing = append(missing, "visualPrompt")
	}
	if raw.Description == nil {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return models.VideoDetails{}, fmt.Errorf("%w: missing %s", providers.ErrMalformedResponse, strings.Join(missing, ", "))
	}

	return models.VideoDetails{
		Hashtags:     raw.Hashtags,
		Keywords:     raw.Keywords,
		SEOTips:      raw.SEOTips,
		VisualPrompt: *raw.VisualPrompt,
		Description:  *raw.Description,
	}, nil
}

func decodeScript(text string) (models.VideoScript, error) {
	var raw struct {
		Intro        *string  `json:"intro"`
		MainContent  []string `json:"mainContent"`
		CallToAction *string  `json:"callToAction"`
	}
	if err := unmarshal(text, &raw); err != nil {
		return models.VideoScript{}, err
	}

	var missing []string
	if raw.Intro == nil {
		missing = append(missing, "intro")
	}
	if raw.MainContent == nil {
		missing = append(missing, "mainContent")
	}
	if raw.CallToAction == nil {
		missing = append(missing, "callToAction")
	}
	if len(missing) > 0 {
		return models.VideoScript{}, fmt.Errorf("%w: missing %s", providers.ErrMalformedResponse, strings.Join(missing, ", "))
	}

	return models.VideoScript{
		Intro:        *raw.Intro,
		MainContent:  raw.MainContent,
		CallToAction: *raw.CallToAction,
	}, nil
}
