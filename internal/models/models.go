package models

import (
	"fmt"
	"strings"
)

// TitleSuggestion is one generated video title
type TitleSuggestion struct {
	Text     string  `json:"text" yaml:"text"`
	HookType string  `json:"hookType" yaml:"hook_type"` // e.g. "Curiosity", "Urgency", "How-to"
	Score    float64 `json:"score" yaml:"score"`        // 0-100 predicted CTR potential
}

// VideoScript is a three-part video script
type VideoScript struct {
	Intro        string   `json:"intro" yaml:"intro"`
	MainContent  []string `json:"mainContent" yaml:"main_content"`
	CallToAction string   `json:"callToAction" yaml:"call_to_action"`
}

// VideoDetails holds the SEO metadata generated for a selected title
type VideoDetails struct {
	Hashtags     []string     `json:"hashtags" yaml:"hashtags"`
	Keywords     []string     `json:"keywords" yaml:"keywords"`
	SEOTips      []string     `json:"seoTips" yaml:"seo_tips"`
	VisualPrompt string       `json:"visualPrompt" yaml:"visual_prompt"` // always English
	Description  string       `json:"description" yaml:"description"`
	Script       *VideoScript `json:"script,omitempty" yaml:"script,omitempty"`
}

// Clone returns a deep copy of the details
func (d *VideoDetails) Clone() *VideoDetails {
	if d == nil {
		return nil
	}
	c := *d
	c.Hashtags = append([]string(nil), d.Hashtags...)
	c.Keywords = append([]string(nil), d.Keywords...)
	c.SEOTips = append([]string(nil), d.SEOTips...)
	if d.Script != nil {
		s := *d.Script
		s.MainContent = append([]string(nil), d.Script.MainContent...)
		c.Script = &s
	}
	return &c
}

// ImageModel identifies an image synthesis model
type ImageModel string

const (
	ImageModelGeminiFlash ImageModel = "gemini-2.5-flash-image"
	ImageModelGeminiPro   ImageModel = "gemini-3-pro-image-preview"
	ImageModelImagen3     ImageModel = "imagen-3.0-generate-001"
	ImageModelImagen4     ImageModel = "imagen-4.0-generate-001"
)

// ModelFamily groups image models that share a request shape
type ModelFamily string

const (
	FamilyGemini ModelFamily = "gemini"
	FamilyImagen ModelFamily = "imagen"
)

// ImageModels lists the supported image models, default first
func ImageModels() []ImageModel {
	return []ImageModel{ImageModelGeminiFlash, ImageModelGeminiPro, ImageModelImagen3, ImageModelImagen4}
}

// Family reports which request shape the model expects
func (m ImageModel) Family() ModelFamily {
	if strings.HasPrefix(string(m), "imagen") {
		return FamilyImagen
	}
	return FamilyGemini
}

// Premium reports whether the model needs a user-selected paid key
func (m ImageModel) Premium() bool {
	return m == ImageModelGeminiPro
}

// ParseImageModel validates s against the supported image models
func ParseImageModel(s string) (ImageModel, error) {
	for _, m := range ImageModels() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported image model: %q", s)
}

// AspectRatio is a thumbnail aspect ratio
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectSquare    AspectRatio = "1:1"
	AspectClassic   AspectRatio = "4:3"
	AspectTall      AspectRatio = "3:4"
)

// AspectRatios lists the supported aspect ratios, default first
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectLandscape, AspectPortrait, AspectSquare, AspectClassic, AspectTall}
}

// ParseAspectRatio validates s against the supported aspect ratios
func ParseAspectRatio(s string) (AspectRatio, error) {
	for _, r := range AspectRatios() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unsupported aspect ratio: %q", s)
}

// Language is an output language. LanguageAuto means detect from input and mirror it.
type Language string

const (
	LanguageAuto       Language = "Auto"
	LanguageVietnamese Language = "Vietnamese"
	LanguageEnglish    Language = "English"
	LanguageSpanish    Language = "Spanish"
	LanguageJapanese   Language = "Japanese"
	LanguageKorean     Language = "Korean"
	LanguageFrench     Language = "French"
	LanguageGerman     Language = "German"
	LanguageIndonesian Language = "Indonesian"
)

// Languages lists the supported languages, Auto first
func Languages() []Language {
	return []Language{
		LanguageAuto, LanguageVietnamese, LanguageEnglish, LanguageSpanish, LanguageJapanese,
		LanguageKorean, LanguageFrench, LanguageGerman, LanguageIndonesian,
	}
}

// ParseLanguage validates s against the supported languages, ignoring case
func ParseLanguage(s string) (Language, error) {
	for _, l := range Languages() {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language: %q", s)
}
