package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/pipeline"
	"gopkg.in/yaml.v3"
)

func TestGenerateSettings(t *testing.T) {
	base := pipeline.Settings{
		ImageModel:  models.ImageModelGeminiFlash,
		AspectRatio: models.AspectLandscape,
		Language:    models.LanguageAuto,
	}

	tests := []struct {
		name    string
		opts    generateOptions
		want    pipeline.Settings
		wantErr bool
	}{
		{name: "defaults kept", opts: generateOptions{pick: 1}, want: base},
		{
			name: "flags override",
			opts: generateOptions{pick: 5, model: "imagen-3.0-generate-001", aspect: "4:3", language: "german"},
			want: pipeline.Settings{ImageModel: models.ImageModelImagen3, AspectRatio: models.AspectClassic, Language: models.LanguageGerman},
		},
		{name: "bad model", opts: generateOptions{pick: 1, model: "midjourney"}, wantErr: true},
		{name: "bad aspect", opts: generateOptions{pick: 1, aspect: "2:1"}, wantErr: true},
		{name: "bad language", opts: generateOptions{pick: 1, language: "Elvish"}, wantErr: true},
		{name: "pick too low", opts: generateOptions{pick: 0}, wantErr: true},
		{name: "pick too high", opts: generateOptions{pick: 6}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.settings(base)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("settings: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	st := pipeline.State{
		OriginalInput:    "coffee",
		Titles:           []models.TitleSuggestion{{Text: "Brew Better", HookType: "How-to", Score: 81}},
		SelectedTitle:    &models.TitleSuggestion{Text: "Brew Better"},
		VideoDetails:     &models.VideoDetails{Hashtags: []string{"#coffee"}, VisualPrompt: "mug"},
		GeneratedImage:   []byte("jpeg"),
		ThumbnailHistory: [][]byte{[]byte("jpeg")},
	}

	var buf bytes.Buffer
	if err := writeSummary(&buf, summarize(st, "thumb.jpg")); err != nil {
		t.Fatalf("writeSummary: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("summary is not YAML: %v\n%s", err, buf.String())
	}
	if decoded["selected_title"] != "Brew Better" || decoded["thumbnail"] != "thumb.jpg" {
		t.Errorf("Unexpected summary:\n%s", buf.String())
	}
	if _, ok := decoded["error"]; ok {
		t.Errorf("Expected no error key:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "hook_type: How-to") {
		t.Errorf("Expected yaml field names:\n%s", buf.String())
	}

	st.GeneratedImage = nil
	if s := summarize(st, "thumb.jpg"); s.Thumbnail != "" {
		t.Errorf("Expected no thumbnail path without an image, got %q", s.Thumbnail)
	}
}

func TestPrintOptions(t *testing.T) {
	var buf bytes.Buffer
	if err := printOptions(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"gemini-2.5-flash-image", "(default)", "premium", "16:9", "Vietnamese"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}
