package pipeline

import (
	"github.com/tubeseo/tubeseo/internal/models"
)

// MaxHistory bounds the thumbnail history
const MaxHistory = 5

// User-facing error messages. Exactly one is visible at a time.
const (
	MsgTitlesFailed     = "Could not analyze the input. Check the API key or try again later."
	MsgAnalysisFailed   = "Could not analyze the image. Try a different image."
	MsgFileReadFailed   = "Could not read the file."
	MsgDetailsFailed    = "Could not generate the video details. Please try again."
	MsgThumbnailPartial = "SEO details were generated but the thumbnail failed (the model may be busy)."
	MsgRegenerateFailed = "Could not regenerate the thumbnail. Try a different model."
	MsgScriptFailed     = "Could not generate the script."
)

// Stage is one independently tracked asynchronous step
type Stage string

const (
	StageTitles   Stage = "titles"
	StageDetails  Stage = "details"
	StageScript   Stage = "script"
	StageAnalysis Stage = "analysis"
)

// Stages lists every stage in pipeline order
func Stages() []Stage {
	return []Stage{StageAnalysis, StageTitles, StageDetails, StageScript}
}

// StageStatus is the derived status of one stage
type StageStatus string

const (
	StatusIdle    StageStatus = "idle"
	StatusLoading StageStatus = "loading"
	StatusReady   StageStatus = "ready"
	StatusFailed  StageStatus = "failed"
)

// State is a snapshot of the pipeline
type State struct {
	OriginalInput  string `json:"originalInput"`
	InputFromImage bool   `json:"inputFromImage"`

	LoadingTitles   bool `json:"isLoadingTitles"`
	LoadingDetails  bool `json:"isLoadingDetails"`
	LoadingScript   bool `json:"isLoadingScript"`
	LoadingAnalysis bool `json:"isLoadingAnalysis"`

	Titles              []models.TitleSuggestion `json:"titles"`
	SelectedTitle       *models.TitleSuggestion  `json:"selectedTitle"`
	VideoDetails        *models.VideoDetails     `json:"videoDetails"`
	CurrentVisualPrompt string                   `json:"currentVisualPrompt"`
	GeneratedImage      []byte                   `json:"-"`
	ThumbnailHistory    [][]byte                 `json:"-"`

	Error       string `json:"error,omitempty"`
	FailedStage Stage  `json:"failedStage,omitempty"`

	ImageModel  models.ImageModel  `json:"selectedImageModel"`
	AspectRatio models.AspectRatio `json:"selectedAspectRatio"`
	Language    models.Language    `json:"language"`
}

// Stage derives the status of s. A failed details stage with details
// present means the SEO step succeeded and the thumbnail did not.
func (st State) Stage(s Stage) StageStatus {
	var loading, ready bool
	switch s {
	case StageTitles:
		loading, ready = st.LoadingTitles, len(st.Titles) > 0
	case StageDetails:
		loading, ready = st.LoadingDetails, st.VideoDetails != nil
	case StageScript:
		loading, ready = st.LoadingScript, st.VideoDetails != nil && st.VideoDetails.Script != nil
	case StageAnalysis:
		loading, ready = st.LoadingAnalysis, st.InputFromImage
	}

	switch {
	case loading:
		return StatusLoading
	case st.Error != "" && st.FailedStage == s:
		return StatusFailed
	case ready:
		return StatusReady
	default:
		return StatusIdle
	}
}

func (st State) clone() State {
	c := st
	c.Titles = make([]models.TitleSuggestion, len(st.Titles))
	copy(c.Titles, st.Titles)
	if st.SelectedTitle != nil {
		t := *st.SelectedTitle
		c.SelectedTitle = &t
	}
	c.VideoDetails = st.VideoDetails.Clone()
	c.GeneratedImage = append([]byte(nil), st.GeneratedImage...)
	c.ThumbnailHistory = make([][]byte, len(st.ThumbnailHistory))
	for i, img := range st.ThumbnailHistory {
		c.ThumbnailHistory[i] = append([]byte(nil), img...)
	}
	return c
}

// pushHistory prepends img and keeps the newest MaxHistory entries
func pushHistory(history [][]byte, img []byte) [][]byte {
	out := make([][]byte, 0, MaxHistory)
	out = append(out, img)
	for _, h := range history {
		if len(out) == MaxHistory {
			break
		}
		out = append(out, h)
	}
	return out
}
