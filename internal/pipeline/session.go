package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/providers"
)

// Guard failures. State is left untouched when a transition returns one of these.
var (
	ErrNoTitleSelected   = errors.New("no title selected")
	ErrNoVisualPrompt    = errors.New("visual prompt is empty")
	ErrNoDetails         = errors.New("video details not generated yet")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrEmptyImagePayload = errors.New("image payload is empty")
)

// KeyBridge lets the host pick an API key before premium image calls
type KeyBridge interface {
	HasSelectedKey(ctx context.Context) (bool, error)
	SelectKey(ctx context.Context) error
}

// Settings are the initial model, aspect ratio and language
type Settings struct {
	ImageModel  models.ImageModel
	AspectRatio models.AspectRatio
	Language    models.Language
}

// Session owns the pipeline state. All mutation goes through its transitions;
// gateway calls run without the lock held, so overlapping calls race and the
// last completion wins for the fields it writes.
type Session struct {
	mu      sync.Mutex
	state   State
	gateway providers.Gateway
	bridge  KeyBridge
}

// NewSession returns a session with empty results. bridge may be nil.
func NewSession(gateway providers.Gateway, bridge KeyBridge, settings Settings) *Session {
	if settings.ImageModel == "" {
		settings.ImageModel = models.ImageModelGeminiFlash
	}
	if settings.AspectRatio == "" {
		settings.AspectRatio = models.AspectLandscape
	}
	if settings.Language == "" {
		settings.Language = models.LanguageAuto
	}
	return &Session{
		gateway: gateway,
		bridge:  bridge,
		state: State{
			ImageModel:  settings.ImageModel,
			AspectRatio: settings.AspectRatio,
			Language:    settings.Language,
		},
	}
}

// Snapshot returns a deep copy of the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func newOpID() string {
	return uuid.NewString()[:8]
}

// fail records a failure; callers hold the lock
func (s *Session) fail(stage Stage, message, op string, err error) {
	slog.Error("Pipeline step failed", "op", op, "stage", stage, "err", err)
	s.state.Error = message
	s.state.FailedStage = stage
}

// beginStage clears the visible error; callers hold the lock
func (s *Session) beginStage() {
	s.state.Error = ""
	s.state.FailedStage = ""
}

// SubmitTopic starts over from a topic and generates five titles
func (s *Session) SubmitTopic(ctx context.Context, input string) {
	s.submit(ctx, input, false)
}

func (s *Session) submit(ctx context.Context, input string, fromImage bool) {
	op := newOpID()

	s.mu.Lock()
	s.beginStage()
	s.state.LoadingTitles = true
	s.state.Titles = nil
	s.state.SelectedTitle = nil
	s.state.VideoDetails = nil
	s.state.GeneratedImage = nil
	s.state.CurrentVisualPrompt = ""
	s.state.ThumbnailHistory = nil
	s.state.OriginalInput = input
	s.state.InputFromImage = fromImage
	lang := s.state.Language
	s.mu.Unlock()

	slog.Info("Generating titles", "op", op, "language", lang, "from_image", fromImage)
	titles, err := s.gateway.GenerateTitles(ctx, input, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LoadingTitles = false
	if err != nil {
		s.fail(StageTitles, MsgTitlesFailed, op, err)
		return
	}
	s.state.Titles = titles
	slog.Info("Titles generated", "op", op, "count", len(titles))
}

// SubmitImage reads a reference image, turns it into a descriptive prompt and
// feeds that prompt into SubmitTopic. The payload may be raw bytes or a
// base64 data URI.
func (s *Session) SubmitImage(ctx context.Context, r io.Reader) {
	op := newOpID()

	s.mu.Lock()
	s.beginStage()
	s.state.LoadingAnalysis = true
	lang := s.state.Language
	s.mu.Unlock()

	image, err := readImage(r)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state.LoadingAnalysis = false
		s.fail(StageAnalysis, MsgFileReadFailed, op, err)
		return
	}

	slog.Info("Analyzing reference image", "op", op, "bytes", len(image))
	prompt, err := s.gateway.AnalyzeImage(ctx, image, lang)

	s.mu.Lock()
	s.state.LoadingAnalysis = false
	if err != nil {
		s.fail(StageAnalysis, MsgAnalysisFailed, op, err)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.submit(ctx, prompt, true)
}

func readImage(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	data, err = StripDataURI(data)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyImagePayload
	}
	return data, nil
}

// StripDataURI decodes a "data:<mime>;base64,<payload>" value. Anything else is returned as is.
func StripDataURI(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, []byte("data:")) {
		return data, nil
	}

	comma := bytes.IndexByte(data, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}

	payload := bytes.TrimSpace(data[comma+1:])
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(decoded, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	return decoded[:n], nil
}

// SelectTitle picks a title. Picking a different title invalidates every downstream result.
func (s *Session) SelectTitle(title models.TitleSuggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.SelectedTitle != nil && s.state.SelectedTitle.Text == title.Text {
		return
	}

	s.state.SelectedTitle = &title
	s.state.VideoDetails = nil
	s.state.GeneratedImage = nil
	s.state.CurrentVisualPrompt = ""
	s.state.ThumbnailHistory = nil
}

// SelectTitleAt picks the i-th title of the current suggestions
func (s *Session) SelectTitleAt(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.state.Titles) {
		s.mu.Unlock()
		return fmt.Errorf("title %d: %w", i, ErrIndexOutOfRange)
	}
	title := s.state.Titles[i]
	s.mu.Unlock()

	s.SelectTitle(title)
	return nil
}

// ensureKey asks the bridge for a key before premium image calls. Nothing here is fatal.
func (s *Session) ensureKey(ctx context.Context, model models.ImageModel, op string) {
	if !model.Premium() || s.bridge == nil {
		return
	}

	has, err := s.bridge.HasSelectedKey(ctx)
	if err != nil {
		slog.Warn("Unable to check selected key", "op", op, "err", err)
		return
	}
	if has {
		return
	}

	if err := s.bridge.SelectKey(ctx); err != nil {
		slog.Warn("Key selection failed or cancelled", "op", op, "err", err)
	}
}

// ConfirmAndGenerate generates SEO details for the selected title, then a thumbnail.
// A thumbnail failure keeps the details and reports a partial failure.
func (s *Session) ConfirmAndGenerate(ctx context.Context) error {
	op := newOpID()

	s.mu.Lock()
	if s.state.SelectedTitle == nil {
		s.mu.Unlock()
		return ErrNoTitleSelected
	}
	title := s.state.SelectedTitle.Text
	lang, model, ratio := s.state.Language, s.state.ImageModel, s.state.AspectRatio
	s.beginStage()
	s.state.LoadingDetails = true
	s.mu.Unlock()

	slog.Info("Generating video details", "op", op, "language", lang)
	details, err := s.gateway.GenerateDetails(ctx, title, lang)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state.LoadingDetails = false
		s.fail(StageDetails, MsgDetailsFailed, op, err)
		return nil
	}

	s.mu.Lock()
	s.state.VideoDetails = details.Clone()
	s.state.CurrentVisualPrompt = details.VisualPrompt
	s.mu.Unlock()

	s.ensureKey(ctx, model, op)

	slog.Info("Generating thumbnail", "op", op, "model", model, "aspect_ratio", ratio)
	img, err := s.gateway.GenerateThumbnailImage(ctx, title, details.VisualPrompt, model, ratio)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LoadingDetails = false
	if err != nil {
		s.fail(StageDetails, MsgThumbnailPartial, op, err)
		return nil
	}
	s.state.GeneratedImage = img
	s.state.ThumbnailHistory = pushHistory(s.state.ThumbnailHistory, img)
	return nil
}

// RegenerateThumbnail renders a fresh thumbnail from the current, possibly edited, prompt
func (s *Session) RegenerateThumbnail(ctx context.Context) error {
	op := newOpID()

	s.mu.Lock()
	if s.state.SelectedTitle == nil {
		s.mu.Unlock()
		return ErrNoTitleSelected
	}
	if s.state.CurrentVisualPrompt == "" {
		s.mu.Unlock()
		return ErrNoVisualPrompt
	}
	title, prompt := s.state.SelectedTitle.Text, s.state.CurrentVisualPrompt
	model, ratio := s.state.ImageModel, s.state.AspectRatio
	s.beginStage()
	s.state.LoadingDetails = true
	s.mu.Unlock()

	s.ensureKey(ctx, model, op)

	slog.Info("Regenerating thumbnail", "op", op, "model", model, "aspect_ratio", ratio)
	img, err := s.gateway.GenerateThumbnailImage(ctx, title, prompt, model, ratio)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LoadingDetails = false
	if err != nil {
		s.fail(StageDetails, MsgRegenerateFailed, op, err)
		return nil
	}
	s.state.GeneratedImage = img
	s.state.ThumbnailHistory = pushHistory(s.state.ThumbnailHistory, img)
	return nil
}

// GenerateScript adds a script to the existing video details
func (s *Session) GenerateScript(ctx context.Context) error {
	op := newOpID()

	s.mu.Lock()
	if s.state.SelectedTitle == nil {
		s.mu.Unlock()
		return ErrNoTitleSelected
	}
	if s.state.VideoDetails == nil {
		s.mu.Unlock()
		return ErrNoDetails
	}
	title, lang := s.state.SelectedTitle.Text, s.state.Language
	s.beginStage()
	s.state.LoadingScript = true
	s.mu.Unlock()

	slog.Info("Generating script", "op", op, "language", lang)
	script, err := s.gateway.GenerateScript(ctx, title, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LoadingScript = false
	if err != nil {
		s.fail(StageScript, MsgScriptFailed, op, err)
		return nil
	}
	if s.state.VideoDetails == nil {
		// a different title was selected while the script was in flight
		slog.Warn("Dropping script, video details were cleared", "op", op)
		return nil
	}
	s.state.VideoDetails.Script = &script
	return nil
}

// EditPrompt replaces the visual prompt used by RegenerateThumbnail
func (s *Session) EditPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentVisualPrompt = prompt
}

// SelectHistory shows the i-th history entry without reordering history
func (s *Session) SelectHistory(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.state.ThumbnailHistory) {
		return fmt.Errorf("history entry %d: %w", i, ErrIndexOutOfRange)
	}
	s.state.GeneratedImage = s.state.ThumbnailHistory[i]
	return nil
}

// SaveDescription stores a user-edited description
func (s *Session) SaveDescription(description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.VideoDetails == nil {
		return ErrNoDetails
	}
	s.state.VideoDetails.Description = description
	return nil
}

func (s *Session) SetImageModel(model models.ImageModel) error {
	if _, err := models.ParseImageModel(string(model)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ImageModel = model
	return nil
}

func (s *Session) SetAspectRatio(ratio models.AspectRatio) error {
	if _, err := models.ParseAspectRatio(string(ratio)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AspectRatio = ratio
	return nil
}

func (s *Session) SetLanguage(lang models.Language) error {
	parsed, err := models.ParseLanguage(string(lang))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Language = parsed
	return nil
}
