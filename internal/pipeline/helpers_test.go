package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/providers"
)

type thumbnailCall struct {
	Title        string
	VisualPrompt string
	Model        models.ImageModel
	AspectRatio  models.AspectRatio
}

// fakeGateway is a scripted providers.Gateway. Errors are returned when set;
// a non-nil gate channel blocks the call until a value is received.
type fakeGateway struct {
	mu sync.Mutex

	analysis    string
	analysisErr error
	titles      []models.TitleSuggestion
	titlesErr   error
	byTopic     map[string][]models.TitleSuggestion
	details     models.VideoDetails
	detailsErr  error
	script      models.VideoScript
	scriptErr   error
	imageErr    error
	imageCount  int

	titlesGate chan struct{}
	imageGate  chan struct{}
	imageStart chan struct{}

	analyzeInputs  [][]byte
	titleTopics    []string
	detailTitles   []string
	scriptTitles   []string
	thumbnailCalls []thumbnailCall
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		analysis: "warm latte art close-up, soft morning light",
		titles:   fiveTitles(),
		details:  coffeeDetails(),
		script: models.VideoScript{
			Intro:        "Stop paying for cafe coffee.",
			MainContent:  []string{"Beans", "Grind", "Brew"},
			CallToAction: "Subscribe for more.",
		},
	}
}

func fiveTitles() []models.TitleSuggestion {
	return []models.TitleSuggestion{
		{Text: "Cafe Coffee at Home for $1", HookType: "Benefit", Score: 92},
		{Text: "Baristas Hate This Trick", HookType: "Curiosity", Score: 88},
		{Text: "The 5-Minute Perfect Cup", HookType: "How-to", Score: 85},
		{Text: "Stop Making Coffee Wrong", HookType: "Urgency", Score: 80},
		{Text: "I Tried 10 Brew Methods", HookType: "Shock", Score: 77},
	}
}

func coffeeDetails() models.VideoDetails {
	d := models.VideoDetails{
		VisualPrompt: "A steaming ceramic mug on a rustic kitchen counter, dramatic rim light",
		Description:  "☕ Learn to brew cafe-quality coffee at home! 👇",
		SEOTips:      []string{"Use the keyword in the first line", "Add chapters", "Pin a comment"},
	}
	for i := 0; i < 10; i++ {
		d.Hashtags = append(d.Hashtags, fmt.Sprintf("#coffee%d", i))
	}
	for i := 0; i < 15; i++ {
		d.Keywords = append(d.Keywords, fmt.Sprintf("coffee keyword %d", i))
	}
	return d
}

func (f *fakeGateway) AnalyzeImage(ctx context.Context, image []byte, lang models.Language) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzeInputs = append(f.analyzeInputs, image)
	return f.analysis, f.analysisErr
}

func (f *fakeGateway) GenerateTitles(ctx context.Context, topic string, lang models.Language) ([]models.TitleSuggestion, error) {
	f.mu.Lock()
	f.titleTopics = append(f.titleTopics, topic)
	gate := f.titlesGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.titlesErr != nil {
		return nil, f.titlesErr
	}
	if titles, ok := f.byTopic[topic]; ok {
		return append([]models.TitleSuggestion(nil), titles...), nil
	}
	return append([]models.TitleSuggestion(nil), f.titles...), nil
}

func (f *fakeGateway) GenerateDetails(ctx context.Context, title string, lang models.Language) (models.VideoDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailTitles = append(f.detailTitles, title)
	if f.detailsErr != nil {
		return models.VideoDetails{}, f.detailsErr
	}
	return *f.details.Clone(), nil
}

func (f *fakeGateway) GenerateScript(ctx context.Context, title string, lang models.Language) (models.VideoScript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scriptTitles = append(f.scriptTitles, title)
	return f.script, f.scriptErr
}

func (f *fakeGateway) GenerateThumbnailImage(ctx context.Context, title, visualPrompt string, model models.ImageModel, ratio models.AspectRatio) ([]byte, error) {
	f.mu.Lock()
	f.thumbnailCalls = append(f.thumbnailCalls, thumbnailCall{title, visualPrompt, model, ratio})
	start, gate := f.imageStart, f.imageGate
	f.mu.Unlock()
	if start != nil {
		start <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	f.imageCount++
	return []byte(fmt.Sprintf("image-%d", f.imageCount)), nil
}

func (f *fakeGateway) titleCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.titleTopics)
}

func (f *fakeGateway) thumbnailCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.thumbnailCalls)
}

var _ providers.Gateway = (*fakeGateway)(nil)

type fakeBridge struct {
	has       bool
	hasErr    error
	selectErr error
	checks    int
	selects   int
}

func (b *fakeBridge) HasSelectedKey(ctx context.Context) (bool, error) {
	b.checks++
	return b.has, b.hasErr
}

func (b *fakeBridge) SelectKey(ctx context.Context) error {
	b.selects++
	return b.selectErr
}

// readySession returns a session with titles generated and the given title selected
func readySession(gw *fakeGateway, bridge KeyBridge, index int) *Session {
	s := NewSession(gw, bridge, Settings{})
	s.SubmitTopic(context.Background(), "how to make coffee at home")
	if err := s.SelectTitleAt(index); err != nil {
		panic(err)
	}
	return s
}
