package handlers

import (
	"net/http"

	"github.com/tubeseo/tubeseo/internal/models"
	"github.com/tubeseo/tubeseo/internal/pipeline"
)

type imageRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// stateResponse replaces raw image bytes with store references
type stateResponse struct {
	pipeline.State
	GeneratedImage   *imageRef                               `json:"generatedImage"`
	ThumbnailHistory []imageRef                              `json:"thumbnailHistory"`
	Stages           map[pipeline.Stage]pipeline.StageStatus `json:"stages"`
}

func (h *Handler) ref(data []byte) imageRef {
	id := h.images.Put(data)
	return imageRef{ID: id, URL: "/api/images/" + id}
}

func (h *Handler) stateResponse() stateResponse {
	st := h.session.Snapshot()
	resp := stateResponse{
		State:            st,
		ThumbnailHistory: make([]imageRef, 0, len(st.ThumbnailHistory)),
		Stages:           make(map[pipeline.Stage]pipeline.StageStatus, len(pipeline.Stages())),
	}
	if len(st.GeneratedImage) > 0 {
		ref := h.ref(st.GeneratedImage)
		resp.GeneratedImage = &ref
	}
	for _, img := range st.ThumbnailHistory {
		resp.ThumbnailHistory = append(resp.ThumbnailHistory, h.ref(img))
	}
	for _, stage := range pipeline.Stages() {
		resp.Stages[stage] = st.Stage(stage)
	}
	return resp
}

func (h *Handler) writeState(w http.ResponseWriter) {
	h.writeJSON(w, h.stateResponse())
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleTopic(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	var request struct {
		Input string `json:"input"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.Input == "" {
		h.writeError(w, "input is required", http.StatusBadRequest)
		return
	}

	h.session.SubmitTopic(r.Context(), request.Input)
	h.writeState(w)
}

func (h *Handler) HandleSelectTitle(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	var request struct {
		Text  string `json:"text"`
		Index *int   `json:"index"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	switch {
	case request.Index != nil:
		if err := h.session.SelectTitleAt(*request.Index); err != nil {
			h.writeGuardError(w, err)
			return
		}
	case request.Text != "":
		title, ok := findTitle(h.session.Snapshot().Titles, request.Text)
		if !ok {
			h.writeError(w, "title not among current suggestions", http.StatusBadRequest)
			return
		}
		h.session.SelectTitle(title)
	default:
		h.writeError(w, "text or index is required", http.StatusBadRequest)
		return
	}
	h.writeState(w)
}

func findTitle(titles []models.TitleSuggestion, text string) (models.TitleSuggestion, bool) {
	for _, t := range titles {
		if t.Text == text {
			return t, true
		}
	}
	return models.TitleSuggestion{}, false
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.session.ConfirmAndGenerate(r.Context()); err != nil {
		h.writeGuardError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleThumbnail(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.session.RegenerateThumbnail(r.Context()); err != nil {
		h.writeGuardError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleScript(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.session.GenerateScript(r.Context()); err != nil {
		h.writeGuardError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandlePrompt(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPut) {
		return
	}
	var request struct {
		Prompt string `json:"prompt"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	h.session.EditPrompt(request.Prompt)
	h.writeState(w)
}

func (h *Handler) HandleSelectHistory(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}
	var request struct {
		Index *int `json:"index"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.Index == nil {
		h.writeError(w, "index is required", http.StatusBadRequest)
		return
	}
	if err := h.session.SelectHistory(*request.Index); err != nil {
		h.writeGuardError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleDescription(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPut) {
		return
	}
	var request struct {
		Description string `json:"description"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if err := h.session.SaveDescription(request.Description); err != nil {
		h.writeGuardError(w, err)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPut) {
		return
	}
	var request struct {
		ImageModel  string `json:"imageModel"`
		AspectRatio string `json:"aspectRatio"`
		Language    string `json:"language"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	// validate everything before applying anything
	var settings []func() error
	if request.ImageModel != "" {
		model, err := models.ParseImageModel(request.ImageModel)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		settings = append(settings, func() error { return h.session.SetImageModel(model) })
	}
	if request.AspectRatio != "" {
		ratio, err := models.ParseAspectRatio(request.AspectRatio)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		settings = append(settings, func() error { return h.session.SetAspectRatio(ratio) })
	}
	if request.Language != "" {
		lang, err := models.ParseLanguage(request.Language)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		settings = append(settings, func() error { return h.session.SetLanguage(lang) })
	}

	for _, apply := range settings {
		if err := apply(); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	h.writeState(w)
}

type imageModelOption struct {
	ID      models.ImageModel  `json:"id"`
	Family  models.ModelFamily `json:"family"`
	Premium bool               `json:"premium"`
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}
	var imageModels []imageModelOption
	for _, m := range models.ImageModels() {
		imageModels = append(imageModels, imageModelOption{ID: m, Family: m.Family(), Premium: m.Premium()})
	}
	h.writeJSON(w, map[string]any{
		"imageModels":  imageModels,
		"aspectRatios": models.AspectRatios(),
		"languages":    models.Languages(),
	})
}
