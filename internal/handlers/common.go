package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tubeseo/tubeseo/internal/pipeline"
	"github.com/tubeseo/tubeseo/internal/storage"
)

const defaultUploadLimit = 10 << 20

type Handler struct {
	session     *pipeline.Session
	images      *storage.ImageStore
	uploadLimit int64
	client      *http.Client
}

// New returns handlers for the single process-wide session
func New(session *pipeline.Session, images *storage.ImageStore, uploadLimit int64) *Handler {
	if uploadLimit <= 0 {
		uploadLimit = defaultUploadLimit
	}
	return &Handler{
		session:     session,
		images:      images,
		uploadLimit: uploadLimit,
		client:      http.DefaultClient,
	}
}

// Register mounts every API route on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", h.HandleState)
	mux.HandleFunc("/api/topic", h.HandleTopic)
	mux.HandleFunc("/api/image", h.HandleImageUpload)
	mux.HandleFunc("/api/titles/select", h.HandleSelectTitle)
	mux.HandleFunc("/api/generate", h.HandleGenerate)
	mux.HandleFunc("/api/thumbnail", h.HandleThumbnail)
	mux.HandleFunc("/api/prompt", h.HandlePrompt)
	mux.HandleFunc("/api/history/select", h.HandleSelectHistory)
	mux.HandleFunc("/api/script", h.HandleScript)
	mux.HandleFunc("/api/description", h.HandleDescription)
	mux.HandleFunc("/api/settings", h.HandleSettings)
	mux.HandleFunc("/api/options", h.HandleOptions)
	mux.HandleFunc("/api/images/", h.HandleImage)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// writeGuardError maps a refused transition to a status code
func (h *Handler) writeGuardError(w http.ResponseWriter, err error) {
	if errors.Is(err, pipeline.ErrIndexOutOfRange) {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeError(w, err.Error(), http.StatusConflict)
}

// Request helpers
func (h *Handler) allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
