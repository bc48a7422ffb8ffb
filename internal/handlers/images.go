package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// HandleImage serves a generated thumbnail by content id
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/images/")
	if id == "" || strings.Contains(id, "/") {
		h.writeError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	img, ok := h.images.Get(id)
	if !ok {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	// ids are content hashes
	w.Header().Set("Cache-Control", "private, max-age=3600, immutable")
	if _, err := w.Write(img.Data); err != nil {
		slog.Error("Unable to write image", "id", id, "err", err)
	}
}
