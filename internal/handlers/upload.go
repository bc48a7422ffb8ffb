package handlers

import (
	"bytes"
	"net/http"
	"strings"
)

// HandleImageUpload accepts a reference image as a multipart file, a JSON data URI
// or a JSON image_url, and runs it through image analysis into title generation.
func (h *Handler) HandleImageUpload(w http.ResponseWriter, r *http.Request) {
	if !h.allowMethod(w, r, http.MethodPost) {
		return
	}

	// Check if this is a JSON request with an inline image or URL
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleJSONUpload(w, r)
		return
	}

	// Handle file upload
	h.handleFileUpload(w, r)
}

func (h *Handler) handleJSONUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Image    string `json:"image"`
		ImageURL string `json:"image_url"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadLimit*2)
	if !h.decodeJSON(w, r, &request) {
		return
	}

	switch {
	case request.Image != "":
		if !strings.HasPrefix(request.Image, "data:") {
			h.writeError(w, "image must be a data URI", http.StatusBadRequest)
			return
		}
		h.session.SubmitImage(r.Context(), strings.NewReader(request.Image))
	case request.ImageURL != "":
		imageData, err := h.downloadImageFromURL(r, request.ImageURL)
		if err != nil {
			h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
			return
		}
		logImageInfo(imageData, "url", request.ImageURL)
		h.session.SubmitImage(r.Context(), bytes.NewReader(imageData))
	default:
		h.writeError(w, "image or image_url is required", http.StatusBadRequest)
		return
	}

	h.writeState(w)
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileData, err := h.readLimited(file)
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusBadRequest)
		return
	}

	logImageInfo(fileData, "filename", header.Filename)
	h.session.SubmitImage(r.Context(), bytes.NewReader(fileData))
	h.writeState(w)
}
