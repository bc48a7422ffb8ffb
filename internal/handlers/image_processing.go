package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tubeseo/tubeseo/internal/storage"
)

var errTooLarge = errors.New("file too large")

// readLimited reads at most uploadLimit bytes and fails if there is more
func (h *Handler) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, h.uploadLimit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.uploadLimit {
		return nil, fmt.Errorf("%w (max %dMB)", errTooLarge, h.uploadLimit>>20)
	}
	return data, nil
}

func (h *Handler) downloadImageFromURL(r *http.Request, imageURL string) ([]byte, error) {
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return nil, fmt.Errorf("unsupported URL scheme: %s", imageURL)
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	imageData, err := h.readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// logImageInfo records what was uploaded. Undecodable images are still passed on.
func logImageInfo(data []byte, source, name string) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to get image dimensions", source, name, "err", err)
		return
	}
	slog.Info("Reference image received", source, name,
		"md5", storage.ID(data), "format", format, "width", cfg.Width, "height", cfg.Height)
}
