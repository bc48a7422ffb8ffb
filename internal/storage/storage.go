package storage

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// Image is a stored thumbnail with its sniffed content type
type Image struct {
	Data        []byte
	ContentType string
}

// ImageStore keeps generated thumbnails addressable by the MD5 of their bytes
// so the state endpoint can hand out URLs instead of inline payloads.
// Entries expire after ttl unless touched again by Put.
type ImageStore struct {
	images *cache.Cache
	ttl    time.Duration
}

func New(ttl time.Duration) *ImageStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ImageStore{
		images: cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// ID returns the content address of data
func ID(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Put stores data and returns its id. Storing the same bytes again refreshes the expiry.
func (s *ImageStore) Put(data []byte) string {
	id := ID(data)
	s.images.Set(id, Image{
		Data:        data,
		ContentType: http.DetectContentType(data),
	}, s.ttl)
	return id
}

func (s *ImageStore) Get(id string) (Image, bool) {
	v, ok := s.images.Get(id)
	if !ok {
		return Image{}, false
	}
	img, ok := v.(Image)
	return img, ok
}
