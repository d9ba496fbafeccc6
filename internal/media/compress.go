// Package media shrinks uploaded card artwork before it is stored in session
// and order snapshots. Compression is best-effort: anything that cannot be
// decoded passes through untouched, because a printable original beats a
// rejected upload.
package media

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

const (
	// MaxWidth is the widest stored upload; print assets are rendered from
	// the transform, not the raw upload, so this is plenty.
	MaxWidth = 800
	// JPEGQuality is the re-encode quality.
	JPEGQuality = 70
)

// Compress decodes an uploaded image, downscales it to at most MaxWidth
// preserving aspect ratio, and re-encodes it as JPEG. On any failure the
// original bytes come back unchanged.
func Compress(data []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.WithError(err).Debug("upload compression skipped: undecodable image")
		return data
	}

	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		log.WithError(err).Debug("upload compression skipped: re-encode failed")
		return data
	}
	return buf.Bytes()
}

// CompressDataURL compresses an image carried as a data URL, returning a
// `data:image/jpeg;base64,` URL. Inputs that are not data URLs, or that fail
// to compress, come back unchanged.
func CompressDataURL(dataURL string) string {
	payload, ok := decodeDataURL(dataURL)
	if !ok {
		return dataURL
	}
	compressed := Compress(payload)
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(compressed)
}

func decodeDataURL(dataURL string) ([]byte, bool) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, false
	}
	idx := strings.Index(dataURL, ",")
	if idx < 0 {
		return nil, false
	}
	header, body := dataURL[:idx], dataURL[idx+1:]
	if !strings.Contains(header, ";base64") {
		return nil, false
	}
	payload, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, false
	}
	return payload, true
}
