package form

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/goliatone/go-cvbuilder/pkg/cv"
)

// MaxPhotoSize is the largest accepted source image (2MB).
const MaxPhotoSize int64 = 2 * 1024 * 1024

var (
	// ErrPhotoTooLarge rejects images above MaxPhotoSize.
	ErrPhotoTooLarge = errors.New("form: photo must be 2MB or smaller")
	// ErrPhotoNotImage rejects files outside the image/* family.
	ErrPhotoNotImage = errors.New("form: photo must be an image file")
)

// Photo is an uploaded file handle. Size may be zero when unknown; the
// reader is then bounded while encoding.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// EncodePhoto validates p and returns a self-contained data URL.
func EncodePhoto(p Photo) (string, error) {
	if p.Reader == nil {
		return "", errors.New("form: photo reader is required")
	}
	if p.Size > MaxPhotoSize {
		return "", ErrPhotoTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(p.Reader, MaxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("form: read photo: %w", err)
	}
	if int64(len(data)) > MaxPhotoSize {
		return "", ErrPhotoTooLarge
	}

	mediaType := declaredMediaType(p.ContentType)
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = sniffImageType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", ErrPhotoNotImage
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// sniffImageType returns the detected media type when data or one of
// its detected ancestors is an image, and "" otherwise.
func sniffImageType(data []byte) string {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return declaredMediaType(detected.String())
		}
	}
	return ""
}

func declaredMediaType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// AttachPhoto encodes p and stores it on the record. Encoding happens
// outside the controller lock so other fields stay editable meanwhile.
// Rejections leave the record untouched.
func (c *Controller) AttachPhoto(ctx context.Context, p Photo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := EncodePhoto(p)
	if err != nil {
		return err
	}
	return c.Update(func(r *cv.Record) {
		r.Photo = encoded
	})
}

// RemovePhoto clears the photo field.
func (c *Controller) RemovePhoto() error {
	return c.Update(func(r *cv.Record) {
		r.Photo = ""
	})
}

// UserMessage maps upload errors to the one-shot message shown to users.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPhotoTooLarge):
		return "Photo size must be less than 2MB"
	case errors.Is(err, ErrPhotoNotImage):
		return "Please upload an image file"
	case err == nil:
		return ""
	default:
		return "Could not read the selected file"
	}
}
