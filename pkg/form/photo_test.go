package form_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cvbuilder/pkg/form"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestEncodePhoto(t *testing.T) {
	cases := []struct {
		name    string
		photo   form.Photo
		prefix  string
		wantErr error
	}{
		{
			name:   "declared type",
			photo:  form.Photo{ContentType: "image/jpeg", Reader: bytes.NewReader([]byte("jpeg-bytes"))},
			prefix: "data:image/jpeg;base64,",
		},
		{
			name:   "sniffed type",
			photo:  form.Photo{Reader: bytes.NewReader(pngHeader)},
			prefix: "data:image/png;base64,",
		},
		{
			name:   "sniffed svg",
			photo:  form.Photo{Reader: strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)},
			prefix: "data:image/svg+xml;base64,",
		},
		{
			name:   "octet-stream sniffed as png",
			photo:  form.Photo{ContentType: "application/octet-stream", Reader: bytes.NewReader(pngHeader)},
			prefix: "data:image/png;base64,",
		},
		{
			name:    "sniffed text",
			photo:   form.Photo{Reader: strings.NewReader("just some notes")},
			wantErr: form.ErrPhotoNotImage,
		},
		{
			name:    "not an image",
			photo:   form.Photo{ContentType: "application/pdf", Reader: strings.NewReader("%PDF-1.4")},
			wantErr: form.ErrPhotoNotImage,
		},
		{
			name:    "declared size too large",
			photo:   form.Photo{ContentType: "image/png", Size: form.MaxPhotoSize + 1, Reader: bytes.NewReader(pngHeader)},
			wantErr: form.ErrPhotoTooLarge,
		},
		{
			name:    "streamed size too large",
			photo:   form.Photo{ContentType: "image/png", Reader: bytes.NewReader(make([]byte, form.MaxPhotoSize+1))},
			wantErr: form.ErrPhotoTooLarge,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := form.EncodePhoto(tc.photo)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !strings.HasPrefix(got, tc.prefix) {
				t.Fatalf("expected prefix %q, got %q", tc.prefix, got)
			}
		})
	}
}

func TestController_AttachAndRemovePhoto(t *testing.T) {
	store, d, clock := newFixture(t)
	ctrl := form.NewController(context.Background(), store, d.ID, d.Data, form.WithClock(clock))
	t.Cleanup(ctrl.Close)

	err := ctrl.AttachPhoto(context.Background(), form.Photo{ContentType: "text/plain", Reader: strings.NewReader("hi")})
	if form.UserMessage(err) != "Please upload an image file" {
		t.Fatalf("unexpected message for %v", err)
	}
	if ctrl.Record().Photo != "" {
		t.Fatalf("rejected upload must not change the record")
	}

	if err := ctrl.AttachPhoto(context.Background(), form.Photo{Reader: bytes.NewReader(pngHeader)}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if !strings.HasPrefix(ctrl.Record().Photo, "data:image/png;base64,") {
		t.Fatalf("expected data url, got %q", ctrl.Record().Photo)
	}

	if err := ctrl.RemovePhoto(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ctrl.Record().Photo != "" {
		t.Fatalf("expected photo cleared")
	}
}

func TestUserMessage(t *testing.T) {
	if got := form.UserMessage(form.ErrPhotoTooLarge); got != "Photo size must be less than 2MB" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := form.UserMessage(nil); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
}
