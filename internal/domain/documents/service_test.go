package documents

import (
	"bytes"
	"context"
	"testing"
)

func TestUploadRejectsOversizedContent(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Upload(context.Background(), "t1", "u1", UploadInput{
		Title:       "big",
		ContentType: "application/pdf",
		Content:     bytes.Repeat([]byte{0x1}, MaxDocumentBytes+1),
	})
	if err == nil {
		t.Fatal("expected size error")
	}
}

func TestUploadRejectsEmptyContent(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Upload(context.Background(), "t1", "u1", UploadInput{
		Title:       "empty",
		ContentType: "application/pdf",
	})
	if err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestUploadRejectsDisallowedContentType(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Upload(context.Background(), "t1", "u1", UploadInput{
		Title:       "script",
		ContentType: "application/x-msdownload",
		Content:     []byte("MZ"),
	})
	if err == nil {
		t.Fatal("expected content-type error")
	}
}

func TestAllowedContentType(t *testing.T) {
	cases := map[string]bool{
		"application/pdf": true,
		"image/png":       true,
		"image/jpeg":      true,
		"text/plain":      true,
		"text/html":       false,
		"":                false,
	}
	for ct, want := range cases {
		if got := AllowedContentType(ct); got != want {
			t.Errorf("AllowedContentType(%q) = %v, want %v", ct, got, want)
		}
	}
}
