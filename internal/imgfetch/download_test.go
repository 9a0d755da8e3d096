package imgfetch

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBytes(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Write(payload)
	}))
	defer server.Close()

	body, contentType, err := NewDownloader().Bytes(context.Background(), server.URL+"/meme.gif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != string(payload) {
		t.Errorf("unexpected body %v", body)
	}
	if contentType != "image/gif" {
		t.Errorf("unexpected content type %q", contentType)
	}
}

func TestBase64DefaultsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write([]byte("img-bytes"))
	}))
	defer server.Close()

	encoded, contentType, err := NewDownloader().Base64(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != DefaultMIMEType {
		t.Errorf("expected default content type, got %q", contentType)
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if string(decoded) != "img-bytes" {
		t.Errorf("unexpected decoded body %q", decoded)
	}
}

func TestBytesFailures(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer empty.Close()

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty url", url: ""},
		{name: "non-2xx status", url: notFound.URL},
		{name: "empty body", url: empty.URL},
	}

	d := NewDownloader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := d.Bytes(context.Background(), tt.url); err == nil {
				t.Error("expected error")
			}
		})
	}
}
