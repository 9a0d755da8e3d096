// Package imgfetch downloads source images with a bounded wait and size so a
// slow or hostile host cannot stall a provider call.
package imgfetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultMIMEType is assumed when the upstream response omits Content-Type.
const DefaultMIMEType = "image/png"

const (
	downloadTimeout = 8 * time.Second
	maxImageBytes   = 15 << 20
)

// Downloader fetches image bytes over HTTP.
type Downloader struct {
	client *resty.Client
}

// NewDownloader creates a downloader with the bounded timeout applied.
func NewDownloader() *Downloader {
	client := resty.New()
	client.SetTimeout(downloadTimeout)
	return &Downloader{client: client}
}

// Bytes downloads the image at url and returns its raw bytes plus the
// detected content type. Network errors, timeouts, non-2xx statuses, and
// oversized payloads all fail the download.
func (d *Downloader) Bytes(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", fmt.Errorf("image url is empty")
	}

	resp, err := d.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, "", fmt.Errorf("image response was empty")
	}
	if len(body) > maxImageBytes {
		return nil, "", fmt.Errorf("image too large: %d bytes", len(body))
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = DefaultMIMEType
	}

	return body, contentType, nil
}

// Base64 downloads the image at url and returns its base64 encoding plus the
// detected content type.
func (d *Downloader) Base64(ctx context.Context, url string) (string, string, error) {
	body, contentType, err := d.Bytes(ctx, url)
	if err != nil {
		return "", "", err
	}
	return base64.StdEncoding.EncodeToString(body), contentType, nil
}
