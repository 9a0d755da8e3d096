// Package remix rewrites meme images through Gemini image generation.
package remix

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/memelab/memelab/internal/domain"
	"github.com/memelab/memelab/internal/imgfetch"
	"github.com/memelab/memelab/internal/prompts"
)

var (
	// ErrNotConfigured means no Gemini credential is present.
	ErrNotConfigured = errors.New("remix provider is not configured")
	// ErrDownload wraps source-image download failures.
	ErrDownload = errors.New("failed to fetch source image")
	// ErrNoImage means the model answered without any inline image.
	ErrNoImage = errors.New("remix response contained no image")
)

// Config holds configuration for the remix provider.
type Config struct {
	APIKey string
	Model  string
}

// generator abstracts the Gemini client for tests.
type generator interface {
	generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

// Pipeline downloads a source meme, sends it to Gemini with the user's
// instructions, and returns the edited image as a data URL.
type Pipeline struct {
	gen        generator
	downloader *imgfetch.Downloader
	model      string
}

// NewPipeline creates a remix pipeline. An empty API key yields an
// unconfigured pipeline whose Remix always returns ErrNotConfigured.
func NewPipeline(ctx context.Context, cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}

	p := &Pipeline{
		downloader: imgfetch.NewDownloader(),
		model:      model,
	}
	if cfg.APIKey == "" {
		return p, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create remix client: %w", err)
	}
	p.gen = &genaiGenerator{client: client}
	return p, nil
}

// Configured reports whether a remix provider credential is present.
func (p *Pipeline) Configured() bool {
	return p.gen != nil
}

// Request identifies the source image and how to transform it.
type Request struct {
	ImageURL     string
	Instructions string
}

// Remix edits the image per the instructions and returns the result inline.
func (p *Pipeline) Remix(ctx context.Context, req Request) (*domain.RemixResult, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	data, mimeType, err := p.downloader.Bytes(ctx, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			genai.NewPartFromText(prompts.RemixInstructionPrefix + req.Instructions),
		}, genai.RoleUser),
	}

	resp, err := p.gen.generate(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("remix generation failed: %w", err)
	}

	blob := firstInlineImage(resp)
	if blob == nil {
		return nil, ErrNoImage
	}

	outMIME := blob.MIMEType
	if outMIME == "" {
		outMIME = imgfetch.DefaultMIMEType
	}
	return &domain.RemixResult{
		EditedImageURL: "data:" + outMIME + ";base64," + base64.StdEncoding.EncodeToString(blob.Data),
	}, nil
}

// firstInlineImage walks candidates in order and returns the first part
// carrying inline image bytes.
func firstInlineImage(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}
