package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/memelab/memelab/internal/domain"
	"github.com/memelab/memelab/internal/imgfetch"
	"github.com/memelab/memelab/internal/logger"
	"github.com/memelab/memelab/internal/prompts"
	"github.com/memelab/memelab/internal/taxonomy"
)

// Config holds configuration for the classification provider.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Pipeline classifies memes through an OpenAI-compatible vision model, with
// a bounded multi-attempt strategy and a deterministic heuristic fallback.
// Analyze never fails: when the provider is unconfigured, unreachable, or
// unparsable, the heuristic result is returned with fallback metadata.
type Pipeline struct {
	client     *resty.Client
	downloader *imgfetch.Downloader
	model      string
	endpoint   string
	apiKey     string
}

// NewPipeline creates a classification pipeline. A nil config or empty API
// key yields an unconfigured pipeline that always answers heuristically.
func NewPipeline(cfg *Config) *Pipeline {
	if cfg == nil {
		cfg = &Config{}
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-5-mini"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	return &Pipeline{
		client:     client,
		downloader: imgfetch.NewDownloader(),
		model:      model,
		endpoint:   baseURL + "/chat/completions",
		apiKey:     cfg.APIKey,
	}
}

// Configured reports whether a provider credential is present.
func (p *Pipeline) Configured() bool {
	return p.apiKey != ""
}

// AnalyzeRequest identifies the meme to classify. Offline suppresses the
// provider call and forces the heuristic path.
type AnalyzeRequest struct {
	Title    string
	ImageURL string
	Offline  bool
}

// attempt pairs a response-shape contract with its parsing strategy.
// Attempts run strictly in order; the first non-nil parse wins.
type attempt struct {
	label string
	extra []string
	parse func(string) *parsedAnalysis
}

// Analyze classifies a meme. It always returns a complete result with a
// non-empty summary, at most three unique tags, and fallback metadata when
// no live provider parse was used.
func (p *Pipeline) Analyze(ctx context.Context, req AnalyzeRequest) *domain.AnalysisResult {
	var reasons []string
	if !p.Configured() {
		reasons = append(reasons, "missing API key")
	}
	if req.Offline {
		reasons = append(reasons, "offline mode")
	}
	if len(reasons) > 0 {
		return p.heuristic(req, reasons, "")
	}

	imageBase64, contentType, err := p.downloader.Base64(ctx, req.ImageURL)
	if err != nil {
		logger.CtxWarn(ctx, "Analysis image download failed: %v", err)
		return p.heuristic(req, []string{"image download failed"}, "")
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, imageBase64)

	instructions := append([]string{}, prompts.AnalysisInstructions...)
	if req.Title != "" {
		instructions = append(instructions, "Meme title: "+req.Title)
	}

	attempts := []attempt{
		{label: "structured-text", parse: parseStructuredText},
		{label: "fallback-json", extra: []string{prompts.AnalysisStrictJSONInstruction}, parse: parseStrictJSON},
	}

	var finishReason string
	for _, a := range attempts {
		raw, err := p.call(ctx, dataURL, append(instructions, a.extra...))
		if err != nil {
			logger.CtxWarn(ctx, "Classification attempt %s failed: %v", a.label, err)
			continue
		}

		text, fr := extractText(raw)
		if fr != "" {
			finishReason = fr
		}

		parsed := a.parse(text)
		if parsed == nil {
			logger.CtxDebug(ctx, "Classification attempt %s produced no usable summary", a.label)
			continue
		}

		return &domain.AnalysisResult{
			Summary:    parsed.Summary,
			Tags:       capTags(taxonomy.Normalize(parsed.Tags)),
			Categories: emptyCategories(),
			Meta: domain.AnalysisMeta{
				Provider:     p.model,
				Attempt:      a.label,
				FinishReason: finishReason,
			},
		}
	}

	reason := "parse failure after retries"
	if finishReason == "length" {
		reason = "model truncated output (length)"
	}
	return p.heuristic(req, []string{reason}, finishReason)
}

func (p *Pipeline) call(ctx context.Context, dataURL string, instructions []string) ([]byte, error) {
	body := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompts.AnalysisSystemPrompt},
			{
				Role: "user",
				Content: []interface{}{
					textContent{Type: "text", Text: strings.Join(instructions, "\n")},
					imageContent{Type: "image_url", ImageURL: imageRef{URL: dataURL}},
				},
			},
		},
		MaxCompletionTokens: 512,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("provider returned HTTP %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// heuristic builds the deterministic fallback result. Without a title the
// generic quick-laugh result is used, matching the provider-free baseline.
func (p *Pipeline) heuristic(req AnalyzeRequest, reasons []string, finishReason string) *domain.AnalysisResult {
	provider := "heuristic"
	if p.Configured() {
		provider = p.model
	}
	meta := domain.AnalysisMeta{
		Provider:     provider,
		Fallback:     true,
		Reason:       strings.Join(reasons, " & "),
		FinishReason: finishReason,
	}

	if req.Title == "" {
		return &domain.AnalysisResult{
			Summary: "This meme delivers a quick laugh.",
			Tags:    []string{taxonomy.LabelPlayful},
			Categories: domain.Categories{
				Format:    []string{},
				Cognitive: []string{},
				Emotional: []string{taxonomy.LabelPlayful},
			},
			Meta: meta,
		}
	}

	classification := taxonomy.Classify(req.Title, req.ImageURL)
	return &domain.AnalysisResult{
		Summary: taxonomy.Summarize(req.Title, classification),
		Tags:    capTags(taxonomy.Tags(classification)),
		Categories: domain.Categories{
			Format:    classification.Format,
			Cognitive: classification.Cognitive,
			Emotional: classification.Emotional,
		},
		Meta: meta,
	}
}

func emptyCategories() domain.Categories {
	return domain.Categories{
		Format:    []string{},
		Cognitive: []string{},
		Emotional: []string{},
	}
}

// OpenAI-compatible chat-completion request structures.

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string for system, []interface{} for user with images
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageContent struct {
	Type     string   `json:"type"`
	ImageURL imageRef `json:"image_url"`
}

type imageRef struct {
	URL string `json:"url"`
}
