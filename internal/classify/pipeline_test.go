package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/memelab/memelab/internal/taxonomy"
)

// tinyPNG is a 1x1 transparent PNG, enough to exercise the download path.
var tinyPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0D, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(tinyPNG)
	}))
	t.Cleanup(server.Close)
	return server
}

func chatResponse(content, finishReason string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"content": content},
				"finish_reason": finishReason,
			},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

// newProviderServer returns an OpenAI-compatible stub that replies with
// responses[callIndex], repeating the last entry once exhausted.
func newProviderServer(t *testing.T, calls *int32, responses ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		index := int(atomic.AddInt32(calls, 1)) - 1
		if index >= len(responses) {
			index = len(responses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, responses[index])
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestPipeline(serverURL string) *Pipeline {
	return NewPipeline(&Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: serverURL,
	})
}

func TestAnalyzeUnconfigured(t *testing.T) {
	pipeline := NewPipeline(nil)
	if pipeline.Configured() {
		t.Fatal("expected pipeline without key to be unconfigured")
	}

	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "when the wifi dies",
		ImageURL: "https://example.com/meme.png",
	})

	if !result.Meta.Fallback {
		t.Error("expected fallback result")
	}
	if result.Meta.Reason != "missing API key" {
		t.Errorf("unexpected reason %q", result.Meta.Reason)
	}
	if result.Meta.Provider != "heuristic" {
		t.Errorf("expected heuristic provider, got %q", result.Meta.Provider)
	}
	if result.Summary == "" {
		t.Error("expected non-empty summary")
	}
	if len(result.Tags) == 0 || len(result.Tags) > 3 {
		t.Errorf("expected 1-3 tags, got %v", result.Tags)
	}
}

func TestAnalyzeReasonJoining(t *testing.T) {
	pipeline := NewPipeline(nil)

	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:   "cat meme",
		Offline: true,
	})

	if result.Meta.Reason != "missing API key & offline mode" {
		t.Errorf("unexpected reason %q", result.Meta.Reason)
	}
}

func TestAnalyzeOfflineSkipsProvider(t *testing.T) {
	var calls int32
	provider := newProviderServer(t, &calls, chatResponse("Summary: never used\nTags: Playful", "stop"))
	pipeline := newTestPipeline(provider.URL)

	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "offline cached meme",
		ImageURL: "https://example.com/meme.png",
		Offline:  true,
	})

	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("expected no provider calls, got %d", calls)
	}
	if result.Meta.Reason != "offline mode" {
		t.Errorf("unexpected reason %q", result.Meta.Reason)
	}
	if result.Meta.Provider != "test-model" {
		t.Errorf("expected configured model as provider, got %q", result.Meta.Provider)
	}
}

func TestAnalyzeImageDownloadFailure(t *testing.T) {
	var calls int32
	provider := newProviderServer(t, &calls, chatResponse("unused", "stop"))
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer images.Close()

	pipeline := newTestPipeline(provider.URL)
	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "missing image",
		ImageURL: images.URL + "/gone.png",
	})

	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("expected no provider calls after download failure, got %d", calls)
	}
	if result.Meta.Reason != "image download failed" {
		t.Errorf("unexpected reason %q", result.Meta.Reason)
	}
	if !result.Meta.Fallback {
		t.Error("expected fallback result")
	}
}

func TestAnalyzeStructuredTextSuccess(t *testing.T) {
	images := newImageServer(t)

	var calls int32
	var authHeader string
	var body []byte
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		authHeader = r.Header.Get("Authorization")
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatResponse("Summary: A router mocks its owner.\nTags: reaction, pun", "stop"))
	}))
	defer provider.Close()

	pipeline := newTestPipeline(provider.URL)
	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "wifi betrayal",
		ImageURL: images.URL + "/meme.png",
	})

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one provider call, got %d", calls)
	}
	if authHeader != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", authHeader)
	}
	if !strings.Contains(string(body), "data:image/png;base64,") {
		t.Error("expected inline data URL in request body")
	}
	if !strings.Contains(string(body), "max_completion_tokens") {
		t.Error("expected token cap in request body")
	}
	if !strings.Contains(string(body), "wifi betrayal") {
		t.Error("expected meme title in request body")
	}

	if result.Meta.Fallback {
		t.Errorf("expected live result, got fallback: %q", result.Meta.Reason)
	}
	if result.Meta.Attempt != "structured-text" {
		t.Errorf("unexpected attempt %q", result.Meta.Attempt)
	}
	if result.Summary != "A router mocks its owner." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	want := []string{taxonomy.LabelReaction, taxonomy.LabelWordplay}
	if !reflect.DeepEqual(result.Tags, want) {
		t.Errorf("expected normalized tags %v, got %v", want, result.Tags)
	}
}

func TestAnalyzeSecondAttemptSucceeds(t *testing.T) {
	images := newImageServer(t)

	var calls int32
	var secondBody string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			fmt.Fprint(w, chatResponse("I looked at the image and it seems", "stop"))
			return
		}
		raw, _ := io.ReadAll(r.Body)
		secondBody = string(raw)
		fmt.Fprint(w, chatResponse(`{"summary": "Second try lands.", "tags": ["Meta"]}`, "stop"))
	}))
	defer provider.Close()

	pipeline := newTestPipeline(provider.URL)
	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "retry meme",
		ImageURL: images.URL + "/meme.png",
	})

	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected two provider calls, got %d", calls)
	}
	if !strings.Contains(secondBody, "Respond ONLY with a JSON object") {
		t.Error("expected strict JSON instruction on second attempt")
	}
	if result.Meta.Attempt != "fallback-json" {
		t.Errorf("unexpected attempt %q", result.Meta.Attempt)
	}
	if result.Summary != "Second try lands." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
}

func TestAnalyzeTruncatedOutput(t *testing.T) {
	images := newImageServer(t)

	var calls int32
	provider := newProviderServer(t, &calls, chatResponse("The meme depicts a very long setup that never", "length"))
	pipeline := newTestPipeline(provider.URL)

	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "truncated meme",
		ImageURL: images.URL + "/meme.png",
	})

	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected both attempts, got %d calls", calls)
	}
	if !result.Meta.Fallback {
		t.Fatal("expected fallback result")
	}
	if result.Meta.Reason != "model truncated output (length)" {
		t.Errorf("unexpected reason %q", result.Meta.Reason)
	}
	if result.Meta.FinishReason != "length" {
		t.Errorf("unexpected finish reason %q", result.Meta.FinishReason)
	}
	if result.Meta.Provider != "test-model" {
		t.Errorf("expected configured model as provider, got %q", result.Meta.Provider)
	}
}

func TestAnalyzeParseFailureAfterRetries(t *testing.T) {
	images := newImageServer(t)

	var calls int32
	provider := newProviderServer(t, &calls, chatResponse("no structure here at all", "stop"))
	pipeline := newTestPipeline(provider.URL)

	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "garbled meme",
		ImageURL: images.URL + "/meme.png",
	})

	if result.Meta.Reason != "parse failure after retries" {
		t.Errorf("unexpected reason %q", result.Meta.Reason)
	}
	if result.Summary == "" {
		t.Error("expected heuristic summary")
	}
}

func TestAnalyzeProviderErrorFallsBack(t *testing.T) {
	images := newImageServer(t)

	var calls int32
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer provider.Close()

	pipeline := newTestPipeline(provider.URL)
	result := pipeline.Analyze(context.Background(), AnalyzeRequest{
		Title:    "unavailable provider",
		ImageURL: images.URL + "/meme.png",
	})

	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected both attempts against failing provider, got %d", calls)
	}
	if !result.Meta.Fallback {
		t.Fatal("expected fallback result")
	}
	if result.Meta.Reason != "parse failure after retries" {
		t.Errorf("unexpected reason %q", result.Meta.Reason)
	}
}

func TestAnalyzeHeuristicWithoutTitle(t *testing.T) {
	pipeline := NewPipeline(nil)

	result := pipeline.Analyze(context.Background(), AnalyzeRequest{})

	if result.Summary != "This meme delivers a quick laugh." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if !reflect.DeepEqual(result.Tags, []string{taxonomy.LabelPlayful}) {
		t.Errorf("unexpected tags %v", result.Tags)
	}
	if !reflect.DeepEqual(result.Categories.Emotional, []string{taxonomy.LabelPlayful}) {
		t.Errorf("unexpected emotional categories %v", result.Categories.Emotional)
	}
}
