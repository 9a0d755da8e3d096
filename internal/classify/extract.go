package classify

import (
	"encoding/json"
	"strings"
)

// Provider payloads nest the model text in several shapes: a plain string,
// an array of mixed text/annotation parts, or a streaming-style delta.
// extractText normalizes all of them into one trimmed plain-text payload,
// concatenating every recoverable fragment in encounter order.

type chatPayload struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
		Delta struct {
			Content json.RawMessage `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// extractText pulls the model text and finish reason out of a raw provider
// response body. An unparsable body yields empty text.
func extractText(raw []byte) (text, finishReason string) {
	var payload chatPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", ""
	}
	if len(payload.Choices) == 0 {
		return "", ""
	}

	choice := payload.Choices[0]
	content := choice.Message.Content
	if isEmptyJSON(content) {
		content = choice.Delta.Content
	}

	return decodeContent(content), choice.FinishReason
}

// decodeContent flattens a content value: a JSON string is returned as-is;
// an array is walked part by part, keeping string parts and the first text
// field found on object parts.
func decodeContent(raw json.RawMessage) string {
	if isEmptyJSON(raw) {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	fragments := make([]string, 0, len(parts))
	for _, part := range parts {
		if fragment := decodePart(part); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return strings.TrimSpace(strings.Join(fragments, "\n"))
}

func decodePart(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asObject struct {
		Text       string `json:"text"`
		Content    string `json:"content"`
		OutputText string `json:"output_text"`
	}
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return ""
	}
	switch {
	case asObject.Text != "":
		return asObject.Text
	case asObject.Content != "":
		return asObject.Content
	default:
		return asObject.OutputText
	}
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
