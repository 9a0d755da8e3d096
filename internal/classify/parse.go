package classify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// parsedAnalysis is the common shape both parsing strategies produce.
// A nil result means the text carried no usable summary.
type parsedAnalysis struct {
	Summary string
	Tags    []string
}

const maxTags = 3

var (
	fenceOpenPattern  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceClosePattern = regexp.MustCompile("```\\s*$")
	bracePattern      = regexp.MustCompile(`(?s)\{.*\}`)
	summaryLinePattern = regexp.MustCompile(`(?i)summary\s*[:\-]\s*(.+)`)
	tagsLinePattern    = regexp.MustCompile(`(?i)tags\s*[:\-]\s*(.+)`)
)

// parseStructuredText is the permissive strategy for free-form replies.
// It tries brace-delimited JSON first (tolerating capitalized keys and
// comma-joined tag strings), then falls back to Summary:/Tags: label lines.
func parseStructuredText(text string) *parsedAnalysis {
	if text == "" {
		return nil
	}

	if cleaned := cleanupJSONBlock(text); strings.HasPrefix(cleaned, "{") {
		var loose struct {
			Summary string      `json:"summary"`
			Tags    interface{} `json:"tags"`
		}
		if err := json.Unmarshal([]byte(cleaned), &loose); err == nil {
			summary := strings.TrimSpace(loose.Summary)
			if summary != "" {
				return &parsedAnalysis{Summary: summary, Tags: coerceTags(loose.Tags)}
			}
		}
	}

	summaryMatch := summaryLinePattern.FindStringSubmatch(text)
	if summaryMatch == nil {
		return nil
	}
	summary := strings.TrimSpace(summaryMatch[1])
	if summary == "" {
		return nil
	}

	var tags []string
	if tagsMatch := tagsLinePattern.FindStringSubmatch(text); tagsMatch != nil {
		tags = splitTags(tagsMatch[1])
	}

	return &parsedAnalysis{Summary: summary, Tags: tags}
}

// parseStrictJSON is the strict-schema strategy: the reply must be a JSON
// object with a string summary and an optional string-array tags field,
// possibly wrapped in markdown fences or prose (the first brace-delimited
// block is retried before giving up).
func parseStrictJSON(text string) *parsedAnalysis {
	if text == "" {
		return nil
	}

	if parsed := unmarshalStrict(cleanupJSONBlock(text)); parsed != nil {
		return parsed
	}
	if block := bracePattern.FindString(text); block != "" {
		return unmarshalStrict(block)
	}
	return nil
}

func unmarshalStrict(block string) *parsedAnalysis {
	var strict struct {
		Summary string   `json:"summary"`
		Tags    []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(block), &strict); err != nil {
		return nil
	}
	summary := strings.TrimSpace(strict.Summary)
	if summary == "" {
		return nil
	}
	return &parsedAnalysis{Summary: summary, Tags: trimTags(strict.Tags)}
}

// cleanupJSONBlock strips markdown fences and isolates the brace-delimited
// JSON object when the reply wraps it in prose.
func cleanupJSONBlock(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}

	withoutFences := fenceClosePattern.ReplaceAllString(fenceOpenPattern.ReplaceAllString(trimmed, ""), "")
	withoutFences = strings.TrimSpace(withoutFences)

	if strings.HasPrefix(withoutFences, "{") && strings.HasSuffix(withoutFences, "}") {
		return withoutFences
	}
	if block := bracePattern.FindString(withoutFences); block != "" {
		return block
	}
	return withoutFences
}

func coerceTags(value interface{}) []string {
	switch v := value.(type) {
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					tags = append(tags, s)
				}
			}
		}
		return capTags(tags)
	case string:
		return splitTags(v)
	default:
		return nil
	}
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return capTags(tags)
}

func trimTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return capTags(tags)
}

func capTags(tags []string) []string {
	if len(tags) > maxTags {
		return tags[:maxTags]
	}
	return tags
}
