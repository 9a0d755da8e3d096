package classify

import (
	"reflect"
	"testing"
)

func TestParseStructuredTextJSONBlock(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSummary string
		wantTags    []string
	}{
		{
			name:        "plain json object",
			text:        `{"summary":"A cat judges a keyboard.","tags":["Reaction","Playful"]}`,
			wantSummary: "A cat judges a keyboard.",
			wantTags:    []string{"Reaction", "Playful"},
		},
		{
			name:        "fenced json",
			text:        "```json\n{\"summary\":\"Deadline panic.\",\"tags\":[\"Dark\"]}\n```",
			wantSummary: "Deadline panic.",
			wantTags:    []string{"Dark"},
		},
		{
			name:        "capitalized keys",
			text:        `{"Summary":"Case-insensitive match.","Tags":["Meta"]}`,
			wantSummary: "Case-insensitive match.",
			wantTags:    []string{"Meta"},
		},
		{
			name:        "comma-joined tag string",
			text:        `{"summary":"Tags as one string.","tags":"Playful, Wordplay"}`,
			wantSummary: "Tags as one string.",
			wantTags:    []string{"Playful", "Wordplay"},
		},
		{
			name:        "json embedded in prose",
			text:        "Here you go: {\"summary\":\"Wrapped.\",\"tags\":[\"Playful\"]} hope that helps!",
			wantSummary: "Wrapped.",
			wantTags:    []string{"Playful"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := parseStructuredText(tt.text)
			if parsed == nil {
				t.Fatal("expected parse to succeed")
			}
			if parsed.Summary != tt.wantSummary {
				t.Errorf("expected summary %q, got %q", tt.wantSummary, parsed.Summary)
			}
			if !reflect.DeepEqual(parsed.Tags, tt.wantTags) {
				t.Errorf("expected tags %v, got %v", tt.wantTags, parsed.Tags)
			}
		})
	}
}

func TestParseStructuredTextLabelLines(t *testing.T) {
	parsed := parseStructuredText("Summary: Two pandas trade insults.\nTags: Dialogue, Sarcastic")
	if parsed == nil {
		t.Fatal("expected parse to succeed")
	}
	if parsed.Summary != "Two pandas trade insults." {
		t.Errorf("unexpected summary %q", parsed.Summary)
	}
	if !reflect.DeepEqual(parsed.Tags, []string{"Dialogue", "Sarcastic"}) {
		t.Errorf("unexpected tags %v", parsed.Tags)
	}

	// Tags line is optional.
	parsed = parseStructuredText("Summary - A dog stares at homework.")
	if parsed == nil {
		t.Fatal("expected parse to succeed")
	}
	if parsed.Summary != "A dog stares at homework." {
		t.Errorf("unexpected summary %q", parsed.Summary)
	}
	if len(parsed.Tags) != 0 {
		t.Errorf("expected no tags, got %v", parsed.Tags)
	}
}

func TestParseStructuredTextRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "no summary anywhere", text: "Tags: Playful"},
		{name: "json with empty summary and no label line", text: `{"summary":"","tags":["Playful"]}`},
		{name: "truncated rambling", text: "The image shows a cat sitting on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if parsed := parseStructuredText(tt.text); parsed != nil {
				t.Errorf("expected nil, got %+v", parsed)
			}
		})
	}
}

func TestParseStrictJSON(t *testing.T) {
	parsed := parseStrictJSON("```json\n{\"summary\": \"Strict works.\", \"tags\": [\" Playful \", \"\", \"Dark\"]}\n```")
	if parsed == nil {
		t.Fatal("expected parse to succeed")
	}
	if parsed.Summary != "Strict works." {
		t.Errorf("unexpected summary %q", parsed.Summary)
	}
	if !reflect.DeepEqual(parsed.Tags, []string{"Playful", "Dark"}) {
		t.Errorf("expected blank tags dropped, got %v", parsed.Tags)
	}
}

func TestParseStrictJSONBraceRetry(t *testing.T) {
	parsed := parseStrictJSON(`Sure! {"summary":"Found inside prose.","tags":["Meta"]}`)
	if parsed == nil {
		t.Fatal("expected parse to succeed")
	}
	if parsed.Summary != "Found inside prose." {
		t.Errorf("unexpected summary %q", parsed.Summary)
	}
}

func TestParseStrictJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "label lines are not json", text: "Summary: nope\nTags: Playful"},
		{name: "empty summary", text: `{"summary":"   ","tags":["Playful"]}`},
		{name: "malformed object", text: `{"summary": "cut off`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if parsed := parseStrictJSON(tt.text); parsed != nil {
				t.Errorf("expected nil, got %+v", parsed)
			}
		})
	}
}

func TestTagCapping(t *testing.T) {
	parsed := parseStrictJSON(`{"summary":"Too many tags.","tags":["A","B","C","D","E"]}`)
	if parsed == nil {
		t.Fatal("expected parse to succeed")
	}
	if len(parsed.Tags) != maxTags {
		t.Errorf("expected %d tags, got %d", maxTags, len(parsed.Tags))
	}
}
